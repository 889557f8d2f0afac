package engine

import (
	"testing"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(model.DefaultThresholds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func snap(moisture, acidity float64, p, k bool) model.SensorSnapshot {
	return model.SensorSnapshot{
		Moisture:          moisture,
		AcidityEstimate:   acidity,
		PhosphorusPresent: p,
		PotassiumPresent:  k,
		Temperature:       24.0,
		Valid:             true,
	}
}

func TestDecideScenarios(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name       string
		in         model.SensorSnapshot
		wantPump   bool
		wantReason model.Reason
	}{
		{"emergency overrides nutrients and acidity", snap(10.0, 6.0, true, true), true, model.ReasonEmergencyLowMoisture},
		{"emergency overrides critical acidity", snap(10.0, 9.0, false, false), true, model.ReasonEmergencyLowMoisture},
		{"critical acidity blocks irrigation", snap(25.0, 8.0, false, false), false, model.ReasonAcidityCritical},
		{"critical acidity blocks even at low moisture", snap(18.0, 3.0, true, true), false, model.ReasonAcidityCritical},
		{"full benefit with both nutrients", snap(18.0, 6.0, true, true), true, model.ReasonIrrigateFullBenefit},
		{"reduced benefit with phosphorus only", snap(18.0, 6.0, true, false), true, model.ReasonIrrigateReducedBenefit},
		{"reduced benefit with potassium only", snap(18.0, 6.0, false, true), true, model.ReasonIrrigateReducedBenefit},
		{"minimal benefit still irrigates", snap(18.0, 6.0, false, false), true, model.ReasonIrrigateMinimalBenefit},
		{"suboptimal acidity blocks the main band", snap(18.0, 7.0, true, true), false, model.ReasonAciditySuboptimal},
		{"suboptimal acidity on the acid side", snap(18.0, 5.0, true, true), false, model.ReasonAciditySuboptimal},
		{"high moisture cutoff", snap(35.0, 6.0, true, true), false, model.ReasonMoistureHigh},
		{"steady band keeps pump off", snap(25.0, 6.0, false, false), false, model.ReasonConditionsNominal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Decide(tt.in)
			if got.PumpOn != tt.wantPump || got.Reason != tt.wantReason {
				t.Errorf("Decide(%+v) = (%v, %s), want (%v, %s)",
					tt.in, got.PumpOn, got.Reason, tt.wantPump, tt.wantReason)
			}
		})
	}
}

func TestDecideBoundaries(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name       string
		in         model.SensorSnapshot
		wantPump   bool
		wantReason model.Reason
	}{
		// Strict comparisons at moisture edges.
		{"moisture exactly critical-low is not an emergency", snap(15.0, 6.0, true, true), true, model.ReasonIrrigateFullBenefit},
		{"moisture exactly min-trigger does not irrigate", snap(20.0, 6.0, true, true), false, model.ReasonConditionsNominal},
		{"moisture exactly high-stop is still nominal", snap(30.0, 6.0, true, true), false, model.ReasonConditionsNominal},
		{"just above high-stop cuts off", snap(30.1, 6.0, true, true), false, model.ReasonMoistureHigh},
		{"just below critical-low is an emergency", snap(14.9, 6.0, true, true), true, model.ReasonEmergencyLowMoisture},
		// The ideal band is inclusive on both ends.
		{"acidity exactly ideal-min counts as ideal", snap(18.0, 5.5, true, true), true, model.ReasonIrrigateFullBenefit},
		{"acidity exactly ideal-max counts as ideal", snap(18.0, 6.5, true, true), true, model.ReasonIrrigateFullBenefit},
		// The critical band is strict on both ends.
		{"acidity exactly critical-min is not critical", snap(18.0, 4.5, true, true), false, model.ReasonAciditySuboptimal},
		{"acidity exactly critical-max is not critical", snap(18.0, 7.5, true, true), false, model.ReasonAciditySuboptimal},
		{"acidity just below critical-min is critical", snap(18.0, 4.4, true, true), false, model.ReasonAcidityCritical},
		{"acidity just above critical-max is critical", snap(18.0, 7.6, true, true), false, model.ReasonAcidityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Decide(tt.in)
			if got.PumpOn != tt.wantPump || got.Reason != tt.wantReason {
				t.Errorf("Decide(%+v) = (%v, %s), want (%v, %s)",
					tt.in, got.PumpOn, got.Reason, tt.wantPump, tt.wantReason)
			}
		})
	}
}

// Every valid snapshot must land on exactly one of the five rule outcomes,
// and emergency must dominate whenever moisture is below critical-low.
func TestDecideTotality(t *testing.T) {
	e := newEngine(t)

	ruleOutcomes := map[model.Reason]bool{
		model.ReasonEmergencyLowMoisture:   true,
		model.ReasonAcidityCritical:        true,
		model.ReasonIrrigateFullBenefit:    true,
		model.ReasonIrrigateReducedBenefit: true,
		model.ReasonIrrigateMinimalBenefit: true,
		model.ReasonAciditySuboptimal:      true,
		model.ReasonMoistureHigh:           true,
		model.ReasonConditionsNominal:      true,
	}

	for moisture := 0.0; moisture <= 100.0; moisture += 2.5 {
		for acidity := 0.0; acidity <= 14.0; acidity += 0.25 {
			for _, p := range []bool{false, true} {
				for _, k := range []bool{false, true} {
					d := e.Decide(snap(moisture, acidity, p, k))
					if !ruleOutcomes[d.Reason] {
						t.Fatalf("moisture=%.2f acidity=%.2f: unexpected reason %s", moisture, acidity, d.Reason)
					}
					if moisture < 15.0 && !d.PumpOn {
						t.Fatalf("moisture=%.2f acidity=%.2f: emergency must engage the pump", moisture, acidity)
					}
					if moisture >= 15.0 && (acidity < 4.5 || acidity > 7.5) && d.PumpOn {
						t.Fatalf("moisture=%.2f acidity=%.2f: critical acidity must block the pump", moisture, acidity)
					}
				}
			}
		}
	}
}

func TestDecideIdempotent(t *testing.T) {
	e := newEngine(t)
	s := snap(18.0, 6.0, true, false)
	first := e.Decide(s)
	second := e.Decide(s)
	if first != second {
		t.Errorf("same snapshot produced %+v then %+v", first, second)
	}
}

func TestAlternateThresholds(t *testing.T) {
	alt := model.Thresholds{
		MoistureCriticalLow: 10.0,
		MoistureMinTrigger:  25.0,
		MoistureHighStop:    40.0,
		AcidityIdealMin:     6.0,
		AcidityIdealMax:     7.0,
		AcidityCriticalMin:  5.0,
		AcidityCriticalMax:  8.0,
	}
	e, err := New(alt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if d := e.Decide(snap(12.0, 6.5, true, true)); d.Reason != model.ReasonIrrigateFullBenefit {
		t.Errorf("moisture 12 under alt thresholds: got %s, want full-benefit irrigation", d.Reason)
	}
	if d := e.Decide(snap(9.0, 6.5, true, true)); d.Reason != model.ReasonEmergencyLowMoisture {
		t.Errorf("moisture 9 under alt thresholds: got %s, want emergency", d.Reason)
	}
}

func TestNewRejectsBadThresholds(t *testing.T) {
	bad := model.DefaultThresholds()
	bad.MoistureMinTrigger = 12.0 // below critical-low
	if _, err := New(bad); err == nil {
		t.Fatal("expected error for inverted moisture bands")
	}

	bad = model.DefaultThresholds()
	bad.AcidityIdealMax = 8.0 // outside the critical band
	if _, err := New(bad); err == nil {
		t.Fatal("expected error for ideal band outside critical band")
	}
}
