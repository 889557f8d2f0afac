package model

import "fmt"

// Thresholds is the immutable configuration set driving the decision engine.
// The embedded controller compiles these as constants; here they are a plain
// struct so tests and deployments can swap threshold sets without rebuilds.
type Thresholds struct {
	MoistureCriticalLow float64 `json:"moisture_critical_low"` // below: emergency, overrides everything
	MoistureMinTrigger  float64 `json:"moisture_min_trigger"`  // below (and above critical): irrigation may engage
	MoistureHighStop    float64 `json:"moisture_high_stop"`    // above: irrigation forced off
	AcidityIdealMin     float64 `json:"acidity_ideal_min"`
	AcidityIdealMax     float64 `json:"acidity_ideal_max"`
	AcidityCriticalMin  float64 `json:"acidity_critical_min"`
	AcidityCriticalMax  float64 `json:"acidity_critical_max"`
}

// DefaultThresholds returns the values the field controllers ship with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MoistureCriticalLow: 15.0,
		MoistureMinTrigger:  20.0,
		MoistureHighStop:    30.0,
		AcidityIdealMin:     5.5,
		AcidityIdealMax:     6.5,
		AcidityCriticalMin:  4.5,
		AcidityCriticalMax:  7.5,
	}
}

// Validate checks the band ordering the rule hierarchy relies on.
func (t Thresholds) Validate() error {
	if t.MoistureCriticalLow >= t.MoistureMinTrigger {
		return fmt.Errorf("moisture critical low %.1f must sit below min trigger %.1f", t.MoistureCriticalLow, t.MoistureMinTrigger)
	}
	if t.MoistureMinTrigger >= t.MoistureHighStop {
		return fmt.Errorf("moisture min trigger %.1f must sit below high stop %.1f", t.MoistureMinTrigger, t.MoistureHighStop)
	}
	if t.AcidityIdealMin > t.AcidityIdealMax {
		return fmt.Errorf("acidity ideal band inverted: %.1f > %.1f", t.AcidityIdealMin, t.AcidityIdealMax)
	}
	if t.AcidityCriticalMin > t.AcidityIdealMin || t.AcidityIdealMax > t.AcidityCriticalMax {
		return fmt.Errorf("acidity ideal band %.1f-%.1f must sit inside critical band %.1f-%.1f",
			t.AcidityIdealMin, t.AcidityIdealMax, t.AcidityCriticalMin, t.AcidityCriticalMax)
	}
	return nil
}
