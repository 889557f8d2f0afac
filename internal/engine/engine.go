// Package engine holds the irrigation decision hierarchy: four sensor values
// in, one pump command plus justification out. It is pure — no clocks, no
// I/O, no state beyond the threshold set it was built with.
package engine

import (
	"fmt"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

type Engine struct {
	t model.Thresholds
}

// New builds an engine over an immutable threshold set.
func New(t model.Thresholds) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}
	return &Engine{t: t}, nil
}

// Thresholds returns the configuration the engine was built with.
func (e *Engine) Thresholds() model.Thresholds { return e.t }

// Decide maps a snapshot to exactly one of the decision outcomes. Rules are
// evaluated top to bottom, first match wins; every comparison is strict
// except the ideal-acidity band, which is inclusive on both ends.
//
// Precondition: the snapshot is valid. The actuation loop intercepts faulted
// snapshots before they reach the engine.
func (e *Engine) Decide(s model.SensorSnapshot) model.Decision {
	t := e.t

	// Emergency low moisture beats everything, including critical acidity:
	// losing the crop outright is worse than irrigating at a bad pH.
	if s.Moisture < t.MoistureCriticalLow {
		return model.Decision{PumpOn: true, Reason: model.ReasonEmergencyLowMoisture}
	}

	if s.AcidityEstimate < t.AcidityCriticalMin || s.AcidityEstimate > t.AcidityCriticalMax {
		return model.Decision{PumpOn: false, Reason: model.ReasonAcidityCritical}
	}

	if s.Moisture < t.MoistureMinTrigger {
		if s.AcidityEstimate >= t.AcidityIdealMin && s.AcidityEstimate <= t.AcidityIdealMax {
			// Moisture deficit takes priority over nutrient optimization:
			// absent nutrients downgrade the tier, never block the pump.
			switch {
			case s.PhosphorusPresent && s.PotassiumPresent:
				return model.Decision{PumpOn: true, Reason: model.ReasonIrrigateFullBenefit}
			case s.PhosphorusPresent || s.PotassiumPresent:
				return model.Decision{PumpOn: true, Reason: model.ReasonIrrigateReducedBenefit}
			default:
				return model.Decision{PumpOn: true, Reason: model.ReasonIrrigateMinimalBenefit}
			}
		}
		// Acidity between the critical and ideal bands: non-critical but
		// not worth irrigating into.
		return model.Decision{PumpOn: false, Reason: model.ReasonAciditySuboptimal}
	}

	if s.Moisture > t.MoistureHighStop {
		return model.Decision{PumpOn: false, Reason: model.ReasonMoistureHigh}
	}

	return model.Decision{PumpOn: false, Reason: model.ReasonConditionsNominal}
}
