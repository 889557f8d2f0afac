package model

import "fmt"

// Reason is the closed enumeration of decision outcomes. The engine emits
// codes; rendering them as justification text is a separate step so tests
// compare codes, not strings.
type Reason string

const (
	ReasonEmergencyLowMoisture   Reason = "emergency_low_moisture"
	ReasonAcidityCritical        Reason = "acidity_critical"
	ReasonIrrigateFullBenefit    Reason = "irrigate_full_benefit"
	ReasonIrrigateReducedBenefit Reason = "irrigate_reduced_benefit"
	ReasonIrrigateMinimalBenefit Reason = "irrigate_minimal_benefit"
	ReasonAciditySuboptimal      Reason = "acidity_suboptimal"
	ReasonMoistureHigh           Reason = "moisture_high"
	ReasonConditionsNominal      Reason = "conditions_nominal"

	// ReasonSensorFault is produced by the actuation loop, never by the
	// engine: a snapshot with Valid=false skips rule evaluation entirely.
	ReasonSensorFault Reason = "sensor_fault"
)

// Decision is the engine's sole output: one actuator command plus the rule
// that produced it.
type Decision struct {
	PumpOn bool
	Reason Reason
}

// Text renders the justification for the status stream, carrying the
// concrete threshold values that framed the decision.
func (r Reason) Text(t Thresholds) string {
	switch r {
	case ReasonEmergencyLowMoisture:
		return fmt.Sprintf("EMERGENCY: moisture critically low (<%.1f%%)", t.MoistureCriticalLow)
	case ReasonAcidityCritical:
		return fmt.Sprintf("pump off: pH critical (outside %.1f-%.1f)", t.AcidityCriticalMin, t.AcidityCriticalMax)
	case ReasonIrrigateFullBenefit:
		return "pump on: moisture low, pH ideal, P and K present (full benefit)"
	case ReasonIrrigateReducedBenefit:
		return "pump on: moisture low, pH ideal, P or K present (reduced benefit)"
	case ReasonIrrigateMinimalBenefit:
		return "pump on: moisture low, pH ideal, P and K absent (minimal benefit)"
	case ReasonAciditySuboptimal:
		return fmt.Sprintf("pump off: moisture low but pH outside ideal band (%.1f-%.1f)", t.AcidityIdealMin, t.AcidityIdealMax)
	case ReasonMoistureHigh:
		return fmt.Sprintf("pump off: moisture high (>%.1f%%)", t.MoistureHighStop)
	case ReasonConditionsNominal:
		return "moisture in the comfortable band, pump stays off"
	case ReasonSensorFault:
		return "sensor fault: humidity/temperature probe returned NaN, pump forced off"
	default:
		return string(r)
	}
}
