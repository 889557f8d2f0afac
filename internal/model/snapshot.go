package model

import "time"

// PumpState indicates whether the irrigation pump relay is engaged.
type PumpState string

const (
	PumpOff PumpState = "off"
	PumpOn  PumpState = "on"
)

// Word renders the state as the token used on the status stream.
func (p PumpState) Word() string {
	if p == PumpOn {
		return "ON"
	}
	return "OFF"
}

// SensorSnapshot is one consistent set of readings captured at a single
// instant. It lives for exactly one control cycle: the loop builds it,
// feeds it to the decision engine and discards it.
type SensorSnapshot struct {
	Moisture          float64 // soil moisture, percent
	AcidityEstimate   float64 // pH-like scale, 0..14
	PhosphorusPresent bool
	PotassiumPresent  bool
	Temperature       float64 // informative only, never drives a rule
	Valid             bool    // false when the humidity/temperature probe read NaN
	Timestamp         time.Time
}
