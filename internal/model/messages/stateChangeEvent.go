package messages

import "time"

// StateChangeEvent is published whenever the pump relay changes state, so
// field equipment (or the simulator standing in for it) can track the valve.
type StateChangeEvent struct {
	FieldID   string    `json:"field_id"`
	SensorID  string    `json:"sensor_id"`
	NewState  string    `json:"new_state"` // "on" | "off"
	Timestamp time.Time `json:"timestamp"`
}
