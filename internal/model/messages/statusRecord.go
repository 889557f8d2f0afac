package messages

import "time"

// StatusRecord is the structured form of one status-stream line. Downstream
// collaborators (persistence, analytics, dashboards) ingest these as opaque
// candidate records; none of them feed back into the decision path.
type StatusRecord struct {
	FieldID     string    `json:"field_id"`
	SensorID    string    `json:"sensor_id"`
	Moisture    float64   `json:"moisture"`
	Acidity     float64   `json:"acidity"`
	Phosphorus  bool      `json:"phosphorus"`
	Potassium   bool      `json:"potassium"`
	Temperature float64   `json:"temperature"`
	PumpState   string    `json:"pump_state"` // "on" | "off"
	ReasonCode  string    `json:"reason_code"`
	Reason      string    `json:"reason"` // human-readable justification
	Valid       bool      `json:"valid"`  // false on a probe fault cycle
	Timestamp   time.Time `json:"timestamp"`
}
