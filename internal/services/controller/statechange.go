package controller

import (
	"encoding/json"
	"log"
	"time"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
	"github.com/farmtech-solutions/irrigation-core/internal/model/messages"
	"github.com/farmtech-solutions/irrigation-core/pkg/mqtt"
)

// PublishStateChanges mirrors every relay transition onto the broker as a
// StateChangeEvent, QoS1 so field equipment does not miss a valve command.
// Publish failures are logged and dropped; the relay write itself already
// succeeded and the loop must not stall on the broker.
func PublishStateChanges(relay *Relay, pub mqtt.IPublisher, fieldID, sensorID string) {
	relay.OnChange(func(state model.PumpState) {
		evt := messages.StateChangeEvent{
			FieldID:   fieldID,
			SensorID:  sensorID,
			NewState:  string(state),
			Timestamp: time.Now().UTC(),
		}
		b, err := json.Marshal(evt)
		if err != nil {
			log.Printf("controller: marshal state change: %v", err)
			return
		}
		if err := pub.PublishToQoS(1, false, string(b)); err != nil {
			log.Printf("controller: publish state change: %v", err)
		}
	})
}
