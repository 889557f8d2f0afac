package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
	"github.com/farmtech-solutions/irrigation-core/pkg/mqtt"
)

// LineReporter writes the human-readable status line, one per cycle. This
// is the serial-monitor surface of the original field controller.
type LineReporter struct {
	w io.Writer
}

func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Report(rec model.StatusRecord) error {
	var err error
	if rec.Valid {
		_, err = fmt.Fprintf(r.w, "moisture=%.1f%% pH=%.1f P=%s K=%s temp=%.1fC | %s | pump=%s\n",
			rec.Moisture, rec.Acidity, yesNo(rec.Phosphorus), yesNo(rec.Potassium),
			rec.Temperature, rec.Reason, pumpWord(rec.PumpState))
	} else {
		_, err = fmt.Fprintf(r.w, "!! %s | pH=%.1f P=%s K=%s | pump=%s\n",
			rec.Reason, rec.Acidity, yesNo(rec.Phosphorus), yesNo(rec.Potassium), pumpWord(rec.PumpState))
	}
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pumpWord(state string) string {
	return model.PumpState(state).Word()
}

// StatusPublisher forwards records to the broker as JSON. A circuit breaker
// guards the publish so an unreachable broker costs one fast failure per
// cycle instead of a blocking wait; the control loop keeps running either
// way.
type StatusPublisher struct {
	pub mqtt.IPublisher
	cb  *gobreaker.CircuitBreaker
}

func NewStatusPublisher(pub mqtt.IPublisher) *StatusPublisher {
	return &StatusPublisher{
		pub: pub,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "status-stream",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (p *StatusPublisher) Report(rec model.StatusRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal status record: %w", err)
	}
	_, err = p.cb.Execute(func() (any, error) {
		return nil, p.pub.PublishMessage(string(b))
	})
	if err != nil {
		return fmt.Errorf("status publish (cb=%s): %w", p.cb.State(), err)
	}
	return nil
}

// MultiReporter fans one record out to several reporters. Failures are
// logged per reporter and never short-circuit the rest.
type MultiReporter []Reporter

func (m MultiReporter) Report(rec model.StatusRecord) error {
	for _, r := range m {
		if err := r.Report(rec); err != nil {
			log.Printf("controller: reporter error: %v", err)
		}
	}
	return nil
}
