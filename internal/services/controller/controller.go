// Package controller runs the actuation and reporting loop: acquire a
// snapshot, let the engine decide, drive the pump relay, report, pace.
package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/farmtech-solutions/irrigation-core/internal/engine"
	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

// Acquirer produces one snapshot per invocation.
type Acquirer interface {
	Acquire() model.SensorSnapshot
}

// Pump is the single binary actuator register. The loop is its only writer
// and touches it at most once per cycle.
type Pump interface {
	Set(on bool) error
	State() model.PumpState
}

// Reporter consumes one status record per completed cycle. Reporters must
// not block the loop on downstream failures.
type Reporter interface {
	Report(rec model.StatusRecord) error
}

const (
	defaultSteadyInterval = 3 * time.Second
	defaultFaultInterval  = 2 * time.Second
)

type Config struct {
	FieldID  string
	SensorID string

	// SteadyInterval paces normal cycles; FaultInterval paces cycles after
	// a probe fault, so a persistently failing transducer is not polled in
	// a tight loop.
	SteadyInterval time.Duration
	FaultInterval  time.Duration
}

type Controller struct {
	cfg      Config
	acquirer Acquirer
	engine   *engine.Engine
	pump     Pump
	reporter Reporter
	metrics  *Metrics // optional
	now      func() time.Time
}

func New(cfg Config, acq Acquirer, eng *engine.Engine, pump Pump, rep Reporter, m *Metrics) (*Controller, error) {
	if acq == nil {
		return nil, errors.New("acquirer is nil")
	}
	if eng == nil {
		return nil, errors.New("engine is nil")
	}
	if pump == nil {
		return nil, errors.New("pump is nil")
	}
	if rep == nil {
		return nil, errors.New("reporter is nil")
	}
	if cfg.SteadyInterval <= 0 {
		cfg.SteadyInterval = defaultSteadyInterval
	}
	if cfg.FaultInterval <= 0 {
		cfg.FaultInterval = defaultFaultInterval
	}
	return &Controller{
		cfg:      cfg,
		acquirer: acq,
		engine:   eng,
		pump:     pump,
		reporter: rep,
		metrics:  m,
		now:      time.Now,
	}, nil
}

// Run drives cycles until ctx is cancelled. The pump starts disengaged.
func (c *Controller) Run(ctx context.Context) {
	if err := c.pump.Set(false); err != nil {
		log.Printf("controller: initial pump off failed: %v", err)
	}
	log.Printf("controller: %s/%s loop started (steady=%s fault=%s)",
		c.cfg.FieldID, c.cfg.SensorID, c.cfg.SteadyInterval, c.cfg.FaultInterval)

	for {
		wait := c.step()
		select {
		case <-ctx.Done():
			// Leave the field safe on shutdown.
			if err := c.pump.Set(false); err != nil {
				log.Printf("controller: shutdown pump off failed: %v", err)
			}
			log.Printf("controller: %s/%s loop stopped", c.cfg.FieldID, c.cfg.SensorID)
			return
		case <-time.After(wait):
		}
	}
}

// step runs one cycle and returns the pacing interval for the next.
func (c *Controller) step() time.Duration {
	snap := c.acquirer.Acquire()
	if !snap.Valid {
		return c.faultCycle(snap)
	}

	d := c.engine.Decide(snap)
	if err := c.pump.Set(d.PumpOn); err != nil {
		log.Printf("controller: pump drive error: %v", err)
	}

	rec := c.record(snap, c.pump.State(), d.Reason)
	c.report(rec)

	if c.metrics != nil {
		c.metrics.CycleCompleted(d)
	}
	return c.cfg.SteadyInterval
}

// faultCycle is the Faulted branch: force the pump off, report the fault,
// skip rule evaluation entirely and back off before the next read.
func (c *Controller) faultCycle(snap model.SensorSnapshot) time.Duration {
	if err := c.pump.Set(false); err != nil {
		log.Printf("controller: pump off on fault failed: %v", err)
	}
	log.Printf("controller: %s/%s probe fault, pump forced off", c.cfg.FieldID, c.cfg.SensorID)

	rec := c.record(snap, c.pump.State(), model.ReasonSensorFault)
	rec.Moisture = 0
	rec.Temperature = 0
	c.report(rec)

	if c.metrics != nil {
		c.metrics.FaultCycle()
	}
	return c.cfg.FaultInterval
}

func (c *Controller) record(snap model.SensorSnapshot, pump model.PumpState, reason model.Reason) model.StatusRecord {
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = c.now().UTC()
	}
	return model.StatusRecord{
		FieldID:     c.cfg.FieldID,
		SensorID:    c.cfg.SensorID,
		Moisture:    snap.Moisture,
		Acidity:     snap.AcidityEstimate,
		Phosphorus:  snap.PhosphorusPresent,
		Potassium:   snap.PotassiumPresent,
		Temperature: snap.Temperature,
		PumpState:   string(pump),
		ReasonCode:  string(reason),
		Reason:      reason.Text(c.engine.Thresholds()),
		Valid:       snap.Valid,
		Timestamp:   ts,
	}
}

func (c *Controller) report(rec model.StatusRecord) {
	if err := c.reporter.Report(rec); err != nil {
		log.Printf("controller: report error: %v", err)
	}
}
