// Package sensor acquires soil/environment readings from the field
// transducers and packages them as per-cycle snapshots.
package sensor

import (
	"math"
	"time"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

// HumidityTemperatureProbe is the combined soil-moisture/temperature
// transducer (DHT-class). A failed read surfaces as NaN, never as an error.
type HumidityTemperatureProbe interface {
	ReadHumidity() float64
	ReadTemperature() float64
}

// AnalogLine samples a raw analog input in [0, 4095].
type AnalogLine interface {
	Sample() int
}

// DigitalLine reads an active-low digital input: Asserted reports whether
// the line is electrically pulled low.
type DigitalLine interface {
	Asserted() bool
}

const (
	analogSampleMax = 4095
	acidityScaleMax = 14.0
)

// Adapter turns one read of the four logical inputs into a SensorSnapshot.
// It performs no retries: a NaN from the probe marks the snapshot invalid
// for this cycle only, and the next cycle re-reads independently.
type Adapter struct {
	probe      HumidityTemperatureProbe
	acidity    AnalogLine
	phosphorus DigitalLine
	potassium  DigitalLine
	now        func() time.Time
}

func NewAdapter(probe HumidityTemperatureProbe, acidity AnalogLine, phosphorus, potassium DigitalLine) *Adapter {
	return &Adapter{
		probe:      probe,
		acidity:    acidity,
		phosphorus: phosphorus,
		potassium:  potassium,
		now:        time.Now,
	}
}

// Acquire produces exactly one snapshot. When either probe value reads NaN,
// moisture and temperature are unusable and Valid stays false; acidity and
// nutrient lines are still captured for the status stream.
func (a *Adapter) Acquire() model.SensorSnapshot {
	humidity := a.probe.ReadHumidity()
	temperature := a.probe.ReadTemperature()

	snap := model.SensorSnapshot{
		AcidityEstimate:   acidityFromSample(a.acidity.Sample()),
		PhosphorusPresent: a.phosphorus.Asserted(),
		PotassiumPresent:  a.potassium.Asserted(),
		Timestamp:         a.now().UTC(),
	}
	if math.IsNaN(humidity) || math.IsNaN(temperature) {
		return snap
	}
	snap.Moisture = humidity
	snap.Temperature = temperature
	snap.Valid = true
	return snap
}

// acidityFromSample maps the raw [0,4095] reading linearly onto the 0..14
// pH-like scale. Out-of-range samples are clamped rather than rejected.
func acidityFromSample(raw int) float64 {
	if raw < 0 {
		raw = 0
	}
	if raw > analogSampleMax {
		raw = analogSampleMax
	}
	return float64(raw) / analogSampleMax * acidityScaleMax
}
