package sensor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/farmtech-solutions/irrigation-core/internal/model/messages"
	"github.com/farmtech-solutions/irrigation-core/pkg/dedup"
)

// Simulator tunables.
const (
	defaultInitialMoisture = 30.0 // percent
	defaultGainPerMin      = 0.6  // +0.6%/min while the pump runs
	defaultDecayPerMin     = 0.1  // -0.1%/min while it does not
	defaultInitialAcidity  = 1755 // raw sample, ~pH 6.0
	nutrientToggleChance   = 0.02 // per read
	acidityWalkStep        = 30   // raw counts per read
)

// SimulatorConfig tunes the synthetic field. Zero values pick the defaults
// above; FaultChance stays zero unless asked for.
type SimulatorConfig struct {
	FieldID         string
	SensorID        string
	InitialMoisture float64
	GainPerMin      float64
	DecayPerMin     float64
	FaultChance     float64 // probability a probe read comes back NaN
	Seed            int64
}

// Simulator stands in for the whole transducer set when no hardware is
// attached: moistures drifts down while the pump is off and climbs while it
// is on, acidity random-walks, nutrients flicker. It implements the probe
// and analog-line contracts directly and hands out views for the two
// nutrient lines.
type Simulator struct {
	mu          sync.Mutex
	cfg         SimulatorConfig
	rng         *rand.Rand
	moisture    float64
	temperature float64
	acidityRaw  int
	phosphorus  bool
	potassium   bool
	pumpOn      bool
	faulted     bool
	last        time.Time
	deduper     *dedup.Cache
	now         func() time.Time
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.InitialMoisture <= 0 {
		cfg.InitialMoisture = defaultInitialMoisture
	}
	if cfg.GainPerMin <= 0 {
		cfg.GainPerMin = defaultGainPerMin
	}
	if cfg.DecayPerMin <= 0 {
		cfg.DecayPerMin = defaultDecayPerMin
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	s := &Simulator{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		moisture:    clampPct(cfg.InitialMoisture),
		temperature: 24.0,
		acidityRaw:  defaultInitialAcidity,
		phosphorus:  true,
		potassium:   true,
		deduper:     dedup.New(2*time.Minute, 10000),
		now:         time.Now,
	}
	s.last = s.now()
	return s
}

// ReadHumidity advances the simulation one step and returns the soil
// moisture, or NaN on an injected probe fault. The fault holds for the
// temperature read of the same cycle, matching DHT failure behaviour.
func (s *Simulator) ReadHumidity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step()
	s.faulted = s.cfg.FaultChance > 0 && s.rng.Float64() < s.cfg.FaultChance
	if s.faulted {
		return math.NaN()
	}
	return s.moisture
}

func (s *Simulator) ReadTemperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.faulted {
		return math.NaN()
	}
	return s.temperature
}

// Sample returns the raw acidity reading in [0, 4095].
func (s *Simulator) Sample() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acidityRaw
}

// PhosphorusLine returns the active-low nutrient line view.
func (s *Simulator) PhosphorusLine() DigitalLine {
	return digitalFunc(func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.phosphorus
	})
}

func (s *Simulator) PotassiumLine() DigitalLine {
	return digitalFunc(func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.potassium
	})
}

// SetPumpState feeds the actuator state back into the soil model.
func (s *Simulator) SetPumpState(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pumpOn = on
}

// HandleStateChange consumes pump StateChangeEvents from the broker, the
// same feedback path the real field devices use. QoS1 redeliveries carry an
// identical payload and are dropped by hash.
func (s *Simulator) HandleStateChange(_ string, msg paho.Message) error {
	h := sha256.Sum256(msg.Payload())
	if !s.deduper.FirstSeen(hex.EncodeToString(h[:])) {
		return nil
	}

	var evt messages.StateChangeEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		return fmt.Errorf("invalid StateChangeEvent: %w", err)
	}
	if evt.SensorID != s.cfg.SensorID {
		return nil
	}
	s.SetPumpState(evt.NewState == "on")
	return nil
}

// step moves the soil model forward to the current instant. Caller holds mu.
func (s *Simulator) step() {
	now := s.now()
	dtMin := now.Sub(s.last).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}
	s.last = now

	if s.pumpOn {
		s.moisture = clampPct(s.moisture + s.cfg.GainPerMin*dtMin)
	} else {
		s.moisture = clampPct(s.moisture - s.cfg.DecayPerMin*dtMin)
	}

	s.acidityRaw += s.rng.Intn(2*acidityWalkStep+1) - acidityWalkStep
	if s.acidityRaw < 0 {
		s.acidityRaw = 0
	}
	if s.acidityRaw > analogSampleMax {
		s.acidityRaw = analogSampleMax
	}

	s.temperature += s.rng.Float64()*0.4 - 0.2
	if s.temperature < 10 {
		s.temperature = 10
	}
	if s.temperature > 40 {
		s.temperature = 40
	}

	if s.rng.Float64() < nutrientToggleChance {
		s.phosphorus = !s.phosphorus
	}
	if s.rng.Float64() < nutrientToggleChance {
		s.potassium = !s.potassium
	}
}

type digitalFunc func() bool

func (f digitalFunc) Asserted() bool { return f() }

func clampPct(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
