package adc

import (
	"math/rand"

	"github.com/canique/goulv/pkg/config"
	"github.com/canique/goulv/pkg/volt"
)

// Sim simulates the analog peripheral for host builds and tests.
//
// It models a battery behind the board's resistor divider: given the simulated
// pack voltage and the board calibration, a conversion produces the raw count
// the real converter would see, plus configurable noise. A configurable
// fraction of sleeps end in a spurious wake with the conversion unfinished.
//
// The measurement path is a single thread of control, so Sim does no locking.
type Sim struct {
	cfg *config.SimConfig
	cal volt.Calibration
	rng *rand.Rand

	enabled bool
	ref     ReferenceSource
	busy    bool
	result  uint16

	// Attempt counters, readable by tests.
	conversions   int
	spuriousWakes int
}

// NewSim creates a simulated peripheral for the given board calibration.
func NewSim(cfg *config.SimConfig, cal volt.Calibration) *Sim {
	if cfg == nil {
		cfg = &config.SimConfig{
			BatteryMillivolts: 3000,
			NoiseCounts:       2,
			SpuriousRate:      0.0,
			Seed:              1,
		}
	}

	return &Sim{
		cfg: cfg,
		cal: cal,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		ref: ReferenceVCC,
	}
}

// Enable powers the simulated converter up.
func (s *Sim) Enable() {
	s.enabled = true
}

// Disable powers the simulated converter down and cancels any conversion.
func (s *Sim) Disable() {
	s.enabled = false
	s.busy = false
}

// SelectReference selects the simulated reference source.
func (s *Sim) SelectReference(ref ReferenceSource) {
	s.ref = ref
}

// StartConversion begins a simulated conversion.
func (s *Sim) StartConversion() {
	if !s.enabled {
		return
	}
	s.busy = true
	s.conversions++
}

// SleepUntilDone simulates the noise-reduction sleep. With probability
// SpuriousRate the sleep is cut short by an unrelated event and the conversion
// is left unfinished.
func (s *Sim) SleepUntilDone() WakeReason {
	if !s.busy {
		return WakeOther
	}

	if s.rng.Float64() < s.cfg.SpuriousRate {
		s.spuriousWakes++
		return WakeOther
	}

	s.result = s.sample()
	s.busy = false
	return WakeConversionDone
}

// Busy reports whether a simulated conversion is still in flight.
func (s *Sim) Busy() bool {
	return s.busy
}

// Result returns the raw count of the last completed conversion.
func (s *Sim) Result() uint16 {
	return s.result
}

// Conversions returns how many conversions were started.
func (s *Sim) Conversions() int {
	return s.conversions
}

// SpuriousWakes returns how many sleeps ended spuriously.
func (s *Sim) SpuriousWakes() int {
	return s.spuriousWakes
}

// Enabled reports whether the simulated converter is powered.
func (s *Sim) Enabled() bool {
	return s.enabled
}

// sample produces one raw count for the configured battery voltage.
func (s *Sim) sample() uint16 {
	nodeVoltage := s.cfg.BatteryMillivolts / 1000.0 / s.cal.DividerRatio()

	count := nodeVoltage / s.cal.VRef * float64(s.cal.FullScale)
	count += (s.rng.Float64()*2 - 1) * s.cfg.NoiseCounts

	if count < 0 {
		count = 0
	}
	if count > float64(s.cal.FullScale) {
		count = float64(s.cal.FullScale)
	}
	return uint16(count + 0.5)
}
