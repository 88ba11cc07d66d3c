package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Board variant names. The two ULV board revisions differ only in the lower
// divider resistor, which changes the measurable battery voltage range.
const (
	Variant3V3 = "3v3" // up to ~3.5 V packs, R2 = 309k
	Variant1V8 = "1v8" // up to ~1.8 V packs, R2 = 1M
)

// Config represents the application configuration.
type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	Board    BoardConfig    `yaml:"board"`
	Sampling SamplingConfig `yaml:"sampling"`
	Sleep    SleepConfig    `yaml:"sleep"`
	Sim      SimConfig      `yaml:"sim"`
}

// SerialConfig contains the serial reporting sink configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// BoardConfig contains the per-board measurement constants.
type BoardConfig struct {
	Variant    string  `yaml:"variant"`    // "3v3" or "1v8"
	R1         float64 `yaml:"r1"`         // upper divider resistor (ohm)
	R2         float64 `yaml:"r2"`         // lower divider resistor (ohm)
	VRef       float64 `yaml:"vref"`       // ADC reference voltage (V)
	FullScale  uint16  `yaml:"full_scale"` // ADC full-scale count
	Correction float64 `yaml:"correction"` // field-measured correction factor
}

// SamplingConfig contains measurement-cycle parameters.
type SamplingConfig struct {
	SampleCount int           `yaml:"sample_count"` // conversion attempts per cycle
	WarmupDelay time.Duration `yaml:"warmup_delay"` // reference stabilization after power-up
	SettleDelay time.Duration `yaml:"settle_delay"` // divider node settle, once per cycle
	// KeepSpurious disables the spurious-wake filter entirely, matching the
	// behavior of the older board sketch. Readings then include conversions
	// that were interrupted mid-flight, so leave this off unless you are
	// comparing against an old unit.
	KeepSpurious bool `yaml:"keep_spurious"`
}

// SleepConfig contains the deep-sleep parameters between cycles.
type SleepConfig struct {
	Interval   time.Duration `yaml:"interval"`
	DisableBOD bool          `yaml:"disable_bod"` // drop brown-out detection during sleep
}

// SimConfig contains simulated peripheral configuration.
type SimConfig struct {
	BatteryMillivolts float64 `yaml:"battery_millivolts"` // simulated pack voltage
	NoiseCounts       float64 `yaml:"noise_counts"`       // peak noise amplitude in raw counts
	SpuriousRate      float64 `yaml:"spurious_rate"`      // probability [0,1] a sleep is cut short
	Seed              int64   `yaml:"seed"`               // RNG seed, fixed for reproducible runs
}

// Default returns a default configuration for the 3.3 V board variant.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
		},
		Board: BoardConfig{
			Variant:    Variant3V3,
			R1:         680000,
			R2:         309000,
			VRef:       1.1,
			FullScale:  1023,
			Correction: 1.0,
		},
		Sampling: SamplingConfig{
			SampleCount: 8,
			WarmupDelay: 5 * time.Millisecond,
			SettleDelay: 500 * time.Microsecond,
		},
		Sleep: SleepConfig{
			Interval:   8 * time.Second,
			DisableBOD: true,
		},
		Sim: SimConfig{
			BatteryMillivolts: 3000,
			NoiseCounts:       2,
			SpuriousRate:      0.0,
			Seed:              1,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if
// missing. The divider resistors are filled in from the board variant so a
// config only needs to name the variant, not the resistor values.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Board.Variant == "" {
		c.Board.Variant = def.Board.Variant
	}
	if c.Board.R1 == 0 {
		c.Board.R1 = 680000
	}
	if c.Board.R2 == 0 {
		switch c.Board.Variant {
		case Variant1V8:
			c.Board.R2 = 1000000
		default:
			c.Board.R2 = 309000
		}
	}
	if c.Board.VRef == 0 {
		c.Board.VRef = def.Board.VRef
	}
	if c.Board.FullScale == 0 {
		c.Board.FullScale = def.Board.FullScale
	}
	if c.Board.Correction == 0 {
		c.Board.Correction = def.Board.Correction
	}

	if c.Sampling.SampleCount == 0 {
		c.Sampling.SampleCount = def.Sampling.SampleCount
	}
	if c.Sampling.WarmupDelay == 0 {
		c.Sampling.WarmupDelay = def.Sampling.WarmupDelay
	}
	if c.Sampling.SettleDelay == 0 {
		c.Sampling.SettleDelay = def.Sampling.SettleDelay
	}

	if c.Sleep.Interval == 0 {
		c.Sleep.Interval = def.Sleep.Interval
	}

	if c.Sim.BatteryMillivolts == 0 {
		c.Sim.BatteryMillivolts = def.Sim.BatteryMillivolts
	}
	if c.Sim.Seed == 0 {
		c.Sim.Seed = def.Sim.Seed
	}
}
