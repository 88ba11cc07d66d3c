package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, Variant3V3, cfg.Board.Variant)
	assert.Equal(t, float64(680000), cfg.Board.R1)
	assert.Equal(t, float64(309000), cfg.Board.R2)
	assert.Equal(t, 1.1, cfg.Board.VRef)
	assert.Equal(t, uint16(1023), cfg.Board.FullScale)
	assert.Equal(t, 1.0, cfg.Board.Correction)
	assert.Equal(t, 8, cfg.Sampling.SampleCount)
	assert.Equal(t, 5*time.Millisecond, cfg.Sampling.WarmupDelay)
	assert.Equal(t, 500*time.Microsecond, cfg.Sampling.SettleDelay)
	assert.False(t, cfg.Sampling.KeepSpurious)
	assert.Equal(t, 8*time.Second, cfg.Sleep.Interval)
	assert.True(t, cfg.Sleep.DisableBOD)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, Variant3V3, cfg.Board.Variant)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
  baud_rate: 57600

board:
  variant: "1v8"
  correction: 1.012

sampling:
  sample_count: 16
  warmup_delay: 10ms
  settle_delay: 800us
  keep_spurious: true

sleep:
  interval: 2s

sim:
  battery_millivolts: 1500
  noise_counts: 1
  spurious_rate: 0.25
  seed: 42
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, Variant1V8, cfg.Board.Variant)
	assert.Equal(t, 1.012, cfg.Board.Correction)
	assert.Equal(t, 16, cfg.Sampling.SampleCount)
	assert.Equal(t, 10*time.Millisecond, cfg.Sampling.WarmupDelay)
	assert.Equal(t, 800*time.Microsecond, cfg.Sampling.SettleDelay)
	assert.True(t, cfg.Sampling.KeepSpurious)
	assert.Equal(t, 2*time.Second, cfg.Sleep.Interval)
	assert.Equal(t, float64(1500), cfg.Sim.BatteryMillivolts)
	assert.Equal(t, 0.25, cfg.Sim.SpuriousRate)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
}

func TestLoad_VariantResistorDefaults(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		wantR2  float64
	}{
		{name: "3v3 variant", variant: "3v3", wantR2: 309000},
		{name: "1v8 variant", variant: "1v8", wantR2: 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
			require.NoError(t, err)
			defer os.Remove(tmpfile.Name())

			_, err = tmpfile.WriteString("board:\n  variant: \"" + tt.variant + "\"\n")
			require.NoError(t, err)
			require.NoError(t, tmpfile.Close())

			cfg, err := Load(tmpfile.Name())
			require.NoError(t, err)

			assert.Equal(t, float64(680000), cfg.Board.R1)
			assert.Equal(t, tt.wantR2, cfg.Board.R2)
			assert.Equal(t, 1.1, cfg.Board.VRef)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("board: [not a mapping")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = Load(tmpfile.Name())
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Board.Variant = Variant1V8
	cfg.Board.R2 = 1000000
	cfg.Board.Correction = 0.997
	cfg.Sleep.Interval = 2 * time.Second

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Board.Variant, loaded.Board.Variant)
	assert.Equal(t, cfg.Board.R2, loaded.Board.R2)
	assert.Equal(t, cfg.Board.Correction, loaded.Board.Correction)
	assert.Equal(t, cfg.Sleep.Interval, loaded.Sleep.Interval)
}
