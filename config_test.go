package livemix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate exercises the configuration limits.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"rate_too_low", func(c *Config) { c.SampleRate = 4000 }, true},
		{"rate_too_high", func(c *Config) { c.SampleRate = 384000 }, true},
		{"zero_block", func(c *Config) { c.BlockSize = 0 }, true},
		{"block_too_large", func(c *Config) { c.BlockSize = 100000 }, true},
		{"ring_smaller_than_block", func(c *Config) { c.RingCapacity = 64 }, true},
		{"negative_ramp", func(c *Config) { c.RampMs = -1 }, true},
		{"zero_ramp_ok", func(c *Config) { c.RampMs = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestConfig_RoundTrip verifies YAML save and load preserve settings.
func TestConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 44100
	cfg.Channel.GainDB = -6.5
	cfg.Channel.Mute = true
	cfg.Device.Card = 2

	path := filepath.Join(t.TempDir(), "livemix.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestLoadConfig_FillsDefaults verifies unset fields take defaults.
func TestLoadConfig_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channel:\n  gain_db: -12\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, -12.0, cfg.Channel.GainDB)
	assert.Equal(t, DefaultSampleRate, cfg.SampleRate)
	assert.Equal(t, DefaultBlockSize, cfg.BlockSize)
}

// TestLoadConfig_Invalid verifies invalid files and settings fail.
func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 1\n"), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
