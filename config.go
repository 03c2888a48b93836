package livemix

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration limits and defaults.
const (
	// DefaultSampleRate is the engine's default processing rate in Hz.
	DefaultSampleRate = 48000.0

	// DefaultBlockSize is the default processing block in samples.
	DefaultBlockSize = 256

	// DefaultRingCapacity is the default sample transport capacity.
	// Power of two; roughly 170 ms of audio at 48 kHz.
	DefaultRingCapacity = 8192

	// DefaultRampMs is the default parameter smoothing time.
	DefaultRampMs = 10.0

	// minSampleRate and maxSampleRate bound accepted device rates.
	minSampleRate = 8000.0
	maxSampleRate = 192000.0

	// maxBlockSize bounds the per-callback processing block.
	maxBlockSize = 8192
)

// ErrInvalidConfig indicates invalid session configuration parameters.
var ErrInvalidConfig = errors.New("invalid session configuration")

// Config holds session configuration: the processing format, transport
// sizing, parameter smoothing, and the persisted channel-strip settings.
type Config struct {
	// SampleRate is the processing rate in Hz.
	SampleRate float64 `yaml:"sample_rate"`

	// BlockSize is the number of samples processed per audio-thread
	// invocation.
	BlockSize int `yaml:"block_size"`

	// RingCapacity is the requested sample transport capacity. Rounded
	// up to a power of two at session creation.
	RingCapacity int `yaml:"ring_capacity"`

	// RampMs is the parameter smoothing time in milliseconds. Zero
	// degrades to instantaneous application.
	RampMs float64 `yaml:"ramp_ms"`

	// Channel holds the persisted channel-strip settings.
	Channel ChannelConfig `yaml:"channel"`

	// Device holds hints for the capture/playback collaborators. The
	// engine itself does not open devices.
	Device DeviceConfig `yaml:"device"`
}

// ChannelConfig is the persisted state of the channel strip.
type ChannelConfig struct {
	// GainDB is the output gain in decibels.
	GainDB float64 `yaml:"gain_db"`

	// Mute hard-mutes the strip output.
	Mute bool `yaml:"mute"`
}

// DeviceConfig carries audio-device selection hints for the CLI and
// other device-opening collaborators.
type DeviceConfig struct {
	Card        int `yaml:"card"`
	Device      int `yaml:"device"`
	PeriodCount int `yaml:"period_count"`
}

// DefaultConfig returns a config with sensible live-input defaults.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   DefaultSampleRate,
		BlockSize:    DefaultBlockSize,
		RingCapacity: DefaultRingCapacity,
		RampMs:       DefaultRampMs,
		Device:       DeviceConfig{PeriodCount: 4},
	}
}

// Validate checks configuration limits.
func (c *Config) Validate() error {
	if c.SampleRate < minSampleRate || c.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate %v outside [%v, %v]",
			ErrInvalidConfig, c.SampleRate, minSampleRate, maxSampleRate)
	}
	if c.BlockSize <= 0 || c.BlockSize > maxBlockSize {
		return fmt.Errorf("%w: block size %d outside (0, %d]",
			ErrInvalidConfig, c.BlockSize, maxBlockSize)
	}
	if c.RingCapacity < c.BlockSize {
		return fmt.Errorf("%w: ring capacity %d smaller than block size %d",
			ErrInvalidConfig, c.RingCapacity, c.BlockSize)
	}
	if c.RampMs < 0 {
		return fmt.Errorf("%w: ramp time %v is negative", ErrInvalidConfig, c.RampMs)
	}
	return nil
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
