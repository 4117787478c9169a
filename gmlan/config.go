package gmlan

import (
	"fmt"
	"os"

	"github.com/openecutools/gmdiag/common"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Config.applyEnv.
const (
	envAddressingScheme = "GMDIAG_ADDRESSING_SCHEME"
	envReplyTimeout     = "GMDIAG_REPLY_TIMEOUT"
	envVerbose          = "GMDIAG_VERBOSE"
)

// Config describes configurable parameters when creating a Client.
type Config struct {
	// AddressingScheme is the byte width used to encode ECU memory
	// addresses: 1, 2 or 4. It bounds valid addresses to [0, 256^width)
	// and shrinks the per-message data ceiling by the same width.
	AddressingScheme int

	// Verbose selects a stderr logger when no Logger is supplied.
	Verbose bool

	// Logger receives protocol traces and validation warnings.
	// Defaults to NewStdLogger when Verbose, NopLogger otherwise.
	Logger common.Logger

	// Timings holds the reply timeout and keep-alive/step delays.
	// Defaults to common.NewTimings().
	Timings *common.Timings
}

func (c *Config) applyDefaults() {
	switch c.AddressingScheme {
	case 1, 2, 4:
	default:
		c.AddressingScheme = 4
	}
	if c.Timings == nil {
		c.Timings = common.NewTimings()
	}
	if c.Logger == nil {
		if c.Verbose {
			c.Logger = common.NewStdLogger(nil, "gmdiag: ")
		} else {
			c.Logger = common.NopLogger()
		}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envAddressingScheme); v != "" {
		c.AddressingScheme = cast.ToInt(v)
	}
	if v := os.Getenv(envReplyTimeout); v != "" {
		if d := cast.ToDuration(v); d > 0 {
			if c.Timings == nil {
				c.Timings = common.NewTimings()
			}
			c.Timings.SetReplyTimeout(d)
		}
	}
	if v := os.Getenv(envVerbose); v != "" {
		c.Verbose = cast.ToBool(v)
	}
}

// fileConfig is the on-disk YAML shape; durations are strings such as
// "750ms" or "2s".
type fileConfig struct {
	AddressingScheme   int    `yaml:"addressing_scheme"`
	Verbose            bool   `yaml:"verbose"`
	ReplyTimeout       string `yaml:"reply_timeout"`
	InterStepDelay     string `yaml:"inter_step_delay"`
	KeepAliveWakeDelay string `yaml:"keep_alive_wake_delay"`
	KeepAlivePeriod    string `yaml:"keep_alive_period"`
}

// LoadConfig reads a YAML configuration file and applies environment
// overrides on top. Unset fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("gmlan: read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("gmlan: parse config: %w", err)
	}

	cfg := Config{
		AddressingScheme: fc.AddressingScheme,
		Verbose:          fc.Verbose,
		Timings:          common.NewTimings(),
	}
	if fc.ReplyTimeout != "" {
		if d := cast.ToDuration(fc.ReplyTimeout); d > 0 {
			cfg.Timings.SetReplyTimeout(d)
		}
	}
	if fc.InterStepDelay != "" {
		if d := cast.ToDuration(fc.InterStepDelay); d > 0 {
			cfg.Timings.SetInterStepDelay(d)
		}
	}
	if fc.KeepAliveWakeDelay != "" {
		if d := cast.ToDuration(fc.KeepAliveWakeDelay); d > 0 {
			cfg.Timings.SetKeepAliveWakeDelay(d)
		}
	}
	if fc.KeepAlivePeriod != "" {
		if d := cast.ToDuration(fc.KeepAlivePeriod); d > 0 {
			cfg.Timings.SetKeepAlivePeriod(d)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}
