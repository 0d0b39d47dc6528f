package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Resolver policy names
const (
	PolicyLogarithmic = "logarithmic"
	PolicySmooth      = "smooth"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Duration decodes TOML strings such as "20ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full runtime configuration
type Config struct {
	Resolver ResolverConfig `toml:"resolver"`
	Requests RequestsConfig `toml:"requests"`
	Events   EventsConfig   `toml:"events"`
	Log      LogConfig      `toml:"log"`
}

// ResolverConfig paces the wait for ambiguous escape sequences
type ResolverConfig struct {
	Policy       string   `toml:"policy"`
	BaseDelay    Duration `toml:"base_delay"`    // Logarithmic base
	InitialDelay Duration `toml:"initial_delay"` // Smooth decay start
	MinDelay     Duration `toml:"min_delay"`     // Smooth decay floor
	DecayFactor  float64  `toml:"decay_factor"`
	MaxStage     int      `toml:"max_stage"` // Waits before giving up
}

// RequestsConfig controls outstanding query bookkeeping
type RequestsConfig struct {
	StaleAfter        Duration `toml:"stale_after"`
	SweepInitial      Duration `toml:"sweep_initial"`
	SweepMin          Duration `toml:"sweep_min"`
	SweepDecay        float64  `toml:"sweep_decay"`
	MalformedToOldest bool     `toml:"malformed_to_oldest"`
}

// EventsConfig sizes the decoded event stream
type EventsConfig struct {
	Buffer int `toml:"buffer"`
}

// LogConfig selects log destination and verbosity
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"` // Empty logs to stderr; "off" disables
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Resolver: ResolverConfig{
			Policy:       PolicyLogarithmic,
			BaseDelay:    Duration{10 * time.Millisecond},
			InitialDelay: Duration{50 * time.Millisecond},
			MinDelay:     Duration{5 * time.Millisecond},
			DecayFactor:  0.5,
			MaxStage:     4,
		},
		Requests: RequestsConfig{
			StaleAfter:        Duration{time.Second},
			SweepInitial:      Duration{500 * time.Millisecond},
			SweepMin:          Duration{100 * time.Millisecond},
			SweepDecay:        0.75,
			MalformedToOldest: true,
		},
		Events: EventsConfig{
			Buffer: 256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatText,
			File:   "off",
		},
	}
}

// Load reads path over the defaults and applies environment overrides
// A missing file is not an error; the defaults are used
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := Parse(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	ApplyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping fields the document omits
// Unknown keys are rejected
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return err
	}
	return nil
}

// Encode renders cfg as TOML
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks value ranges
func (c Config) Validate() error {
	var errs []error

	switch c.Resolver.Policy {
	case PolicyLogarithmic:
		if c.Resolver.BaseDelay.Duration <= 0 {
			errs = append(errs, fmt.Errorf("resolver.base_delay must be positive"))
		}
	case PolicySmooth:
		if c.Resolver.InitialDelay.Duration <= 0 || c.Resolver.MinDelay.Duration <= 0 {
			errs = append(errs, fmt.Errorf("resolver.initial_delay and min_delay must be positive"))
		}
		if c.Resolver.DecayFactor <= 0 || c.Resolver.DecayFactor >= 1 {
			errs = append(errs, fmt.Errorf("resolver.decay_factor must be in (0,1), got %v", c.Resolver.DecayFactor))
		}
	default:
		errs = append(errs, fmt.Errorf("resolver.policy %q: want %q or %q", c.Resolver.Policy, PolicyLogarithmic, PolicySmooth))
	}
	if c.Resolver.MaxStage < 1 {
		errs = append(errs, fmt.Errorf("resolver.max_stage must be at least 1, got %d", c.Resolver.MaxStage))
	}

	if c.Requests.StaleAfter.Duration <= 0 {
		errs = append(errs, fmt.Errorf("requests.stale_after must be positive"))
	}
	if c.Requests.SweepInitial.Duration <= 0 || c.Requests.SweepMin.Duration <= 0 {
		errs = append(errs, fmt.Errorf("requests.sweep_initial and sweep_min must be positive"))
	}
	if c.Requests.SweepDecay <= 0 || c.Requests.SweepDecay > 1 {
		errs = append(errs, fmt.Errorf("requests.sweep_decay must be in (0,1], got %v", c.Requests.SweepDecay))
	}

	if c.Events.Buffer < 1 {
		errs = append(errs, fmt.Errorf("events.buffer must be at least 1, got %d", c.Events.Buffer))
	}

	switch strings.ToLower(c.Log.Format) {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want %q or %q", c.Log.Format, FormatText, FormatJSON))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
