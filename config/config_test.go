package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/termsense/timeout"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := `
[resolver]
policy = "smooth"
initial_delay = "40ms"
min_delay = "4ms"
decay_factor = 0.6
max_stage = 6

[requests]
stale_after = "2s"
malformed_to_oldest = false

[log]
level = "debug"
format = "json"
`
	cfg := Default()
	if err := Parse([]byte(doc), &cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Resolver.Policy != PolicySmooth || cfg.Resolver.MaxStage != 6 {
		t.Errorf("resolver = %+v", cfg.Resolver)
	}
	if cfg.Resolver.InitialDelay.Duration != 40*time.Millisecond {
		t.Errorf("initial_delay = %v", cfg.Resolver.InitialDelay)
	}
	if cfg.Requests.StaleAfter.Duration != 2*time.Second || cfg.Requests.MalformedToOldest {
		t.Errorf("requests = %+v", cfg.Requests)
	}
	// Untouched section keeps its default
	if cfg.Events.Buffer != 256 {
		t.Errorf("events.buffer = %d, want default 256", cfg.Events.Buffer)
	}
	if cfg.Resolver.BaseDelay.Duration != 10*time.Millisecond {
		t.Errorf("base_delay default lost: %v", cfg.Resolver.BaseDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad duration", "[resolver]\nbase_delay = \"fast\"\n"},
		{"unknown key", "[resolver]\nspeed = 3\n"},
		{"syntax", "[resolver\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Parse([]byte(tt.doc), &cfg); err == nil {
				t.Error("Parse accepted invalid document")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"policy", func(c *Config) { c.Resolver.Policy = "linear" }, "resolver.policy"},
		{"max stage", func(c *Config) { c.Resolver.MaxStage = 0 }, "max_stage"},
		{"decay", func(c *Config) { c.Resolver.Policy = PolicySmooth; c.Resolver.DecayFactor = 1.5 }, "decay_factor"},
		{"stale", func(c *Config) { c.Requests.StaleAfter.Duration = 0 }, "stale_after"},
		{"buffer", func(c *Config) { c.Events.Buffer = 0 }, "events.buffer"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load(missing) = %v", err)
	}
	if cfg.Resolver.MaxStage != Default().Resolver.MaxStage {
		t.Error("missing file did not yield defaults")
	}

	path := filepath.Join(dir, "termsense.toml")
	if err := os.WriteFile(path, []byte("[events]\nbuffer = 32\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Events.Buffer != 32 {
		t.Errorf("events.buffer = %d, want 32", cfg.Events.Buffer)
	}

	if err := os.WriteFile(path, []byte("[events]\nbuffer = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted invalid buffer")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:   "debug",
		EnvBaseDelay:  "25ms",
		EnvMaxStage:   "nope",
		EnvStaleAfter: "3s",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	ApplyEnv(&cfg, lookup)

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
	if cfg.Resolver.BaseDelay.Duration != 25*time.Millisecond {
		t.Errorf("base_delay = %v", cfg.Resolver.BaseDelay)
	}
	if cfg.Resolver.MaxStage != Default().Resolver.MaxStage {
		t.Errorf("unparsable max_stage applied: %d", cfg.Resolver.MaxStage)
	}
	if cfg.Requests.StaleAfter.Duration != 3*time.Second {
		t.Errorf("stale_after = %v", cfg.Requests.StaleAfter)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(Default())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `base_delay = '10ms'`) && !strings.Contains(string(data), `base_delay = "10ms"`) {
		t.Errorf("encoded config missing base_delay:\n%s", data)
	}
	cfg := Config{}
	if err := Parse(data, &cfg); err != nil {
		t.Fatalf("Parse(Encode(Default())): %v", err)
	}
	if cfg != Default() {
		t.Errorf("round trip mismatch:\n%+v\n%+v", cfg, Default())
	}
}

func TestPolicies(t *testing.T) {
	cfg := Default()

	var p timeout.Policy = cfg.Resolver.NewResolverPolicy()
	if _, ok := p.(*timeout.Logarithmic); !ok {
		t.Errorf("default policy = %T, want *timeout.Logarithmic", p)
	}

	cfg.Resolver.Policy = PolicySmooth
	p = cfg.Resolver.NewResolverPolicy()
	if p.Span() != cfg.Resolver.InitialDelay.Duration {
		t.Errorf("smooth span = %v, want %v", p.Span(), cfg.Resolver.InitialDelay)
	}

	sweep := cfg.Requests.NewSweepPolicy()
	if sweep.Span() != cfg.Requests.SweepInitial.Duration {
		t.Errorf("sweep span = %v", sweep.Span())
	}
}
