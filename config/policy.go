package config

import (
	"github.com/lixenwraith/termsense/timeout"
)

// NewResolverPolicy builds the configured resolver timeout policy
func (c ResolverConfig) NewResolverPolicy() timeout.Policy {
	if c.Policy == PolicySmooth {
		return timeout.NewSmoothDecay(c.InitialDelay.Duration, c.MinDelay.Duration, c.DecayFactor)
	}
	return timeout.NewLogarithmic(c.BaseDelay.Duration)
}

// NewSweepPolicy builds the stale-request sweep pacing
func (c RequestsConfig) NewSweepPolicy() *timeout.SmoothDecay {
	return timeout.NewSmoothDecay(c.SweepInitial.Duration, c.SweepMin.Duration, c.SweepDecay)
}
