// Package timeout provides staged wait-duration policies.
//
// A Policy maps a wait stage to a duration. Callers read Span for the current
// stage, Advance after each wait that changed nothing, and Reset when a fresh
// wait begins.
package timeout

import (
	"math"
	"time"
)

// Policy is a pure function from wait stage to duration with a stage cursor
type Policy interface {
	// Span returns the duration for the current stage
	Span() time.Duration
	// Stage returns the current stage, starting at zero
	Stage() int
	// Advance moves to the next stage
	Advance()
	// Reset returns to stage zero
	Reset()
}

// Logarithmic grows the wait with the natural log of the stage:
// stage 0 is zero, stage n is Base*ln(n+1)
type Logarithmic struct {
	Base  time.Duration
	stage int
}

// NewLogarithmic creates a logarithmic policy at stage zero
func NewLogarithmic(base time.Duration) *Logarithmic {
	return &Logarithmic{Base: base}
}

func (l *Logarithmic) Span() time.Duration {
	if l.stage == 0 {
		return 0
	}
	return time.Duration(float64(l.Base) * math.Log(float64(l.stage+1)))
}

func (l *Logarithmic) Stage() int { return l.stage }
func (l *Logarithmic) Advance()   { l.stage++ }
func (l *Logarithmic) Reset()     { l.stage = 0 }

// SmoothDecay shrinks the wait geometrically toward a floor:
// max(Min, Initial*Factor^stage). Factor is expected in (0, 1]
type SmoothDecay struct {
	Initial time.Duration
	Min     time.Duration
	Factor  float64
	stage   int
}

// NewSmoothDecay creates a smooth decay policy at stage zero
func NewSmoothDecay(initial, min time.Duration, factor float64) *SmoothDecay {
	return &SmoothDecay{Initial: initial, Min: min, Factor: factor}
}

func (s *SmoothDecay) Span() time.Duration {
	d := time.Duration(float64(s.Initial) * math.Pow(s.Factor, float64(s.stage)))
	if d < s.Min {
		return s.Min
	}
	return d
}

func (s *SmoothDecay) Stage() int { return s.stage }

// Advance stops counting once the floor is reached so the stage cannot overflow
func (s *SmoothDecay) Advance() {
	if s.Span() > s.Min {
		s.stage++
	}
}

func (s *SmoothDecay) Reset() { s.stage = 0 }
