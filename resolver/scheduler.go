package resolver

import "time"

// Timer is a cancellable scheduled call
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// wallScheduler schedules on the runtime timer heap
type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallScheduler returns the default time.AfterFunc based scheduler
func WallScheduler() Scheduler {
	return wallScheduler{}
}
