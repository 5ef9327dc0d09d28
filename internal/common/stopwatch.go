package common

import (
	"time"
)

// This stopwatch keeps track of time. You can set a timeout for it,
// make it start counting time, and ask it if the timeout has been reached
type Stopwatch struct {
	Timeout   time.Duration
	startTime time.Time
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{Timeout: timeout}
}

func (s *Stopwatch) Start() {
	s.startTime = time.Now()
}

// Stopped reports whether the timeout has been reached, together with
// the time elapsed beyond it.
// Note that if the duration is negative, the timeout still
// has not been reached
func (s *Stopwatch) Stopped() (bool, time.Duration) {
	over := time.Since(s.startTime.Add(s.Timeout))
	return over >= 0, over
}
