package common

import "time"

// TimedExecutor runs a task at most once per period. Call Execute as
// often as convenient; the task only fires when a full period has
// lapsed since it last ran
type TimedExecutor struct {
	stopwatch Stopwatch
	task      func()
}

func NewTimedExecutor(period time.Duration, task func()) TimedExecutor {
	return TimedExecutor{NewStopwatch(period), task}
}

// Execute fires the task if the period has lapsed, else does nothing.
// A fresh executor fires on the first call
func (executor *TimedExecutor) Execute() {
	if stopped, _ := executor.stopwatch.Stopped(); stopped {
		executor.stopwatch.Start()
		executor.task()
	}
}
