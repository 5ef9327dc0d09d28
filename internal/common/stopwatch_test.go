package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopwatch(t *testing.T) {

	stopwatch := NewStopwatch(30 * time.Millisecond)

	// A stopwatch that was never started counts as stopped
	stopped, _ := stopwatch.Stopped()
	assert.True(t, stopped)

	stopwatch.Start()
	stopped, _ = stopwatch.Stopped()
	assert.False(t, stopped)

	time.Sleep(40 * time.Millisecond)
	stopped, over := stopwatch.Stopped()
	assert.True(t, stopped)
	assert.GreaterOrEqual(t, over, time.Duration(0))
}
