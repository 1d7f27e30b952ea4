package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerStop(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)
	d := timer.Stop()

	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	assert.Equal(t, d, timer.Elapsed())
}

func TestTimerElapsedWhileRunning(t *testing.T) {
	timer := NewTimer()
	time.Sleep(time.Millisecond)
	assert.Positive(t, timer.Elapsed())
}

func TestNamedTimer(t *testing.T) {
	timer := NewNamedTimer("parse")
	timer.Stop()

	assert.Equal(t, "parse", timer.Name())
	assert.Contains(t, timer.String(), "parse: ")
}

func TestUnnamedTimerString(t *testing.T) {
	timer := NewTimer()
	timer.Stop()

	assert.Empty(t, timer.Name())
	assert.NotEmpty(t, timer.String())
}
