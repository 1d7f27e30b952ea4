// Package common provides small shared utilities.
package common

import (
	"fmt"
	"time"
)

// Timer measures elapsed wall time for one operation.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates and starts an unnamed timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer creates and starts a timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Elapsed returns the elapsed time, running or stopped.
func (t *Timer) Elapsed() time.Duration {
	if t.duration > 0 {
		return t.duration
	}
	return time.Since(t.start)
}

// Name returns the timer name (empty string if unnamed).
func (t *Timer) Name() string { return t.name }

// String returns a formatted representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.Elapsed())
	}
	return t.Elapsed().String()
}
