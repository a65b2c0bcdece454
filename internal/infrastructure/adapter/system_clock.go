package adapter

import "time"

// SystemClock implements port.Clock with the real wall clock in UTC.
type SystemClock struct{}

// NewSystemClock creates a new SystemClock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
