package clock

import "time"

// Clock is the source of room and guest timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC, so stored timestamps compare
// equal after a round trip through Redis or MongoDB
type SystemClock struct{}

// New returns the system clock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
