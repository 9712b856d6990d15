package core

import "time"

// Clock is the injected time source. The service never reads the wall clock
// directly so that live totals and check-in dates are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
