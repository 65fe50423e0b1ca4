// Package clock supplies the time source used to resolve "today".
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the subset of clockwork.Clock the services depend on
type Clock interface {
	Now() time.Time
}

// New returns the real wall clock
func New() clockwork.Clock {
	return clockwork.NewRealClock()
}

// NewFake returns a clock frozen at t that tests advance explicitly
func NewFake(t time.Time) *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(t)
}
