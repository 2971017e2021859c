package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time so services that depend on "today" can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Today truncates the clock's current instant to a date. Cost rollups compare
// against dates, not instants, so a cost scheduled for later today still counts.
func Today(c Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)
