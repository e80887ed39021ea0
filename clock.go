package hawk

import "time"

// Clock supplies the current time in milliseconds since the Unix epoch.
// The default implementation reads the OS clock; tests inject a fake so
// timestamp-skew behavior is deterministic.
type Clock interface {
	NowMS() int64
}

// systemClock reads time.Now, the default Clock used when none is supplied.
type systemClock struct{}

func (systemClock) NowMS() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// SystemClock is the default Clock, backed by the OS clock.
var SystemClock Clock = systemClock{}

// OffsetClock wraps a Clock and adds a fixed millisecond offset. A client
// or server whose local clock is known to be skewed can use this to
// compensate without touching the OS clock.
type OffsetClock struct {
	Base   Clock
	Offset int64 // milliseconds, may be negative
}

func (c OffsetClock) NowMS() int64 {
	base := c.Base
	if base == nil {
		base = SystemClock
	}
	return base.NowMS() + c.Offset
}

func nowSec(c Clock) int64 {
	if c == nil {
		c = SystemClock
	}
	return c.NowMS() / 1000
}
