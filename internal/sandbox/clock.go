package sandbox

import "sync/atomic"

// clock stamps load events with a strictly increasing sequence number.
// Journal readers order by it, never by wall-clock time. Each session
// starts its own clock at zero.
type clock struct {
	seq atomic.Int64
}

// next returns the next sequence number and increments the clock.
func (c *clock) next() int64 {
	return c.seq.Add(1)
}
