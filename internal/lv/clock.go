package lv

import "sync/atomic"

// Clock is the renderer logical clock, in milliseconds since start. It is 64 bits wide and
// does not wrap around during a process lifetime.
type Clock struct {
	// Accessed atomically; must stay 64-bit aligned (first word of its struct)
	ms uint64
}

// Inc advances the clock. Safe to call from a timer goroutine.
func (c *Clock) Inc(ms uint32) {
	atomic.AddUint64(&c.ms, uint64(ms))
}

func (c *Clock) Now() uint64 {
	return atomic.LoadUint64(&c.ms)
}

// Elapsed returns the milliseconds since prev.
func (c *Clock) Elapsed(prev uint64) uint64 {
	return c.Now() - prev
}
