// Package sim stands in for the hardware a transmission runs on: a stepped
// cycle counter, a GPIO port whose registers record every write, and helpers
// to turn the recorded trace back into pulses, bytes and timing reports.
package sim

// Clock is a deterministic cycle counter. Every call to Now returns the
// current count and then advances it by Step cycles, modelling the cost of
// the read itself.
type Clock struct {
	Step uint32

	now    uint32
	reads  int
	stalls []stall
}

type stall struct {
	at     uint32
	cycles uint32
	fired  bool
}

// NewClock returns a Clock starting at start and advancing step cycles per
// read. A zero step is treated as 1 so busy waits always terminate.
func NewClock(start, step uint32) *Clock {
	if step == 0 {
		step = 1
	}
	return &Clock{Step: step, now: start}
}

// Now implements bitbang.Clock.
func (c *Clock) Now() uint32 {
	now := c.now
	c.reads++
	c.now += c.Step
	for i := range c.stalls {
		s := &c.stalls[i]
		if !s.fired && now-s.at < 1<<31 {
			s.fired = true
			c.now += s.cycles
		}
	}
	return now
}

// Peek returns the value the next Now will return, without advancing.
func (c *Clock) Peek() uint32 { return c.now }

// Reads returns how many times Now was called.
func (c *Clock) Reads() int { return c.reads }

// StallAt makes the clock jump forward by cycles right after the first read
// at or past at, as an interrupt taken at that point would.
func (c *Clock) StallAt(at, cycles uint32) {
	c.stalls = append(c.stalls, stall{at: at, cycles: cycles})
}
