// Package bitbang drives one-wire addressable LED strings (WS2812 and
// friends) by toggling a GPIO line from a busy loop timed against a free
// running CPU cycle counter.
//
// Each bit occupies one slot of Timing.Period cycles and is encoded as a high
// pulse of Timing.ShortHigh cycles for a 0 or Timing.LongHigh cycles for a 1.
// Bits leave most significant first, bytes in buffer order.
//
// Send assumes near-exclusive ownership of the CPU for its whole duration.
// Nothing inside it can notice a missed deadline: an interrupt or bus stall
// during a pulse simply makes that pulse longer, which the LEDs decode as
// wrong color data. Callers must mask interrupts and keep other work off the
// core while a transmission runs. Pin.Send does this on hardware targets.
package bitbang

// Clock is a free running cycle counter. Now must be cheap and take a
// consistent number of cycles since it is polled in the tightest loops.
// The counter may wrap; all comparisons are unsigned differences.
type Clock interface {
	Now() uint32
}

// Register is a 32-bit write-only view of a hardware register.
// *volatile.Register32 satisfies it.
type Register interface {
	Set(value uint32)
}

// Line asserts and deasserts a single output. What level "assert" maps to
// depends on the polarity the Line was built with.
type Line interface {
	Assert()
	Deassert()
}

// PortLine drives a pin through a pair of write-1-to-set and
// write-1-to-clear registers, as found on the main GPIO bank of most MCUs.
type PortLine[R Register] struct {
	assert   R
	deassert R
	mask     uint32
}

// NewPortLine returns a PortLine for bit of the bank addressed by set and
// clr. When inverted is true the line idles high and pulses low.
func NewPortLine[R Register](set, clr R, bit uint8, inverted bool) PortLine[R] {
	if inverted {
		set, clr = clr, set
	}
	return PortLine[R]{assert: set, deassert: clr, mask: 1 << (bit & 31)}
}

// Assert starts a pulse.
func (l PortLine[R]) Assert() { l.assert.Set(l.mask) }

// Deassert ends a pulse.
func (l PortLine[R]) Deassert() { l.deassert.Set(l.mask) }

// LatchLine drives a pin that lives in a plain output register with no
// set/clear aliases, such as GPIO16 in the ESP8266 RTC block. Reading that
// register inside the loop is too slow, so both words are computed up front
// from a single read and the loop only ever writes.
type LatchLine[R Register] struct {
	out R
	on  uint32
	off uint32
}

// NewLatchLine returns a LatchLine for bit of out, where current is the
// register value read just before the transmission. Other bits of current
// are written back unchanged on every edge.
func NewLatchLine[R Register](out R, current uint32, bit uint8, inverted bool) LatchLine[R] {
	mask := uint32(1) << (bit & 31)
	lo := current &^ mask
	hi := lo | mask
	if inverted {
		hi, lo = lo, hi
	}
	return LatchLine[R]{out: out, on: hi, off: lo}
}

// Assert starts a pulse.
func (l LatchLine[R]) Assert() { l.out.Set(l.on) }

// Deassert ends a pulse.
func (l LatchLine[R]) Deassert() { l.out.Set(l.off) }

// Send clocks pixels out on line. It returns once the last bit's pulse has
// ended, leaving the line deasserted. An empty buffer sends nothing.
//
// Every slot is anchored to the observed start of the previous slot rather
// than to the end of its pulse, so per-bit overhead never accumulates. The
// first slot starts without waiting.
//
// t is not validated; see Timing.Validate.
func Send[L Line, C Clock](pixels []byte, line L, clock C, t Timing) {
	if len(pixels) == 0 {
		return
	}
	var (
		mask  byte = 0x80
		value      = pixels[0]
		next       = 1
		start uint32
		prev  = clock.Now() - t.Period
	)
	for {
		// Pick the duration while nothing is being timed.
		high := t.HighFor(value&mask != 0)

		for {
			start = clock.Now()
			if start-prev >= t.Period {
				break
			}
		}
		line.Assert()
		for clock.Now()-start < high {
		}
		line.Deassert()
		prev = start

		mask >>= 1
		if mask == 0 {
			if next >= len(pixels) {
				return
			}
			mask = 0x80
			value = pixels[next]
			next++
		}
	}
}
