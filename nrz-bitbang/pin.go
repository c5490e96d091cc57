//go:build esp32 || esp8266 || rp2350

package bitbang

import (
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"
)

// Pin transmits on a single GPIO. The bank and polarity are resolved once in
// NewPin so Send never branches per bit. The pin must already be configured
// as an output; Pin does not touch pin muxing.
//
// Pin is not safe for concurrent use. Two transmissions on the same pin, or
// on the same core, must be serialized by the caller.
type Pin struct {
	port     PortLine[*volatile.Register32]
	latch    *volatile.Register32 // set for pins living in a latch-only register
	bit      uint8
	inverted bool
	clock    CycleCounter
}

// NewPin returns a transmitter for pin. When inverted is true the line idles
// high and each bit is a low pulse, for strings driven through an inverting
// level shifter or LEDs such as the TM1814.
func NewPin(pin machine.Pin, inverted bool) *Pin {
	p := &Pin{inverted: inverted, clock: NewCycleCounter()}
	p.resolve(pin)
	return p
}

// Send masks interrupts and clocks pixels out with timing t, in CPU cycles.
// It blocks for roughly len(pixels)*8*t.Period cycles.
func (p *Pin) Send(pixels []byte, t Timing) {
	state := interrupt.Disable()
	if p.latch != nil {
		// The only read of the output register, made before timing starts.
		line := NewLatchLine(p.latch, p.latch.Get(), p.bit, p.inverted)
		Send(pixels, line, p.clock, t)
	} else {
		Send(pixels, p.port, p.clock, t)
	}
	interrupt.Restore(state)
}

//go:inline
func register(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}
