//go:build esp32

package bitbang

import "machine"

// GPIO matrix output registers. GPIO0-31 live in OUT, GPIO32-39 in OUT1.
const (
	regGPIOBase     = 0x3FF44000
	regGPIOOutW1TS  = regGPIOBase + 0x08
	regGPIOOutW1TC  = regGPIOBase + 0x0C
	regGPIOOut1W1TS = regGPIOBase + 0x14
	regGPIOOut1W1TC = regGPIOBase + 0x18
)

func (p *Pin) resolve(pin machine.Pin) {
	n := uint8(pin)
	set, clr := uintptr(regGPIOOutW1TS), uintptr(regGPIOOutW1TC)
	if n >= 32 {
		set, clr = regGPIOOut1W1TS, regGPIOOut1W1TC
		n -= 32
	}
	p.bit = n
	p.port = NewPortLine(register(set), register(clr), n, p.inverted)
}
