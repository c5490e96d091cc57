//go:build rp2350

package bitbang

import "machine"

// SIO GPIO output aliases. GPIO0-31 are in GPIO_OUT, GPIO32-47 (RP2350B
// only) in GPIO_HI_OUT.
const (
	regSIOBase         = 0xD0000000
	regSIOGPIOOutSet   = regSIOBase + 0x018
	regSIOGPIOHiOutSet = regSIOBase + 0x01C
	regSIOGPIOOutClr   = regSIOBase + 0x020
	regSIOGPIOHiOutClr = regSIOBase + 0x024
)

func (p *Pin) resolve(pin machine.Pin) {
	n := uint8(pin)
	set, clr := uintptr(regSIOGPIOOutSet), uintptr(regSIOGPIOOutClr)
	if n >= 32 {
		set, clr = regSIOGPIOHiOutSet, regSIOGPIOHiOutClr
		n -= 32
	}
	p.bit = n
	p.port = NewPortLine(register(set), register(clr), n, p.inverted)
}
