//go:build esp8266

package bitbang

import "machine"

const (
	regGPIOOutW1TS = 0x60000304
	regGPIOOutW1TC = 0x60000308

	// GPIO16 is not part of the GPIO block but bit 0 of an RTC register
	// without set/clear aliases.
	regRTCGPIOOut = 0x60000768
	rtcPin        = 16
)

func (p *Pin) resolve(pin machine.Pin) {
	if pin == rtcPin {
		p.bit = 0
		p.latch = register(regRTCGPIOOut)
		return
	}
	p.bit = uint8(pin)
	p.port = NewPortLine(register(regGPIOOutW1TS), register(regGPIOOutW1TC), p.bit, p.inverted)
}
