// Package neolib builds LED strip drivers on top of the bitbang transmitter:
// protocol timings, color orders and a frame buffer that can be drawn on
// like any other TinyGo display.
package neolib

import (
	"errors"
	"strings"
	"time"

	bitbang "github.com/tinygo-org/bitbang/nrz-bitbang"
)

var (
	ErrUnknownProtocol = errors.New("neolib: unknown protocol")
	ErrUnknownOrder    = errors.New("neolib: unknown color order")
	ErrStripLength     = errors.New("neolib: invalid strip length")
)

// Protocol describes one chip family's mark/space encoding.
type Protocol struct {
	Name string
	// T0H and T1H are the high times of a 0 and a 1 bit.
	T0H, T1H time.Duration
	// Period is the length of one bit slot.
	Period time.Duration
	// Reset is the minimum idle time after a frame before the chips latch
	// it, and therefore the minimum gap between two frames.
	Reset time.Duration
	// Inverted chips idle high and read low pulses.
	Inverted bool
}

// Timing converts the protocol to cycles of a counter running at cpuFreq Hz.
func (p Protocol) Timing(cpuFreq uint32) (bitbang.Timing, error) {
	return bitbang.TimingFromNanoseconds(p.T0H, p.T1H, p.Period, cpuFreq)
}

// Well known protocols. Datasheet values; most chips tolerate ±150ns.
var (
	WS2811 = Protocol{Name: "ws2811", T0H: 300, T1H: 950, Period: 1250, Reset: 300 * time.Microsecond}
	// WS2812x covers WS2812, WS2812B and WS2813 and other newer clones with
	// the long reset.
	WS2812x = Protocol{Name: "ws2812x", T0H: 400, T1H: 850, Period: 1250, Reset: 300 * time.Microsecond}
	SK6812  = Protocol{Name: "sk6812", T0H: 400, T1H: 850, Period: 1250, Reset: 80 * time.Microsecond}
	TM1814  = Protocol{Name: "tm1814", T0H: 360, T1H: 720, Period: 1250, Reset: 200 * time.Microsecond, Inverted: true}
	TM1829  = Protocol{Name: "tm1829", T0H: 300, T1H: 800, Period: 1250, Reset: 200 * time.Microsecond, Inverted: true}
	APA106  = Protocol{Name: "apa106", T0H: 350, T1H: 1360, Period: 1710, Reset: 50 * time.Microsecond}
	TX1812  = Protocol{Name: "tx1812", T0H: 300, T1H: 600, Period: 1000, Reset: 80 * time.Microsecond}

	Generic800Kbps = Protocol{Name: "800kbps", T0H: 400, T1H: 850, Period: 1250, Reset: 50 * time.Microsecond}
	Generic400Kbps = Protocol{Name: "400kbps", T0H: 800, T1H: 1600, Period: 2500, Reset: 50 * time.Microsecond}
)

var protocols = []Protocol{WS2811, WS2812x, SK6812, TM1814, TM1829, APA106, TX1812, Generic800Kbps, Generic400Kbps}

// Protocols returns all built in protocols.
func Protocols() []Protocol {
	return append([]Protocol(nil), protocols...)
}

// LookupProtocol finds a built in protocol by name, ignoring case.
func LookupProtocol(name string) (Protocol, error) {
	for _, p := range protocols {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Protocol{}, ErrUnknownProtocol
}
