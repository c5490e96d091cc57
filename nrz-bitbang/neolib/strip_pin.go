//go:build esp32 || esp8266 || rp2350

package neolib

import (
	"machine"

	bitbang "github.com/tinygo-org/bitbang/nrz-bitbang"
)

// NewPinStrip returns a Strip of n pixels bit-banged on pin, timed against
// the CPU clock. The pin must already be configured as an output.
// cfg.CPUFrequency is filled in from the running clock when zero.
func NewPinStrip(pin machine.Pin, n int, cfg Config) (*Strip, error) {
	if cfg.CPUFrequency == 0 {
		cfg.CPUFrequency = machine.CPUFrequency()
	}
	tx := bitbang.NewPin(pin, cfg.Protocol.Inverted != cfg.Inverted)
	return New(tx, n, cfg)
}
