//go:build esp32 || esp8266

package bitbang

import "device"

// CycleCounter reads the Xtensa CCOUNT special register, which increments
// once per CPU clock.
type CycleCounter struct{}

// NewCycleCounter returns the CPU cycle counter. CCOUNT is always running
// so there is nothing to enable.
func NewCycleCounter() CycleCounter { return CycleCounter{} }

// Now returns the current CCOUNT value.
//
//go:inline
func (CycleCounter) Now() uint32 {
	return uint32(device.AsmFull("rsr {}, ccount", nil))
}
