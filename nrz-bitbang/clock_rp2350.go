//go:build rp2350

package bitbang

// Cortex-M33 debug registers.
const (
	regDEMCR     = 0xE000EDFC
	regDWTCtrl   = 0xE0001000
	regDWTCyccnt = 0xE0001004

	demcrTRCENA      = 1 << 24
	dwtCtrlCYCCNTENA = 1 << 0
)

var dwtCyccnt = register(regDWTCyccnt)

// CycleCounter reads the DWT cycle counter, which increments once per CPU
// clock once enabled.
type CycleCounter struct{}

// NewCycleCounter enables trace and the DWT cycle counter and returns it.
// Enabling an already running counter does not reset it.
func NewCycleCounter() CycleCounter {
	register(regDEMCR).SetBits(demcrTRCENA)
	register(regDWTCtrl).SetBits(dwtCtrlCYCCNTENA)
	return CycleCounter{}
}

// Now returns the current CYCCNT value.
//
//go:inline
func (CycleCounter) Now() uint32 {
	return dwtCyccnt.Get()
}
