package bitbang

import (
	"errors"
	"math"
	"time"
)

// Timing errors.
var (
	ErrTimingZero     = errors.New("bitbang: zero pulse or period duration")
	ErrTimingOrder    = errors.New("bitbang: pulse not shorter than period")
	ErrTimingOverflow = errors.New("bitbang: too large period or CPU frequency")
)

// Timing holds the bit encoding in CPU cycles.
type Timing struct {
	// ShortHigh is the pulse length of a 0 bit.
	ShortHigh uint32
	// LongHigh is the pulse length of a 1 bit.
	LongHigh uint32
	// Period is the slot length, measured start to start.
	Period uint32
}

// HighFor returns the pulse length for a bit.
func (t Timing) HighFor(bit bool) uint32 {
	if bit {
		return t.LongHigh
	}
	return t.ShortHigh
}

// Validate checks both pulses fit strictly inside the period.
func (t Timing) Validate() error {
	if t.ShortHigh == 0 || t.LongHigh == 0 || t.Period == 0 {
		return ErrTimingZero
	}
	if t.ShortHigh >= t.Period || t.LongHigh >= t.Period {
		return ErrTimingOrder
	}
	return nil
}

// TimingFromNanoseconds converts a protocol's nanosecond timing into cycles
// of a counter running at cpuFreq Hz, rounding to the nearest cycle.
func TimingFromNanoseconds(t0h, t1h, period time.Duration, cpuFreq uint32) (Timing, error) {
	short, err := cyclesFromPeriod(t0h, cpuFreq)
	if err != nil {
		return Timing{}, err
	}
	long, err := cyclesFromPeriod(t1h, cpuFreq)
	if err != nil {
		return Timing{}, err
	}
	slot, err := cyclesFromPeriod(period, cpuFreq)
	if err != nil {
		return Timing{}, err
	}
	t := Timing{ShortHigh: short, LongHigh: long, Period: slot}
	return t, t.Validate()
}

// Nanoseconds converts t back to durations for a counter running at cpuFreq Hz.
func (t Timing) Nanoseconds(cpuFreq uint32) (t0h, t1h, period time.Duration) {
	return cyclesToDuration(t.ShortHigh, cpuFreq),
		cyclesToDuration(t.LongHigh, cpuFreq),
		cyclesToDuration(t.Period, cpuFreq)
}

func cyclesFromPeriod(d time.Duration, cpuFreq uint32) (uint32, error) {
	if d <= 0 || cpuFreq == 0 {
		return 0, ErrTimingZero
	}
	if uint64(d) > (math.MaxUint64-5e8)/uint64(cpuFreq) {
		return 0, ErrTimingOverflow
	}
	//  cycles = period * cpuFreq / 1e9, rounded.
	cycles := (uint64(d)*uint64(cpuFreq) + 5e8) / 1e9
	if cycles > math.MaxUint32/2 {
		// Anything past half the counter range breaks unsigned differences
		// across a wrap.
		return 0, ErrTimingOverflow
	}
	if cycles == 0 {
		return 0, ErrTimingZero
	}
	return uint32(cycles), nil
}

func cyclesToDuration(cycles, cpuFreq uint32) time.Duration {
	if cpuFreq == 0 {
		return 0
	}
	return time.Duration(uint64(cycles) * 1e9 / uint64(cpuFreq))
}
