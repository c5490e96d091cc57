package sim

import (
	"fmt"

	bitbang "github.com/tinygo-org/bitbang/nrz-bitbang"
)

// Pulse is one asserted stretch of a line.
type Pulse struct {
	Start uint32
	Width uint32
}

// Levels returns the level of line bit after every write in trace.
func Levels(trace []Edge, bit uint8) []bool {
	levels := make([]bool, len(trace))
	for i, e := range trace {
		levels[i] = e.Out&(1<<(bit&31)) != 0
	}
	return levels
}

// Pulses extracts the asserted pulses of line bit. The line is assumed idle
// before the first write; asserted means high, or low when inverted is set.
// A pulse still open at the end of the trace is dropped.
func Pulses(trace []Edge, bit uint8, inverted bool) []Pulse {
	var (
		pulses []Pulse
		active bool
		start  uint32
	)
	for _, e := range trace {
		asserted := (e.Out&(1<<(bit&31)) != 0) != inverted
		if asserted == active {
			continue
		}
		active = !active
		if active {
			start = e.At
		} else {
			pulses = append(pulses, Pulse{Start: start, Width: e.At - start})
		}
	}
	return pulses
}

// Decode turns pulses back into bytes, most significant bit first. A pulse
// at least halfway between the short and long widths reads as a 1. Trailing
// bits that do not fill a byte are discarded.
func Decode(pulses []Pulse, t bitbang.Timing) []byte {
	threshold := t.ShortHigh + (t.LongHigh-t.ShortHigh)/2
	if t.LongHigh < t.ShortHigh {
		threshold = t.LongHigh + (t.ShortHigh-t.LongHigh)/2
	}
	out := make([]byte, 0, len(pulses)/8)
	var b byte
	for i, p := range pulses {
		b <<= 1
		long := p.Width >= threshold
		if t.LongHigh < t.ShortHigh {
			long = !long
		}
		if long {
			b |= 1
		}
		if i%8 == 7 {
			out = append(out, b)
			b = 0
		}
	}
	return out
}

// ViolationKind classifies a timing check failure.
type ViolationKind uint8

const (
	// ViolationCount means the number of pulses does not match the data.
	ViolationCount ViolationKind = iota
	// ViolationWidth means a pulse is longer or shorter than its bit value needs.
	ViolationWidth
	// ViolationSpacing means two consecutive pulses do not start one period apart.
	ViolationSpacing
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationCount:
		return "count"
	case ViolationWidth:
		return "width"
	case ViolationSpacing:
		return "spacing"
	}
	return "unknown"
}

// Violation is one out-of-tolerance measurement.
type Violation struct {
	Kind  ViolationKind
	Index int // pulse index, or -1 for ViolationCount
	Got   uint32
	Want  uint32
}

func (v Violation) String() string {
	if v.Kind == ViolationCount {
		return fmt.Sprintf("count: got %d pulses, want %d", v.Got, v.Want)
	}
	return fmt.Sprintf("%s: pulse %d got %d cycles, want %d", v.Kind, v.Index, v.Got, v.Want)
}

// Check compares pulses against what sending pixels with t should produce.
// A width or start-to-start spacing may exceed the nominal value by up to
// tolerance cycles; it may never be shorter.
func Check(pixels []byte, pulses []Pulse, t bitbang.Timing, tolerance uint32) []Violation {
	var violations []Violation
	if want := len(pixels) * 8; len(pulses) != want {
		violations = append(violations, Violation{Kind: ViolationCount, Index: -1, Got: uint32(len(pulses)), Want: uint32(want)})
	}
	for i, p := range pulses {
		if i/8 >= len(pixels) {
			break
		}
		want := t.HighFor(pixels[i/8]&(0x80>>(i%8)) != 0)
		if p.Width < want || p.Width-want > tolerance {
			violations = append(violations, Violation{Kind: ViolationWidth, Index: i, Got: p.Width, Want: want})
		}
		if i == 0 {
			continue
		}
		gap := p.Start - pulses[i-1].Start
		if gap < t.Period || gap-t.Period > tolerance {
			violations = append(violations, Violation{Kind: ViolationSpacing, Index: i, Got: gap, Want: t.Period})
		}
	}
	return violations
}
