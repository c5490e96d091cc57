package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	bitbang "github.com/tinygo-org/bitbang/nrz-bitbang"
)

var timing = bitbang.Timing{ShortHigh: 20, LongHigh: 52, Period: 80}

func TestClock(t *testing.T) {
	c := NewClock(10, 0)
	require.Equal(t, uint32(1), c.Step)
	require.Equal(t, uint32(10), c.Now())
	require.Equal(t, uint32(11), c.Now())
	require.Equal(t, uint32(12), c.Peek())
	require.Equal(t, 2, c.Reads())

	c = NewClock(0, 5)
	c.StallAt(7, 100)
	require.Equal(t, uint32(0), c.Now())
	require.Equal(t, uint32(5), c.Now())
	require.Equal(t, uint32(10), c.Now()) // first read past 7 triggers the stall
	require.Equal(t, uint32(115), c.Now())
	require.Equal(t, uint32(120), c.Now())
}

func TestClockWrap(t *testing.T) {
	c := NewClock(0xFFFFFFFE, 1)
	c.StallAt(0xFFFFFFFF, 10)
	require.Equal(t, uint32(0xFFFFFFFE), c.Now())
	require.Equal(t, uint32(0xFFFFFFFF), c.Now())
	require.Equal(t, uint32(10), c.Now())
}

func TestPortRegisters(t *testing.T) {
	c := NewClock(0, 1)
	p := NewPort(c, 0xF0)
	p.SetReg().Set(0x01)
	c.Now()
	p.ClearReg().Set(0x10)
	out := p.OutReg()
	out.Set(0xAB)
	require.Equal(t, uint32(0xAB), out.Get())
	require.Equal(t, 1, out.Writes)
	require.Equal(t, []Edge{{0, 0xF1}, {1, 0xE1}, {1, 0xAB}}, p.Trace)
	require.True(t, p.Level(0))
	require.False(t, p.Level(2))
}

func TestPulses(t *testing.T) {
	// Two pulses on line 2, a write to line 0 only, then a pulse left open.
	trace := []Edge{
		{10, 0x4}, {30, 0x0},
		{90, 0x4}, {142, 0x0},
		{150, 0x1},
		{170, 0x5},
	}
	require.Equal(t, []Pulse{{10, 20}, {90, 52}}, Pulses(trace, 2, false))
	require.Equal(t, []bool{true, false, true, false, false, true}, Levels(trace, 2))

	inverted := []Edge{{10, 0x0}, {30, 0x4}, {90, 0x0}, {110, 0x4}}
	require.Equal(t, []Pulse{{10, 20}, {90, 20}}, Pulses(inverted, 2, true))
}

func TestDecode(t *testing.T) {
	var pulses []Pulse
	for i, w := range []uint32{52, 20, 52, 52, 20, 20, 52, 20, 52, 52} {
		pulses = append(pulses, Pulse{Start: uint32(i) * 80, Width: w})
	}
	require.Equal(t, []byte{0b10110010}, Decode(pulses, timing))

	swapped := bitbang.Timing{ShortHigh: 52, LongHigh: 20, Period: 80}
	require.Equal(t, []byte{0b01001101}, Decode(pulses, swapped))
}

func TestCheck(t *testing.T) {
	pixels := []byte{0b10000000}
	pulses := []Pulse{
		{0, 52},
		{80, 21},  // one cycle long
		{162, 20}, // late by two
		{240, 19}, // too short
		{320, 20}, {400, 20}, {480, 20}, {560, 20},
	}
	v := Check(pixels, pulses, timing, 1)
	require.Equal(t, []Violation{
		{Kind: ViolationSpacing, Index: 2, Got: 82, Want: 80},
		{Kind: ViolationWidth, Index: 3, Got: 19, Want: 20},
		{Kind: ViolationSpacing, Index: 3, Got: 78, Want: 80},
	}, v)
	require.Equal(t, "width: pulse 3 got 19 cycles, want 20", v[1].String())

	v = Check([]byte{0, 0}, pulses, timing, 10)
	require.Len(t, v, 4)
	require.Equal(t, ViolationCount, v[0].Kind)
	require.Equal(t, Violation{Kind: ViolationWidth, Index: 0, Got: 52, Want: 20}, v[1])
	require.Equal(t, "count: got 8 pulses, want 16", v[0].String())
}

func TestSendAgainstPort(t *testing.T) {
	c := NewClock(0, 2)
	p := NewPort(c, 0)
	line := bitbang.NewPortLine(p.SetReg(), p.ClearReg(), 7, false)
	pixels := []byte{0x00, 0xFF, 0x5A}
	bitbang.Send(pixels, line, c, timing)

	pulses := Pulses(p.Trace, 7, false)
	require.Empty(t, Check(pixels, pulses, timing, 1))
	require.Equal(t, pixels, Decode(pulses, timing))
}

func TestWriteVCD(t *testing.T) {
	trace := []Edge{{100, 0x2}, {116, 0x0}, {116, 0x0}, {200, 0x2}}
	var buf bytes.Buffer
	require.NoError(t, WriteVCD(&buf, trace, 1, 160_000_000))
	want := "$timescale 1ns $end\n" +
		"$scope module bitbang $end\n" +
		"$var wire 1 ! gpio1 $end\n" +
		"$upscope $end\n" +
		"$enddefinitions $end\n" +
		"#0\n1!\n" +
		"#100\n0!\n" +
		"#625\n1!\n"
	require.Equal(t, want, buf.String())
}
