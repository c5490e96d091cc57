package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinygo-org/bitbang/nrz-bitbang/sim"
)

func newScenario(t *testing.T, args ...string) *scenario {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	s := scenarioFlags(fs)
	require.NoError(t, fs.Parse(args))
	return s
}

func TestParseData(t *testing.T) {
	b, err := parseData("0xB2 ff_00:10")
	require.NoError(t, err)
	require.Equal(t, []byte{0xB2, 0xFF, 0x00, 0x10}, b)

	_, err = parseData("abc")
	require.Error(t, err)
}

func TestRunExample(t *testing.T) {
	s := newScenario(t, "-proto", "ws2812x", "-cpu", "160000000", "-data", "b2")
	var out bytes.Buffer
	violations, err := s.run(&out)
	require.NoError(t, err)
	require.Empty(t, violations)

	report := out.String()
	require.Contains(t, report, "ws2812x @ 160000000 Hz: t0h 64 (400ns) t1h 136 (850ns) period 200 (1.25µs) cycles")
	require.Contains(t, report, "sent b2, decoded b2")
	require.True(t, strings.HasSuffix(report, "ok\n"))
	// Header, timing line, eight pulses, decode line, ok.
	require.Equal(t, 12, strings.Count(report, "\n"))
}

func TestRunInvertedProtocol(t *testing.T) {
	s := newScenario(t, "-proto", "tm1814", "-cpu", "80000000", "-data", "00ff5a", "-step", "3")
	violations, err := s.run(io.Discard)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func TestRunStall(t *testing.T) {
	s := newScenario(t, "-data", "ffff", "-stall-at", "500", "-stall", "400")
	violations, err := s.run(io.Discard)
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	for _, v := range violations {
		require.NotEqual(t, sim.ViolationCount, v.Kind)
	}
}

func TestRunErrors(t *testing.T) {
	_, err := newScenario(t, "-proto", "nope").run(io.Discard)
	require.Error(t, err)

	_, err = newScenario(t, "-cpu", "0").run(io.Discard)
	require.Error(t, err)

	_, err = newScenario(t, "-data", "zz").run(io.Discard)
	require.Error(t, err)
}

func TestRunVCD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vcd")
	s := newScenario(t, "-data", "80", "-vcd", path)
	_, err := s.run(io.Discard)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "$var wire 1 ! gpio4 $end")
	require.Equal(t, 16, strings.Count(string(b), "!\n"))
}

func TestRunScript(t *testing.T) {
	script := `
# timing sweep
-proto ws2812x -cpu 80000000 -data "de ad be ef"
-proto sk6812 -cpu 240000000 -data 00 -step 4

-proto ws2811 -data ff -stall-at 100 -stall 1000
`
	var out bytes.Buffer
	failed, err := runScript(strings.NewReader(script), &out)
	require.NoError(t, err)
	require.Equal(t, 1, failed)
	require.Equal(t, 3, strings.Count(out.String(), "== "))

	_, err = runScript(strings.NewReader(`-proto "unterminated`), io.Discard)
	require.Error(t, err)

	_, err = runScript(strings.NewReader(`-bogus`), io.Discard)
	require.Error(t, err)
}
