// Command nrzscope runs one transmission of the bit-bang loop against a
// simulated cycle counter and GPIO port, then prints every pulse and any
// timing violations. It is the bench check for protocol timings and CPU
// clocks before touching hardware.
//
//	nrzscope -proto ws2812x -cpu 160000000 -data "b2 ff 00"
//	nrzscope -script scenarios.txt
//
// A script holds one scenario per line, written as the same flags.
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/google/shlex"

	bitbang "github.com/tinygo-org/bitbang/nrz-bitbang"
	"github.com/tinygo-org/bitbang/nrz-bitbang/neolib"
	"github.com/tinygo-org/bitbang/nrz-bitbang/sim"
)

const simBit = 4

var errViolations = errors.New("timing violations found")

type scenario struct {
	proto     string
	cpu       uint
	data      string
	step      uint
	inverted  bool
	stallAt   uint
	stall     uint
	tolerance uint
	vcd       string
}

func scenarioFlags(fs *flag.FlagSet) *scenario {
	s := &scenario{}
	fs.StringVar(&s.proto, "proto", neolib.WS2812x.Name, "LED protocol")
	fs.UintVar(&s.cpu, "cpu", 160_000_000, "cycle counter frequency in Hz")
	fs.StringVar(&s.data, "data", "b2", "bytes to send, in hex; spaces allowed")
	fs.UintVar(&s.step, "step", 1, "cycles consumed by one counter read")
	fs.BoolVar(&s.inverted, "inverted", false, "invert the line on top of the protocol polarity")
	fs.UintVar(&s.stallAt, "stall-at", 0, "cycle at which to inject a stall")
	fs.UintVar(&s.stall, "stall", 0, "length of the injected stall in cycles, 0 for none")
	fs.UintVar(&s.tolerance, "tolerance", 0, "allowed overshoot in cycles, defaults to step-1")
	fs.StringVar(&s.vcd, "vcd", "", "write the waveform to this VCD file")
	return s
}

func parseData(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", "_", "", ":", "").Replace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bad -data: %w", err)
	}
	return b, nil
}

// run simulates the scenario, writes the report to w and returns the
// violations found.
func (s *scenario) run(w io.Writer) ([]sim.Violation, error) {
	proto, err := neolib.LookupProtocol(s.proto)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s.proto, err)
	}
	t, err := proto.Timing(uint32(s.cpu))
	if err != nil {
		return nil, fmt.Errorf("%s @%dHz: %w", proto.Name, s.cpu, err)
	}
	pixels, err := parseData(s.data)
	if err != nil {
		return nil, err
	}
	tolerance := uint32(s.tolerance)
	if tolerance == 0 && s.step > 1 {
		tolerance = uint32(s.step) - 1
	}
	inverted := proto.Inverted != s.inverted

	clock := sim.NewClock(0, uint32(s.step))
	if s.stall > 0 {
		clock.StallAt(uint32(s.stallAt), uint32(s.stall))
	}
	var idle uint32
	if inverted {
		idle = 1 << simBit
	}
	port := sim.NewPort(clock, idle)
	line := bitbang.NewPortLine(port.SetReg(), port.ClearReg(), simBit, inverted)
	glog.V(1).Infof("sending %d bytes, %s timing %+v, inverted=%v", len(pixels), proto.Name, t, inverted)
	bitbang.Send(pixels, line, clock, t)
	glog.V(1).Infof("%d counter reads, %d register writes", clock.Reads(), len(port.Trace))

	pulses := sim.Pulses(port.Trace, simBit, inverted)
	violations := sim.Check(pixels, pulses, t, tolerance)
	report(w, proto, uint32(s.cpu), t, pixels, pulses, violations)

	if s.vcd != "" {
		f, err := os.Create(s.vcd)
		if err != nil {
			return violations, err
		}
		defer f.Close()
		if err := sim.WriteVCD(f, port.Trace, simBit, uint32(s.cpu)); err != nil {
			return violations, fmt.Errorf("%s: %w", s.vcd, err)
		}
		glog.Infof("waveform written to %s", s.vcd)
	}
	return violations, nil
}

func report(w io.Writer, proto neolib.Protocol, cpu uint32, t bitbang.Timing, pixels []byte, pulses []sim.Pulse, violations []sim.Violation) {
	t0h, t1h, period := t.Nanoseconds(cpu)
	fmt.Fprintf(w, "%s @ %d Hz: t0h %d (%v) t1h %d (%v) period %d (%v) cycles\n",
		proto.Name, cpu, t.ShortHigh, t0h, t.LongHigh, t1h, t.Period, period)
	fmt.Fprintf(w, "%5s %3s %10s %6s %6s\n", "pulse", "bit", "start", "width", "gap")
	for i, p := range pulses {
		bit := "?"
		if i/8 < len(pixels) {
			bit = "0"
			if pixels[i/8]&(0x80>>(i%8)) != 0 {
				bit = "1"
			}
		}
		gap := "-"
		if i > 0 {
			gap = fmt.Sprint(p.Start - pulses[i-1].Start)
		}
		fmt.Fprintf(w, "%5d %3s %10d %6d %6s\n", i, bit, p.Start, p.Width, gap)
	}
	decoded := sim.Decode(pulses, t)
	fmt.Fprintf(w, "sent %x, decoded %x\n", pixels, decoded)
	for _, v := range violations {
		fmt.Fprintf(w, "violation: %v\n", v)
	}
	if len(violations) == 0 {
		fmt.Fprintln(w, "ok")
	}
}

// runScript runs every scenario of a script and returns how many of them
// had violations.
func runScript(r io.Reader, w io.Writer) (failed int, err error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			return failed, fmt.Errorf("line %d: %w", lineNo, err)
		}
		fs := flag.NewFlagSet(fmt.Sprintf("line %d", lineNo), flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		s := scenarioFlags(fs)
		if err := fs.Parse(args); err != nil {
			return failed, fmt.Errorf("line %d: %w", lineNo, err)
		}
		fmt.Fprintf(w, "== %s\n", line)
		violations, err := s.run(w)
		if err != nil {
			return failed, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(violations) > 0 {
			failed++
		}
	}
	return failed, sc.Err()
}

func main() {
	s := scenarioFlags(flag.CommandLine)
	script := flag.String("script", "", "run the scenarios listed in this file")
	flag.Parse()
	defer glog.Flush()

	if err := realMain(s, *script); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}

func realMain(s *scenario, script string) error {
	if script == "" {
		violations, err := s.run(os.Stdout)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			return errViolations
		}
		return nil
	}

	f, err := os.Open(script)
	if err != nil {
		return err
	}
	defer f.Close()
	failed, err := runScript(f, os.Stdout)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d scenarios: %w", failed, errViolations)
	}
	return nil
}
