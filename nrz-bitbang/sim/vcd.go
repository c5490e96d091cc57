package sim

import (
	"bufio"
	"io"
	"strconv"
)

// WriteVCD writes line bit of trace as a Value Change Dump with a 1ns
// timescale, so the waveform can be inspected in GTKWave or PulseView.
// Times are relative to the first write; cpuFreq converts cycles to ns.
func WriteVCD(w io.Writer, trace []Edge, bit uint8, cpuFreq uint32) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("$timescale 1ns $end\n")
	bw.WriteString("$scope module bitbang $end\n")
	bw.WriteString("$var wire 1 ! gpio" + strconv.Itoa(int(bit)) + " $end\n")
	bw.WriteString("$upscope $end\n")
	bw.WriteString("$enddefinitions $end\n")
	if len(trace) == 0 || cpuFreq == 0 {
		return bw.Flush()
	}

	origin := trace[0].At
	var last byte
	for i, e := range trace {
		v := byte('0')
		if e.Out&(1<<(bit&31)) != 0 {
			v = '1'
		}
		if i > 0 && v == last {
			continue
		}
		last = v
		ns := uint64(e.At-origin) * 1e9 / uint64(cpuFreq)
		bw.WriteString("#" + strconv.FormatUint(ns, 10) + "\n")
		bw.WriteByte(v)
		bw.WriteString("!\n")
	}
	return bw.Flush()
}
