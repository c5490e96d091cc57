// Command nrzfeed streams LED animations to a board running the
// serialstrip example. Each animation step is sent as one frame holding
// R, G, B bytes per LED.
//
//	nrzfeed -port /dev/ttyUSB0 -leds 60 -pattern rainbow
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"github.com/tinygo-org/bitbang/nrz-bitbang/frame"
	"github.com/tinygo-org/bitbang/nrz-bitbang/neolib"
)

var errPattern = errors.New("unknown pattern")

// render fills payload with step of the pattern. payload holds three bytes
// per LED.
func render(pattern string, payload []byte, step int, c color.RGBA) error {
	n := len(payload) / 3
	put := func(i int, c color.RGBA) {
		payload[3*i], payload[3*i+1], payload[3*i+2] = c.R, c.G, c.B
	}
	switch pattern {
	case "solid":
		for i := 0; i < n; i++ {
			put(i, c)
		}
	case "rainbow":
		for i := 0; i < n; i++ {
			put(i, neolib.Wheel(uint8(step+i*256/n)))
		}
	case "chase":
		for i := 0; i < n; i++ {
			put(i, color.RGBA{})
		}
		if n > 0 {
			put(step%n, c)
		}
	default:
		return fmt.Errorf("%q: %w", pattern, errPattern)
	}
	return nil
}

// parseColor accepts RRGGBB with an optional leading '#'.
func parseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

type feeder struct {
	w       io.Writer
	pattern string
	color   color.RGBA
	payload []byte
	seq     byte
}

func newFeeder(w io.Writer, leds int, pattern string, c color.RGBA) (*feeder, error) {
	if leds <= 0 || 3*leds > frame.MaxPayload {
		return nil, fmt.Errorf("%d leds: %w", leds, neolib.ErrStripLength)
	}
	f := &feeder{w: w, pattern: pattern, color: c, payload: make([]byte, 3*leds)}
	// Catch a bad pattern before opening anything.
	if err := render(pattern, f.payload, 0, c); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *feeder) send() error {
	b, err := frame.Encode(f.seq, f.payload)
	if err != nil {
		return err
	}
	if _, err := f.w.Write(b); err != nil {
		return fmt.Errorf("write frame %d: %w", f.seq, err)
	}
	f.seq++
	return nil
}

// step renders and sends animation step i.
func (f *feeder) step(i int) error {
	if err := render(f.pattern, f.payload, i, f.color); err != nil {
		return err
	}
	return f.send()
}

// blank sends one all-off frame.
func (f *feeder) blank() error {
	for i := range f.payload {
		f.payload[i] = 0
	}
	return f.send()
}

// run sends frames every interval until ctx is done or, when frames is
// positive, that many frames were sent. The strip is blanked on
// cancellation.
func (f *feeder) run(ctx context.Context, interval time.Duration, frames int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := f.step(i); err != nil {
			return err
		}
		if i%100 == 0 {
			glog.V(1).Infof("sent %d frames", i+1)
		}
		if frames > 0 && i == frames-1 {
			break
		}
		select {
		case <-ctx.Done():
			glog.Info("interrupted, blanking strip")
			return f.blank()
		case <-ticker.C:
		}
	}
	return nil
}

func main() {
	var (
		port    = flag.String("port", "/dev/ttyUSB0", "serial device of the board")
		baud    = flag.Int("baud", 115200, "baud rate")
		leds    = flag.Int("leds", 60, "number of LEDs on the strip")
		pattern = flag.String("pattern", "rainbow", "animation: solid, rainbow or chase")
		col     = flag.String("color", "ff6000", "color for solid and chase, RRGGBB")
		fps     = flag.Int("fps", 30, "frames per second")
		frames  = flag.Int("frames", 0, "stop after this many frames, 0 to run until interrupted")
	)
	flag.Parse()
	defer glog.Flush()

	if err := realMain(*port, *baud, *leds, *pattern, *col, *fps, *frames); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}

func realMain(device string, baud, leds int, pattern, col string, fps, frames int) error {
	c, err := parseColor(col)
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	defer port.Close()

	f, err := newFeeder(port, leds, pattern, c)
	if err != nil {
		return err
	}
	glog.Infof("streaming %s to %d leds on %s at %d fps", pattern, leds, device, fps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return f.run(ctx, time.Second/time.Duration(fps), frames)
}
