package neolib

import (
	"image/color"
	"math"
	"time"

	bitbang "github.com/tinygo-org/bitbang/nrz-bitbang"
	"tinygo.org/x/drivers"
)

// Sender transmits a whole frame of wire-ordered bytes. *bitbang.Pin is the
// hardware implementation.
type Sender interface {
	Send(pixels []byte, t bitbang.Timing)
}

// Config selects the chip family and wiring of a strip.
type Config struct {
	Protocol Protocol
	Order    ColorOrder
	// CPUFrequency is the rate of the cycle counter the Sender times
	// against, in Hz.
	CPUFrequency uint32
	// Inverted adds an inversion on top of the protocol's own polarity, for
	// strips driven through an inverting level shifter. Only used by
	// constructors that build the Sender.
	Inverted bool
}

// Strip is a frame buffer for a chain of LEDs. Pixels are drawn into memory
// and sent together by Display.
type Strip struct {
	tx     Sender
	timing bitbang.Timing
	reset  time.Duration
	order  ColorOrder
	stride int

	pixels     []byte // wire order, full brightness
	out        []byte // scaled copy sent when brightness is below 255
	brightness uint8

	lastShow time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

var _ drivers.Displayer = (*Strip)(nil)

// New returns a Strip of n pixels sending through tx.
func New(tx Sender, n int, cfg Config) (*Strip, error) {
	if n <= 0 || n > math.MaxInt16 {
		return nil, ErrStripLength
	}
	if int(cfg.Order) >= len(orderLayouts) {
		return nil, ErrUnknownOrder
	}
	t, err := cfg.Protocol.Timing(cfg.CPUFrequency)
	if err != nil {
		return nil, err
	}
	stride := cfg.Order.BytesPerPixel()
	return &Strip{
		tx:         tx,
		timing:     t,
		reset:      cfg.Protocol.Reset,
		order:      cfg.Order,
		stride:     stride,
		pixels:     make([]byte, n*stride),
		brightness: 255,
		now:        time.Now,
		sleep:      time.Sleep,
	}, nil
}

// Len returns the number of pixels.
func (s *Strip) Len() int { return len(s.pixels) / s.stride }

// Timing returns the bit timing in cycles.
func (s *Strip) Timing() bitbang.Timing { return s.timing }

// Size implements drivers.Displayer. A strip is one row of pixels.
func (s *Strip) Size() (x, y int16) { return int16(s.Len()), 1 }

// SetPixel implements drivers.Displayer. Out of range pixels are ignored.
func (s *Strip) SetPixel(x, y int16, c color.RGBA) {
	if y != 0 || x < 0 || int(x) >= s.Len() {
		return
	}
	s.Set(int(x), c)
}

// Set sets pixel i. Out of range pixels are ignored.
func (s *Strip) Set(i int, c color.RGBA) {
	if i < 0 || i >= s.Len() {
		return
	}
	s.order.Put(s.pixels[i*s.stride:], c)
}

// Pixel returns pixel i at full brightness.
func (s *Strip) Pixel(i int) color.RGBA {
	if i < 0 || i >= s.Len() {
		return color.RGBA{}
	}
	return s.order.Get(s.pixels[i*s.stride:])
}

// Fill sets every pixel to c.
func (s *Strip) Fill(c color.RGBA) {
	if s.Len() == 0 {
		return
	}
	s.order.Put(s.pixels, c)
	for i := s.stride; i < len(s.pixels); i += s.stride {
		copy(s.pixels[i:i+s.stride], s.pixels[:s.stride])
	}
}

// SetBrightness scales every channel by b/255 when sending. The stored
// pixels keep full resolution.
func (s *Strip) SetBrightness(b uint8) { s.brightness = b }

// Brightness returns the current brightness.
func (s *Strip) Brightness() uint8 { return s.brightness }

// Buffer returns the wire ordered pixel bytes. Writes to it show up on the
// next Display.
func (s *Strip) Buffer() []byte { return s.pixels }

// CanShow reports whether the reset gap since the last frame has elapsed.
func (s *Strip) CanShow() bool {
	return s.lastShow.IsZero() || s.now().Sub(s.lastShow) >= s.reset
}

// Display implements drivers.Displayer. It waits out whatever is left of the
// reset gap after the previous frame, then blocks while the frame is sent.
// It never fails.
func (s *Strip) Display() error {
	if !s.lastShow.IsZero() {
		if left := s.reset - s.now().Sub(s.lastShow); left > 0 {
			s.sleep(left)
		}
	}
	s.tx.Send(s.frame(), s.timing)
	s.lastShow = s.now()
	return nil
}

func (s *Strip) frame() []byte {
	if s.brightness == 255 {
		return s.pixels
	}
	if len(s.out) != len(s.pixels) {
		s.out = make([]byte, len(s.pixels))
	}
	scale := uint16(s.brightness) + 1
	for i, v := range s.pixels {
		s.out[i] = uint8((uint16(v) * scale) >> 8)
	}
	return s.out
}
