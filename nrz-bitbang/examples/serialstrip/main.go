//go:build esp32 || esp8266 || rp2350

package main

import (
	"image/color"
	"machine"
	"strconv"
	"time"

	"github.com/tinygo-org/bitbang/nrz-bitbang/frame"
	"github.com/tinygo-org/bitbang/nrz-bitbang/neolib"
)

var ledPin, ledCount, ledProtocol string

/*
Receives frames from the serial console and shows them on a strip. Pair it
with cmd/nrzfeed on the host:
tinygo flash -target=$TARGET_NAME -ldflags "-X main.ledPin=$GPIO_NUMBER -X main.ledCount=$LEDS" ./nrz-bitbang/examples/serialstrip/
nrzfeed -port /dev/ttyUSB0 -leds $LEDS -pattern rainbow
*/
func main() {
	pinNum, err := strconv.Atoi(ledPin)
	if err != nil {
		println("Invalid pin number: " + ledPin)
		pinNum = 27
	}
	n, err := strconv.Atoi(ledCount)
	if err != nil || n <= 0 {
		n = 60
	}
	proto, err := neolib.LookupProtocol(ledProtocol)
	if err != nil {
		proto = neolib.WS2812x
	}
	pin := machine.Pin(pinNum)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	if proto.Inverted {
		pin.High()
	} else {
		pin.Low()
	}

	strip, err := neolib.NewPinStrip(pin, n, neolib.Config{Protocol: proto, Order: neolib.OrderGRB})
	if err != nil {
		panic(err.Error())
	}
	strip.Display()

	parser := frame.NewParser(n * 3)
	var last byte
	synced := false
	for {
		if machine.Serial.Buffered() == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		b, err := machine.Serial.ReadByte()
		if err != nil {
			continue
		}
		f, err := parser.Feed(b)
		if err != nil {
			println("frame:", err.Error())
			continue
		}
		if f == nil {
			continue
		}
		if synced && f.Seq != last+1 {
			println("dropped", f.Seq-last-1, "frames")
		}
		synced, last = true, f.Seq

		for i := 0; i+2 < len(f.Payload); i += 3 {
			strip.Set(i/3, color.RGBA{R: f.Payload[i], G: f.Payload[i+1], B: f.Payload[i+2], A: 255})
		}
		strip.Display()
	}
}
