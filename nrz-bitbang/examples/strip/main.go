//go:build esp32 || esp8266 || rp2350

package main

import (
	"machine"
	"strconv"
	"time"

	"github.com/tinygo-org/bitbang/nrz-bitbang/neolib"
)

var ledPin, ledCount string

/*
This example package can be flashed, specifying the GPIO number and strip
length via the -ldflags flag like so:
tinygo flash -target=$TARGET_NAME -ldflags "-X main.ledPin=$GPIO_NUMBER -X main.ledCount=$LEDS" ./nrz-bitbang/examples/strip/
*/
func main() {
	pinNum, err := strconv.Atoi(ledPin)
	if err != nil {
		println("Invalid pin number: " + ledPin)
		pinNum = 27
	}
	n, err := strconv.Atoi(ledCount)
	if err != nil || n <= 0 {
		n = 8
	}
	pin := machine.Pin(pinNum)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()

	strip, err := neolib.NewPinStrip(pin, n, neolib.Config{
		Protocol: neolib.WS2812x,
		Order:    neolib.OrderGRB,
	})
	if err != nil {
		panic(err.Error())
	}
	strip.SetBrightness(32)
	t := strip.Timing()
	println("cycles t0h", t.ShortHigh, "t1h", t.LongHigh, "period", t.Period)

	for offset := uint8(0); ; offset++ {
		for i := 0; i < n; i++ {
			strip.Set(i, neolib.Wheel(offset+uint8(i*256/n)))
		}
		strip.Display()
		time.Sleep(20 * time.Millisecond)
	}
}
