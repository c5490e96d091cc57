package neolib

import (
	"image/color"
	"strings"
)

// ColorOrder is the order in which a chip expects its color channels.
type ColorOrder uint8

const (
	OrderGRB ColorOrder = iota
	OrderRGB
	OrderBRG
	OrderRBG
	OrderGBR
	OrderBGR
	OrderGRBW
	OrderRGBW
)

var orderLayouts = [...]string{
	OrderGRB:  "GRB",
	OrderRGB:  "RGB",
	OrderBRG:  "BRG",
	OrderRBG:  "RBG",
	OrderGBR:  "GBR",
	OrderBGR:  "BGR",
	OrderGRBW: "GRBW",
	OrderRGBW: "RGBW",
}

// LookupOrder parses an order name such as "grb" or "RGBW".
func LookupOrder(name string) (ColorOrder, error) {
	for i, layout := range orderLayouts {
		if strings.EqualFold(layout, name) {
			return ColorOrder(i), nil
		}
	}
	return 0, ErrUnknownOrder
}

func (o ColorOrder) String() string {
	if int(o) < len(orderLayouts) {
		return orderLayouts[o]
	}
	return "unknown"
}

// BytesPerPixel returns 3, or 4 for orders with a white channel.
func (o ColorOrder) BytesPerPixel() int {
	return len(o.layout())
}

func (o ColorOrder) layout() string {
	if int(o) < len(orderLayouts) {
		return orderLayouts[o]
	}
	return orderLayouts[OrderGRB]
}

// Put writes c into dst in wire order. dst must hold BytesPerPixel bytes.
// For orders with a white channel the common part of R, G and B is moved
// to W. Alpha is ignored.
func (o ColorOrder) Put(dst []byte, c color.RGBA) {
	layout := o.layout()
	var w uint8
	if len(layout) == 4 {
		w = min(c.R, c.G, c.B)
		c.R -= w
		c.G -= w
		c.B -= w
	}
	for i := 0; i < len(layout); i++ {
		switch layout[i] {
		case 'R':
			dst[i] = c.R
		case 'G':
			dst[i] = c.G
		case 'B':
			dst[i] = c.B
		case 'W':
			dst[i] = w
		}
	}
}

// Get reads a pixel written by Put. White is folded back into R, G and B,
// saturating at 255.
func (o ColorOrder) Get(src []byte) color.RGBA {
	layout := o.layout()
	c := color.RGBA{A: 255}
	var w uint8
	for i := 0; i < len(layout); i++ {
		switch layout[i] {
		case 'R':
			c.R = src[i]
		case 'G':
			c.G = src[i]
		case 'B':
			c.B = src[i]
		case 'W':
			w = src[i]
		}
	}
	c.R = addSat(c.R, w)
	c.G = addSat(c.G, w)
	c.B = addSat(c.B, w)
	return c
}

func addSat(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 255 {
		return uint8(s)
	}
	return 255
}
