package neolib

import "image/color"

// Wheel returns a fully saturated color at position pos of a 256 step color
// wheel going red, green, blue and back to red.
func Wheel(pos uint8) color.RGBA {
	switch {
	case pos < 85:
		return color.RGBA{R: 255 - pos*3, G: pos * 3, A: 255}
	case pos < 170:
		pos -= 85
		return color.RGBA{G: 255 - pos*3, B: pos * 3, A: 255}
	default:
		pos -= 170
		return color.RGBA{R: pos * 3, B: 255 - pos*3, A: 255}
	}
}
