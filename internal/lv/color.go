package lv

import (
	"image/color"
)

// Color is a RGB565 pixel, the native encoding of the panel.
type Color uint16

const (
	ColorBlack Color = 0x0000
	ColorWhite Color = 0xFFFF
)

// ColorMake builds a RGB565 color from 8 bit components.
func ColorMake(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

func ColorFromRGBA(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return ColorMake(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGBA implements color.Color. Components are expanded by bit replication.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1F
	g6 := uint32(c>>5) & 0x3F
	b5 := uint32(c) & 0x1F

	r8 := r5<<3 | r5>>2
	g8 := g6<<2 | g6>>4
	b8 := b5<<3 | b5>>2

	return r8<<8 | r8, g8<<8 | g8, b8<<8 | b8, 0xFFFF
}

// ColorModel converts any color to RGB565.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	if lc, ok := c.(Color); ok {
		return lc
	}
	return ColorFromRGBA(c)
})
