// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import "image/color"

// Color is the canonical packed color, laid out 0bRRRRrGGGGggBBBBb
// (5 bits red, 6 bits green, 5 bits blue). Every external color format
// is promoted or demoted to this single internal currency; the refresh
// engine only ever consumes the top Depth bits of each channel.
type Color uint16

// RGBA implements color.Color. The 5/6/5 fields are expanded to 8 bits
// by bit replication before the usual 16 bit upscale.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1F
	g6 := uint32(c>>5) & 0x3F
	b5 := uint32(c) & 0x1F
	r = (r5<<3 | r5>>2) * 0x101
	g = (g6<<2 | g6>>4) * 0x101
	b = (b5<<3 | b5>>2) * 0x101
	a = 0xFFFF
	return
}

// Model converts arbitrary colors to the packed 5/6/5 form.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color888(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})

// Color333 promotes 3/3/3 RGB to packed 5/6/5.
func Color333(r, g, b uint8) Color {
	// RRRrrGGGgggBBBbb
	return Color(uint16(r&0x7)<<13 | uint16(g&0x7)<<8 | uint16(b&0x7)<<2)
}

// Color444 promotes 4/4/4 RGB to packed 5/6/5.
func Color444(r, g, b uint8) Color {
	// RRRRrGGGGggBBBBb
	return Color(uint16(r&0xF)<<12 | uint16(g&0xF)<<7 | uint16(b&0xF)<<1)
}

// Color888 demotes 8/8/8 RGB to packed 5/6/5, assuming linear color.
func Color888(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// Color888Gamma demotes 8/8/8 RGB to packed 5/6/5. With gflag set each
// channel first goes through the gamma table, which maps the 8 bit
// linear input to a 4 bit perceptual value.
func Color888Gamma(r, g, b uint8, gflag bool) Color {
	if !gflag {
		return Color888(r, g, b)
	}
	r4 := uint16(gammaTable[r])
	g4 := uint16(gammaTable[g])
	b4 := uint16(gammaTable[b])
	// 4/4/4 -> 5/6/5
	return Color(r4<<12 | (r4&0x8)<<8 |
		g4<<7 | (g4&0xC)<<3 |
		b4<<1 | b4>>3)
}

// ColorHSV converts a hue/saturation/value triple to packed 5/6/5.
//
// hue is taken modulo 1536 and normalized non-negative; each span of
// 256 units covers one sextant of the color wheel. sat and val run from
// 0 to 255. All arithmetic is integer; existing content depends on the
// exact rounding of these formulas.
func ColorHSV(hue int, sat, val uint8, gflag bool) Color {
	hue %= 1536 // -1535 to +1535
	if hue < 0 {
		hue += 1536 // 0 to +1535
	}
	lo := hue & 255 // primary/secondary color mix within the sextant
	var r, g, b int
	switch hue >> 8 {
	case 0:
		r, g, b = 255, lo, 0 // R to Y
	case 1:
		r, g, b = 255-lo, 255, 0 // Y to G
	case 2:
		r, g, b = 0, 255, lo // G to C
	case 3:
		r, g, b = 0, 255-lo, 255 // C to B
	case 4:
		r, g, b = lo, 0, 255 // B to M
	default:
		r, g, b = 255, 0, 255-lo // M to R
	}

	// Saturation: add 1 so the range is 1 to 256, allowing a shift
	// instead of a divide.
	s1 := int(sat) + 1
	r = 255 - (((255 - r) * s1) >> 8)
	g = 255 - (((255 - g) * s1) >> 8)
	b = 255 - (((255 - b) * s1) >> 8)

	// Value (brightness) and 16 bit color reduction, same trick.
	v1 := int(val) + 1
	if gflag {
		r = int(gammaTable[(r*v1)>>8])
		g = int(gammaTable[(g*v1)>>8])
		b = int(gammaTable[(b*v1)>>8])
	} else {
		r = (r * v1) >> 12 // 4 bit results
		g = (g * v1) >> 12
		b = (b * v1) >> 12
	}
	// 4/4/4 -> 5/6/5
	return Color(uint16(r)<<12 | uint16(r&0x8)<<8 |
		uint16(g)<<7 | uint16(g&0xC)<<3 |
		uint16(b)<<1 | uint16(b)>>3)
}

var _ color.Color = Color(0)
