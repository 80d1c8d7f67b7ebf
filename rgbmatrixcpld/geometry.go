// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

// geometry holds the logical panel dimensions and the derived buffer
// layout constants. All address arithmetic into the framebuffer goes
// through this type so the byte layout the CPLD decodes is defined in
// exactly one place.
type geometry struct {
	// width and height in pixels, each rounded down to a multiple of 32.
	width  int
	height int
	// depth is the number of bit-planes, 1 to 4.
	depth int
	// rowSize is the bytes in one scan row slice.
	rowSize int
	// planeSize is the bytes in one bit-plane: 16 row slices, each
	// covering one scan row of both 16-row addressing halves.
	planeSize int
}

func newGeometry(w, h, depth int) geometry {
	w = w &^ 31
	h = h &^ 31
	g := geometry{
		width:  w,
		height: h,
		depth:  depth,
	}
	g.rowSize = w * (h >> 5)
	g.planeSize = g.rowSize * 16
	return g
}

// pixelAddr locates one pixel's bit triple inside a bit-plane: the byte
// offset relative to the start of the plane, and whether the triple
// occupies the upper (bits 5..3) or lower (bits 2..0) half of the byte.
// Bits 7 and 6 of every row slice's last byte belong to the latch and
// row-advance protocol signals.
type pixelAddr struct {
	offset int
	upper  bool
}

// address folds the logical coordinate onto the physical panel stack.
//
// The stack is modeled as 32-row segments laid end to end on the scan
// chain. Even segments are mounted upright; odd segments are rotated by
// 180°, so both their row and their column are mirrored. The mapping is
// a bijection from [0,width)x[0,height) onto the addressable slots of a
// plane. ok is false for coordinates outside the panel.
func (g geometry) address(x, y int) (pixelAddr, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return pixelAddr{}, false
	}
	segment := y >> 5
	row := y & 31
	col := x
	if segment&1 != 0 {
		row = 31 - row
		col = (g.width - 1) - x
	}
	col += segment * g.width
	upper := row < 16
	if !upper {
		row -= 16
	}
	return pixelAddr{offset: row*g.rowSize + col, upper: upper}, true
}

// planeBits extracts the red, green and blue bits plane k contributes
// for c and packs them into the three bit drive pattern, red in the
// high bit. Plane 0 carries the most significant channel bits.
func planeBits(c Color, k int) byte {
	r := byte(c>>(15-k)) & 1
	g := byte(c>>(10-k)) & 1
	b := byte(c>>(4-k)) & 1
	return r<<2 | g<<1 | b
}
