// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import "sync/atomic"

// Protocol control bits in the last byte of every row slice. The CPLD
// decodes them from the bitstream; their meaning past that is the
// CPLD's business, the driver only has to reproduce the layout.
const (
	ctrlRowAdvance = 1 << 6
	ctrlLatch      = 1 << 7
)

// frameBuffer owns the raw scan-out storage.
//
// The arena holds one buffer half in single buffered mode and two in
// double buffered mode. The half indexed by front is scanned out by the
// refresh engine and must never be written by the application; drawing
// goes to the other half. In single buffered mode front and back are the
// same region and every write is live on the next scan.
//
// The swap and resync requests are one-shot flags: written only by the
// application, consumed and cleared only by the refresh engine, and only
// at the end of a full refresh cycle. That single-writer handshake is
// the whole concurrency protocol; there is no lock.
type frameBuffer struct {
	geom   geometry
	arena  []byte
	double bool

	// front selects the scanned-out half. Written only by the refresh
	// engine at the cycle boundary.
	front atomic.Int32

	swapRequested   atomic.Bool
	resyncRequested atomic.Bool
}

func newFrameBuffer(geom geometry, double bool) *frameBuffer {
	n := geom.depth * geom.planeSize
	if double {
		n *= 2
	}
	fb := &frameBuffer{geom: geom, arena: make([]byte, n), double: double}
	fb.fillBuf(fb.half(0), 0)
	if double {
		fb.fillBuf(fb.half(1), 0)
	}
	return fb
}

func (fb *frameBuffer) half(i int32) []byte {
	n := fb.geom.depth * fb.geom.planeSize
	if !fb.double || i == 0 {
		return fb.arena[:n]
	}
	return fb.arena[n:]
}

// back returns the application-writable half.
func (fb *frameBuffer) back() []byte {
	if !fb.double {
		return fb.half(0)
	}
	return fb.half(1 - fb.front.Load())
}

// frontSlice returns the scan-out slice for one (plane, row) pair.
func (fb *frameBuffer) frontSlice(plane, row int) []byte {
	g := fb.geom
	start := plane*g.planeSize + row*g.rowSize
	return fb.half(fb.front.Load())[start : start+g.rowSize]
}

// setPixel writes one pixel into the back buffer, one bit-plane at a
// time. Coordinates outside the panel are silently ignored.
func (fb *frameBuffer) setPixel(x, y int, c Color) {
	addr, ok := fb.geom.address(x, y)
	if !ok {
		return
	}
	buf := fb.back()
	for k := 0; k < fb.geom.depth; k++ {
		p := &buf[k*fb.geom.planeSize+addr.offset]
		if addr.upper {
			*p = *p&0xC7 | planeBits(c, k)<<3
		} else {
			*p = *p&0xF8 | planeBits(c, k)
		}
	}
}

// fill floods the back buffer with a single color.
func (fb *frameBuffer) fill(c Color) {
	fb.fillBuf(fb.back(), c)
}

func (fb *frameBuffer) fillBuf(buf []byte, c Color) {
	g := fb.geom
	for k := 0; k < g.depth; k++ {
		bits := planeBits(c, k)
		// Both byte halves carry the same drive pattern.
		b := bits<<3 | bits
		plane := buf[k*g.planeSize : (k+1)*g.planeSize]
		for i := range plane {
			plane[i] = b
		}
	}
	// The flood clobbered the trailing control bits. Losing them desyncs
	// the CPLD, so every row slice gets them stamped back.
	for i := 1; i <= g.depth*16; i++ {
		buf[g.rowSize*i-1] |= ctrlRowAdvance | ctrlLatch
	}
}

// requestSwap arms a front/back exchange for the end of the running
// refresh cycle. No-op in single buffered mode.
func (fb *frameBuffer) requestSwap() {
	if fb.double {
		fb.swapRequested.Store(true)
	}
}

// requestResync arms a clear pulse for the end of the running refresh
// cycle.
func (fb *frameBuffer) requestResync() {
	fb.resyncRequested.Store(true)
}
