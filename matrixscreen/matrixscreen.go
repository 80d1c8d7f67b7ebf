// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package matrixscreen implements a 2D display.Drawer that renders an
// RGB LED matrix to the terminal (stdout) using ANSI color codes.
//
// Useful while you are waiting for your panels and CPLD backpack to
// come by mail: animations written against display.Drawer run unchanged
// against either device.
package matrixscreen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	W       int
	H       int
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is an LED matrix emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	bounds  image.Rectangle
	palette ansi256.Palette

	pixels []byte // 3 bytes per pixel, row major
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// Permits to do local testing of animations without the hardware.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		bounds:  image.Rect(0, 0, opts.W, opts.H),
		palette: *p,
		pixels:  make([]byte, 3*opts.W*opts.H),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("MatrixScreen{%dx%d}", d.bounds.Dx(), d.bounds.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Write accepts a stream of raw RGB pixels, full frame, row major, and
// renders it.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.pixels) {
		return 0, errors.New("invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.bounds)
	w := d.bounds.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			r16, g16, b16, _ := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y).RGBA()
			o := 3 * (y*w + x)
			d.pixels[o] = byte(r16 >> 8)
			d.pixels[o+1] = byte(g16 >> 8)
			d.pixels[o+2] = byte(b16 >> 8)
		}
	}
	_, err := d.refresh()
	return err
}

func (d *Dev) refresh() (int, error) {
	// This code is designed to minimize the amount of memory allocated
	// per call. Each frame redraws over the previous one by moving the
	// cursor back up afterwards.
	w := d.bounds.Dx()
	h := d.bounds.Dy()
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := 3 * (y*w + x)
			c := color.NRGBA{d.pixels[o], d.pixels[o+1], d.pixels[o+2], 255}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	fmt.Fprintf(&d.buf, "\033[%dA\r", h)
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
