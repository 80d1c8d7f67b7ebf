// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import (
	"image/color"
	"testing"
)

func TestColor333(t *testing.T) {
	for _, tc := range []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0x0000},
		{name: "red", r: 7, g: 0, b: 0, want: 0xE000},
		{name: "green", r: 0, g: 7, b: 0, want: 0x0700},
		{name: "blue", r: 0, g: 0, b: 7, want: 0x001C},
		{name: "masked", r: 0xFF, g: 0xFF, b: 0xFF, want: 0xE71C},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Color333(tc.r, tc.g, tc.b); got != tc.want {
				t.Errorf("Color333(%d, %d, %d) = %#04x, want %#04x", tc.r, tc.g, tc.b, uint16(got), uint16(tc.want))
			}
		})
	}
}

func TestColor444(t *testing.T) {
	for _, tc := range []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0x0000},
		{name: "red", r: 0xF, g: 0, b: 0, want: 0xF000},
		{name: "green", r: 0, g: 0xF, b: 0, want: 0x0780},
		{name: "blue", r: 0, g: 0, b: 0xF, want: 0x001E},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Color444(tc.r, tc.g, tc.b); got != tc.want {
				t.Errorf("Color444(%d, %d, %d) = %#04x, want %#04x", tc.r, tc.g, tc.b, uint16(got), uint16(tc.want))
			}
		})
	}
}

func TestColor888(t *testing.T) {
	for _, tc := range []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0x0000},
		{name: "white", r: 255, g: 255, b: 255, want: 0xFFFF},
		{name: "red", r: 255, g: 0, b: 0, want: 0xF800},
		{name: "green", r: 0, g: 255, b: 0, want: 0x07E0},
		{name: "blue", r: 0, g: 0, b: 255, want: 0x001F},
		{name: "truncated", r: 0x07, g: 0x03, b: 0x07, want: 0x0000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Color888(tc.r, tc.g, tc.b); got != tc.want {
				t.Errorf("Color888(%d, %d, %d) = %#04x, want %#04x", tc.r, tc.g, tc.b, uint16(got), uint16(tc.want))
			}
		})
	}
}

func TestColor888Gamma(t *testing.T) {
	if got, want := Color888Gamma(12, 34, 56, false), Color888(12, 34, 56); got != want {
		t.Errorf("gflag=false must match Color888: got %#04x, want %#04x", uint16(got), uint16(want))
	}
	if got := Color888Gamma(0, 0, 0, true); got != 0x0000 {
		t.Errorf("gamma black = %#04x, want 0x0000", uint16(got))
	}
	if got := Color888Gamma(255, 255, 255, true); got != 0xFFFF {
		t.Errorf("gamma white = %#04x, want 0xffff", uint16(got))
	}
	// The table darkens the low and mid range.
	if got, lin := Color888Gamma(128, 0, 0, true), Color888(128, 0, 0); got >= lin {
		t.Errorf("gamma mid red %#04x not darker than linear %#04x", uint16(got), uint16(lin))
	}
}

func TestGammaTableMonotonic(t *testing.T) {
	if gammaTable[0] != 0 || gammaTable[255] != 15 {
		t.Fatalf("gamma endpoints = %d, %d; want 0, 15", gammaTable[0], gammaTable[255])
	}
	for i := 1; i < len(gammaTable); i++ {
		if gammaTable[i] < gammaTable[i-1] {
			t.Fatalf("gammaTable not monotonic at %d: %d < %d", i, gammaTable[i], gammaTable[i-1])
		}
	}
}

func TestColorHSV(t *testing.T) {
	for _, tc := range []struct {
		name     string
		hue      int
		sat, val uint8
		want     Color
	}{
		{name: "red", hue: 0, sat: 255, val: 255, want: 0xF800},
		{name: "yellow", hue: 256, sat: 255, val: 255, want: 0xFFE0},
		{name: "green", hue: 512, sat: 255, val: 255, want: 0x07E0},
		{name: "cyan", hue: 768, sat: 255, val: 255, want: 0x07FF},
		{name: "blue", hue: 1024, sat: 255, val: 255, want: 0x001F},
		{name: "magenta", hue: 1280, sat: 255, val: 255, want: 0xF81F},
		{name: "wrapped", hue: 1536, sat: 255, val: 255, want: 0xF800},
		{name: "negative", hue: -256, sat: 255, val: 255, want: 0xF81F},
		{name: "desaturated", hue: 0, sat: 0, val: 255, want: 0xFFFF},
		{name: "dark", hue: 0, sat: 255, val: 0, want: 0x0000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ColorHSV(tc.hue, tc.sat, tc.val, false); got != tc.want {
				t.Errorf("ColorHSV(%d, %d, %d, false) = %#04x, want %#04x", tc.hue, tc.sat, tc.val, uint16(got), uint16(tc.want))
			}
		})
	}
}

func TestColorHSVGamma(t *testing.T) {
	// Fully saturated primaries hit the ends of the gamma table and
	// come out identical to the linear path.
	for _, hue := range []int{0, 512, 1024} {
		lin := ColorHSV(hue, 255, 255, false)
		cor := ColorHSV(hue, 255, 255, true)
		if lin != cor {
			t.Errorf("hue %d: gamma %#04x != linear %#04x", hue, uint16(cor), uint16(lin))
		}
	}
}

func TestColorModel(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   color.Color
		want Color
	}{
		{name: "nrgba white", in: color.NRGBA{255, 255, 255, 255}, want: 0xFFFF},
		{name: "nrgba red", in: color.NRGBA{255, 0, 0, 255}, want: 0xF800},
		{name: "identity", in: Color(0x1234), want: 0x1234},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Model.Convert(tc.in).(Color); got != tc.want {
				t.Errorf("Model.Convert(%v) = %#04x, want %#04x", tc.in, uint16(got), uint16(tc.want))
			}
		})
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color(0xF800).RGBA()
	if r != 0xFFFF || g != 0 || b != 0 || a != 0xFFFF {
		t.Errorf("Color(0xF800).RGBA() = %d, %d, %d, %d", r, g, b, a)
	}
	r, g, b, _ = Color(0xFFFF).RGBA()
	if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF {
		t.Errorf("Color(0xFFFF).RGBA() = %d, %d, %d", r, g, b)
	}
}
