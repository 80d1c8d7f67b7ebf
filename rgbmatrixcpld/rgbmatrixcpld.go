// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

const (
	// basePeriod is the default scan period of the deepest bit-plane.
	// At depth 4 it works out to roughly a 60Hz full refresh.
	basePeriod = 74 * time.Microsecond
	// startPeriod is the delay before the very first tick.
	startPeriod = 250 * time.Microsecond
)

// DefaultOpts is the recommended configuration for a single 32x32 panel.
var DefaultOpts = Opts{
	W:     32,
	H:     32,
	Depth: 3,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the logical panel size in pixels. Each is rounded
	// down to a multiple of 32, the physical segment size.
	W int
	H int
	// Depth is the number of bit-planes, 1 to 4, giving Depth bits of
	// brightness per color channel.
	Depth int
	// DoubleBuffer allocates a second buffer half so a frame can be
	// composed off screen and swapped in between refresh cycles. It
	// doubles the memory use.
	DoubleBuffer bool
	// BasePeriod overrides the scan period of the deepest bit-plane.
	BasePeriod time.Duration
	// Tickers is the descending-priority list of tick sources Start
	// tries. The default list holds one timer-backed source; tests
	// inject a hand-driven fake.
	Tickers []Ticker
	// StrictTransfers makes an overlapping row transfer panic instead
	// of dropping the row. Useful while tuning BasePeriod.
	StrictTransfers bool
}

// Dev is an open handle to a stack of panels behind a CPLD backpack.
//
// Drawing methods write to the back buffer and never block on the
// refresh engine. Once Start has returned, the (row, plane) state is
// owned by the tick callback for the life of the device.
type Dev struct {
	geom     geometry
	fb       *frameBuffer
	transfer *transferEngine
	base     time.Duration
	tickers  []Ticker
	clr      gpio.PinOut
	oe       gpio.PinOut

	// ticker is the acquired tick source; nil while stopped.
	ticker Ticker
	// state is mutated only by tick once Start returns.
	state refreshState
}

// New returns a Dev that drives the panel stack through the CPLD
// backpack on the given SPI port. clr is the CPLD clear line, oe the
// panel output enable (active low).
//
// New allocates and clears the framebuffer, performs one reset pulse on
// clr and configures the serial link. It does not start the refresh
// cycle; call Start.
func New(p spi.Port, clr, oe gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts.Depth < 1 || opts.Depth > 4 {
		return nil, fmt.Errorf("rgbmatrixcpld: invalid color depth %d", opts.Depth)
	}
	geom := newGeometry(opts.W, opts.H, opts.Depth)
	if geom.width == 0 || geom.height == 0 {
		return nil, fmt.Errorf("rgbmatrixcpld: panel size %dx%d is smaller than one 32x32 segment", opts.W, opts.H)
	}
	// The CPLD shifts at a fixed 30MHz, most significant bit first.
	c, err := p.Connect(30*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("rgbmatrixcpld: %v", err)
	}
	// Reset pulse so the CPLD scan counter starts from row zero.
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := clr.Out(l); err != nil {
			return nil, fmt.Errorf("rgbmatrixcpld: %v", err)
		}
	}
	if err := oe.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("rgbmatrixcpld: %v", err)
	}
	base := opts.BasePeriod
	if base == 0 {
		base = basePeriod
	}
	tickers := opts.Tickers
	if len(tickers) == 0 {
		tickers = []Ticker{newTimeTicker()}
	}
	return &Dev{
		geom:     geom,
		fb:       newFrameBuffer(geom, opts.DoubleBuffer),
		transfer: &transferEngine{c: c, strict: opts.StrictTransfers},
		base:     base,
		tickers:  tickers,
		clr:      clr,
		oe:       oe,
		state:    refreshState{row: 15, plane: opts.Depth - 1},
	}, nil
}

// NewHat returns a Dev wired to the default Raspberry Pi header pins.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	return New(p, rpi.P1_11, rpi.P1_22, opts)
}

func (d *Dev) String() string {
	return fmt.Sprintf("rgbmatrixcpld.Dev{%s, %dx%d, depth %d}", d.transfer.c, d.geom.width, d.geom.height, d.geom.depth)
}

// Start registers the periodic tick source and begins the refresh
// cycle. The configured tick sources are tried in descending priority
// until one acquires.
//
// The refresh engine then runs until Halt: each tick blanks the output,
// applies any pending swap or resync at the cycle boundary, reprograms
// the tick period for the next bit-plane's weight, starts the next row
// transfer and unblanks.
func (d *Dev) Start() error {
	if d.ticker != nil {
		return fmt.Errorf("rgbmatrixcpld: already started")
	}
	d.state = refreshState{row: 15, plane: d.geom.depth - 1}
	d.fb.requestResync()
	var err error
	for _, t := range d.tickers {
		if err = t.Start(startPeriod, d.tick); err == nil {
			d.ticker = t
			return nil
		}
	}
	return fmt.Errorf("rgbmatrixcpld: no tick source available: %v", err)
}

// Halt implements conn.Resource. It stops the refresh cycle and blanks
// the panel. Start may be called again afterwards.
func (d *Dev) Halt() error {
	if d.ticker != nil {
		d.ticker.Stop()
		d.ticker = nil
	}
	return d.oe.Out(gpio.High)
}

// SetPixel writes one pixel of the back buffer. Out of range
// coordinates are a silent no-op; callers routinely run shapes off the
// panel edge.
func (d *Dev) SetPixel(x, y int, c Color) {
	d.fb.setPixel(x, y, c)
}

// Fill floods the back buffer with one color.
func (d *Dev) Fill(c Color) {
	d.fb.fill(c)
}

// RequestSwap asks the refresh engine to exchange the front and back
// buffers at the end of the running refresh cycle. It returns
// immediately; the exchange itself is tear-free. No-op in single
// buffered mode.
func (d *Dev) RequestSwap() {
	d.fb.requestSwap()
}

// RequestResync asks the refresh engine to pulse the CPLD clear line at
// the end of the running refresh cycle, realigning the CPLD's frame
// counter with the driver's. Loss of alignment is not detectable
// in-band, so applications call this on a fixed cadence as a preventive
// measure.
func (d *Dev) RequestResync() {
	d.fb.requestResync()
}

// ColorModel implements display.Drawer. Pixels convert to the packed
// 5/6/5 canonical form.
func (d *Dev) ColorModel() color.Model {
	return Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.geom.width, d.geom.height)
}

// Draw implements display.Drawer. Pixels land in the back buffer; in
// double buffered mode nothing shows until RequestSwap.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			d.SetPixel(x, y, Model.Convert(c).(Color))
		}
	}
	return nil
}

// tick runs one step of the refresh engine on the tick source's
// goroutine. It must complete quickly and never waits on the
// application; GPIO errors have no reporting path here and are treated
// like any other electrical fault, corrected by the resync cadence.
func (d *Dev) tick() {
	// Blank the panel while the row and plane selection moves.
	_ = d.oe.Out(gpio.High)
	a := stepRefresh(d.state, d.geom.depth, d.base,
		d.fb.swapRequested.Load(), d.fb.resyncRequested.Load())
	if a.resync {
		_ = d.clr.Out(gpio.Low)
		_ = d.clr.Out(gpio.High)
		d.fb.resyncRequested.Store(false)
	}
	if a.swap {
		d.fb.front.Store(1 - d.fb.front.Load())
		d.fb.swapRequested.Store(false)
	}
	d.ticker.SetPeriod(a.nextPeriod)
	d.state = a.state
	d.transfer.begin(d.fb.frontSlice(a.state.plane, a.state.row))
	_ = d.oe.Out(gpio.Low)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
