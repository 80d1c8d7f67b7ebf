// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package example

import (
	"image"
	"log"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/reclaimerlabs/rgbmatrix/rgbmatrixcpld"
)

// Example renders antialiased text and shapes with gg and scans them
// out to a 128x64 stack of panels for ten seconds.
func Example() {
	// Initialize the host. Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	opts := rgbmatrixcpld.Opts{W: 128, H: 64, Depth: 3, DoubleBuffer: true}
	dev, err := rgbmatrixcpld.NewHat(p, &opts)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Start(); err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	bounds := dev.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 12}))

	for i := 0; i < 10; i++ {
		dc.SetRGB(0, 0, 0)
		dc.Clear()
		dc.SetRGB(0, 0.5, 1)
		dc.DrawCircle(float64(10+i*10), 32, 8)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawString("hello", 4, 14)

		if err := dev.Draw(bounds, dc.Image(), image.Point{}); err != nil {
			log.Fatal(err)
		}
		dev.RequestSwap()
		dev.RequestResync()
		time.Sleep(time.Second)
	}
}
