// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgbmatrixcpld drives stacks of 32x32 RGB LED matrix panels
// through a CPLD backpack that converts an SPI bitstream into the
// panel's parallel scan protocol.
//
// The only ongoing work asked of the host is to start the next row
// transfer and to compute how long the current bit-plane stays lit.
// Everything else, shifting pixel data, advancing the row address and
// latching, is decoded by the CPLD from control bits embedded in the
// byte stream. This keeps CPU usage low enough to run simulations or
// network clients next to the refresh engine.
//
// Color is time-multiplexed: the framebuffer holds up to four
// bit-planes per channel and the refresh engine displays plane p for
// 2^(depth-1-p) base periods, reconstructing depth bits of brightness
// per channel by binary-weighted pulse-width modulation.
//
// The panel stack is treated as one logical framebuffer. Panels are
// mounted in alternating orientation: even 32-row segments are upright
// and odd segments are rotated by 180°, which the driver folds into a
// single continuous coordinate space.
//
// In double buffered mode the application draws into the back buffer
// and calls RequestSwap; the exchange happens at the end of the running
// refresh cycle so a frame is never torn. In single buffered mode every
// write is visible on the next scan.
//
// # More details
//
// Panels: https://www.adafruit.com/products/2026
//
// Backpack: http://reclaimerlabs.com
package rgbmatrixcpld
