// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgbmatrix is a container for RGB LED matrix device drivers.
package rgbmatrix
