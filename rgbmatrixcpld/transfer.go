// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import (
	"sync/atomic"

	"periph.io/x/conn/v3"
)

// transferEngine wraps one outstanding asynchronous write of a row
// slice to the serial link. The CPLD clocks the bytes straight through
// to the panel's shift registers, so the engine never interprets them;
// it is a pure transport over a fixed-rate, MSB-first channel.
type transferEngine struct {
	c        conn.Conn
	inFlight atomic.Bool

	// onDone, when set, runs on the transfer goroutine after each
	// completed write.
	onDone func()

	// strict makes an overlapping begin panic instead of dropping the
	// new transfer.
	strict bool
}

// begin starts the asynchronous write of one row slice and returns
// immediately. Completion is observable through busy or onDone.
//
// At most one transfer may be outstanding. The refresh engine's own
// timing discipline guarantees that; a second begin while the previous
// write is still on the wire is a contract violation by the caller. In
// strict mode it panics. Otherwise the new transfer is dropped, which on
// hardware shows up as a skipped scan row, never as reordered bytes.
//
// Write errors have no reporting path: once the refresh engine runs, a
// failed row is indistinguishable from electrical noise and is corrected
// the same way, by the application's periodic RequestResync cadence.
func (t *transferEngine) begin(slice []byte) {
	if !t.inFlight.CompareAndSwap(false, true) {
		if t.strict {
			panic("rgbmatrixcpld: transfer begun while previous still in flight")
		}
		return
	}
	go func() {
		_ = t.c.Tx(slice, nil)
		t.inFlight.Store(false)
		if t.onDone != nil {
			t.onDone()
		}
	}()
}

// busy reports whether a transfer is on the wire.
func (t *transferEngine) busy() bool {
	return t.inFlight.Load()
}
