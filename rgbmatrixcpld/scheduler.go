// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import (
	"errors"
	"sync/atomic"
	"time"
)

// Ticker is the periodic tick source that drives the refresh engine. It
// stands in for a hardware interval timer: the period can be changed
// from inside the tick callback and takes effect for the following
// tick. A fake Ticker lets tests drive the refresh engine one tick at a
// time without a timer.
type Ticker interface {
	// Start begins delivering ticks every period. It fails when the
	// underlying timer resource cannot be acquired.
	Start(period time.Duration, tick func()) error
	// SetPeriod changes the delay before the next tick.
	SetPeriod(period time.Duration)
	// Stop ends delivery. No tick callback runs after Stop returns.
	Stop()
}

// timeTicker delivers ticks from a time.Timer on a dedicated goroutine.
type timeTicker struct {
	period  atomic.Int64
	quit    chan struct{}
	done    chan struct{}
	started bool
}

func newTimeTicker() *timeTicker {
	return &timeTicker{}
}

func (t *timeTicker) Start(period time.Duration, tick func()) error {
	if t.started {
		return errors.New("tick source already in use")
	}
	t.started = true
	t.period.Store(int64(period))
	t.quit = make(chan struct{})
	t.done = make(chan struct{})
	go func() {
		defer close(t.done)
		tm := time.NewTimer(time.Duration(t.period.Load()))
		defer tm.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-tm.C:
				tick()
				tm.Reset(time.Duration(t.period.Load()))
			}
		}
	}()
	return nil
}

func (t *timeTicker) SetPeriod(period time.Duration) {
	t.period.Store(int64(period))
}

func (t *timeTicker) Stop() {
	if !t.started {
		return
	}
	close(t.quit)
	<-t.done
	t.started = false
}

// refreshState is the (row, plane) position of the scan-out walk. A
// full refresh cycle visits all 16*depth states; there is no terminal
// state.
type refreshState struct {
	row   int // 0..15
	plane int // 0..depth-1
}

// tickAction is everything one refresh tick decided: the state whose
// row slice to transfer next, the delay before the following tick, and
// whether the cycle boundary consumed a pending swap or resync request.
type tickAction struct {
	state      refreshState
	nextPeriod time.Duration
	swap       bool
	resync     bool
}

// stepRefresh advances the refresh state machine by one tick. It is a
// pure function of the current state and the pending request flags, so
// a test harness can walk it deterministically.
//
// Pending requests are honored only in the (row=15, plane=depth-1)
// state, the point where a full refresh cycle has just completed. That
// is the one place a buffer exchange cannot tear a frame or reinterpret
// a slice mid-transfer.
//
// The next period comes from the pre-advance plane: plane 0 carries the
// most significant channel bits and stays lit 2^(depth-1) base periods,
// each deeper plane half as long as the one before.
func stepRefresh(s refreshState, depth int, base time.Duration, swapReq, resyncReq bool) tickAction {
	var a tickAction
	if s.row == 15 && s.plane == depth-1 {
		a.resync = resyncReq
		a.swap = swapReq
	}
	a.nextPeriod = base << uint(depth-1-s.plane)
	if s.row == 15 {
		s.row = 0
		if s.plane == depth-1 {
			s.plane = 0
		} else {
			s.plane++
		}
	} else {
		s.row++
	}
	a.state = s
	return a
}
