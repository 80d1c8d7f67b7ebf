// Copyright 2025 The RGB Matrix Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrixcpld

import (
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3"
)

// gateConn is a conn.Conn whose Tx blocks until released, so a test can
// hold a transfer in flight.
type gateConn struct {
	mu      sync.Mutex
	gate    chan struct{}
	writes  [][]byte
}

func newGateConn() *gateConn {
	return &gateConn{gate: make(chan struct{})}
}

func (c *gateConn) String() string { return "gate" }

func (c *gateConn) Duplex() conn.Duplex { return conn.Half }

func (c *gateConn) Tx(w, r []byte) error {
	<-c.gate
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(w))
	copy(cp, w)
	c.writes = append(c.writes, cp)
	return nil
}

func (c *gateConn) release() {
	c.gate <- struct{}{}
}

func TestTransferSingleInFlight(t *testing.T) {
	c := newGateConn()
	done := make(chan struct{}, 4)
	e := &transferEngine{c: c, onDone: func() { done <- struct{}{} }}

	e.begin([]byte{1})
	if !e.busy() {
		t.Fatal("engine not busy after begin")
	}
	// Overlapping begin is dropped, never queued.
	e.begin([]byte{2})
	c.release()
	<-done
	if e.busy() {
		t.Error("engine busy after completion")
	}
	c.mu.Lock()
	n := len(c.writes)
	c.mu.Unlock()
	if n != 1 {
		t.Fatalf("%d writes reached the wire, want 1", n)
	}
	if c.writes[0][0] != 1 {
		t.Errorf("wrong slice on the wire: %v", c.writes[0])
	}

	// Once idle the engine accepts the next transfer.
	e.begin([]byte{3})
	c.release()
	<-done
	c.mu.Lock()
	n = len(c.writes)
	c.mu.Unlock()
	if n != 2 {
		t.Fatalf("%d writes reached the wire, want 2", n)
	}
}

func TestTransferStrictPanics(t *testing.T) {
	c := newGateConn()
	e := &transferEngine{c: c, strict: true}
	e.begin([]byte{1})
	defer func() {
		if recover() == nil {
			t.Error("overlapping begin did not panic in strict mode")
		}
		c.release()
	}()
	e.begin([]byte{2})
}

func TestTransferCompletionSignal(t *testing.T) {
	c := newGateConn()
	done := make(chan struct{}, 1)
	e := &transferEngine{c: c, onDone: func() { done <- struct{}{} }}
	e.begin([]byte{1})
	select {
	case <-done:
		t.Fatal("completion signaled while transfer still on the wire")
	case <-time.After(10 * time.Millisecond):
	}
	c.release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion never signaled")
	}
}
