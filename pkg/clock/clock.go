// Package clock provides the seconds-resolution time source used for node
// liveness.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock returns the current time in whole seconds. The value is assumed
// monotonic enough for liveness checks but may be wrong until an external
// sync (GPS, phone) has happened.
type Clock interface {
	NowSeconds() uint32
}

// System reads the host wall clock.
type System struct{}

// NowSeconds returns the Unix time in seconds.
func (System) NowSeconds() uint32 {
	return uint32(time.Now().Unix())
}

// Manual is a settable clock for tests and simulations.
// The zero value reads 0, like an unsynchronized device clock.
type Manual struct {
	now atomic.Uint32
}

// NewManual returns a Manual clock set to now.
func NewManual(now uint32) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

// NowSeconds returns the current manual time.
func (m *Manual) NowSeconds() uint32 {
	return m.now.Load()
}

// Set moves the clock to now.
func (m *Manual) Set(now uint32) {
	m.now.Store(now)
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint32) {
	m.now.Add(d)
}

var (
	_ Clock = System{}
	_ Clock = (*Manual)(nil)
)
