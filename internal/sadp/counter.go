package sadp

import (
	"math/rand"
	"sync/atomic"
)

// Counter is the 32-bit sequence counter stamped into outgoing frames so
// responses can be correlated with the requests that caused them. It is an
// explicitly owned object rather than a process global: production code
// seeds one randomly per process so repeated runs present a changing
// session context, tests inject deterministic seeds.
//
// All operations are atomic, though the protocol itself assumes a single
// frame-building goroutine per process.
type Counter struct {
	n atomic.Uint32
}

// NewCounter returns a counter starting at seed.
func NewCounter(seed uint32) *Counter {
	c := &Counter{}
	c.n.Store(seed)
	return c
}

// NewRandomCounter returns a counter starting at a random value.
func NewRandomCounter() *Counter {
	return NewCounter(rand.Uint32())
}

// Get returns the current value.
func (c *Counter) Get() uint32 { return c.n.Load() }

// Set resets the counter to v.
func (c *Counter) Set(v uint32) { c.n.Store(v) }

// Increment advances the counter by one.
func (c *Counter) Increment() { c.n.Add(1) }

// GetAndIncrement returns the current value and advances the counter, as a
// single atomic step.
func (c *Counter) GetAndIncrement() uint32 { return c.n.Add(1) - 1 }
