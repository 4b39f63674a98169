// Package meter provides stateful meters producing point measurements.
//
// The family is closed: Counter, Gauge, Record and State. None of them is
// safe for concurrent mutation; callers that share a meter between
// goroutines must lock around it.
package meter

import (
	"errors"
	"math"

	"github.com/and161185/telemetry-core/model"
)

// ErrNegativeIncrement is the panic value of Counter.Increment for a negative argument.
var ErrNegativeIncrement = errors.New("counter increment must not be negative")

// ErrCounterOverflow is the panic value of Counter.Increment when the sum exceeds int64.
var ErrCounterOverflow = errors.New("counter increment overflows int64")

// Meter produces a Datum reading on demand.
type Meter interface {
	Reading() model.Datum
	meter()
}

var (
	_ Meter = (*Counter)(nil)
	_ Meter = (*Gauge)(nil)
	_ Meter = (*Record[int])(nil)
	_ Meter = (*State[int])(nil)
)

// Counter is a monotonic accumulator.
type Counter struct {
	data int64
}

// NewCounter returns a counter starting at start.
func NewCounter(start int64) *Counter {
	return &Counter{data: start}
}

// Reading returns the accumulated value.
func (c *Counter) Reading() model.Datum { return model.NewDatum(c.data) }

// Increment adds v to the counter. A negative v, or one that would wrap
// the counter around, is a programming error and panics.
func (c *Counter) Increment(v int64) {
	if v < 0 {
		panic(ErrNegativeIncrement)
	}
	if c.data > 0 && v > math.MaxInt64-c.data {
		panic(ErrCounterOverflow)
	}
	c.data += v
}

func (c *Counter) meter() {}

// Gauge is a freely settable point value.
type Gauge struct {
	data int64
}

// NewGauge returns a gauge holding start.
func NewGauge(start int64) *Gauge {
	return &Gauge{data: start}
}

// Reading returns the current value.
func (g *Gauge) Reading() model.Datum { return model.NewDatum(g.data) }

// Update adds v, which may be negative.
func (g *Gauge) Update(v int64) { g.data += v }

// Adjust replaces the value.
func (g *Gauge) Adjust(v int64) { g.data = v }

// Reset sets the value to zero.
func (g *Gauge) Reset() { g.Adjust(0) }

// Count returns the current reading and resets the gauge.
func (g *Gauge) Count() model.Datum {
	r := g.Reading()
	g.Reset()
	return r
}

func (g *Gauge) meter() {}
