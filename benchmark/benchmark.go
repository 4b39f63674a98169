// Package benchmark times repeated synchronous execution of a unit of work.
//
// The harness reports the raw total: no warm-up, no outlier rejection and
// no retries. Callers wanting statistics call Test several times.
package benchmark

import (
	"errors"

	"github.com/and161185/telemetry-core/model"
	"github.com/benbjohnson/clock"
)

// ErrNonPositiveRepetitions is the panic value of Test when asked for no work.
var ErrNonPositiveRepetitions = errors.New("benchmark repetitions must be positive")

// Benchmark is a timing harness.
type Benchmark struct {
	clock clock.Clock
}

// Option configures a Benchmark.
type Option func(*Benchmark)

// WithClock replaces the time source. The real clock reads Go's monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(b *Benchmark) {
		b.clock = c
	}
}

// New returns a harness using the real clock unless overridden.
func New(opts ...Option) *Benchmark {
	b := &Benchmark{clock: clock.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Test calls work exactly repetitions times back to back on the calling
// goroutine and returns the elapsed time in whole microseconds, truncated.
// repetitions <= 0 panics before work is ever called.
func (b *Benchmark) Test(repetitions int, work func()) model.Datum {
	if repetitions <= 0 {
		panic(ErrNonPositiveRepetitions)
	}
	start := b.clock.Now()
	for i := 0; i < repetitions; i++ {
		work()
	}
	return model.NewDatum(b.clock.Since(start).Microseconds())
}

// Measure times a single call of work.
func (b *Benchmark) Measure(work func()) model.Datum {
	return b.Test(1, work)
}

var std = New()

// Test runs work on the default harness.
func Test(repetitions int, work func()) model.Datum {
	return std.Test(repetitions, work)
}

// Measure times one call of work on the default harness.
func Measure(work func()) model.Datum {
	return std.Measure(work)
}
