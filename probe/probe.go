// Package probe samples operating system resource usage of the current
// process and reports the difference between two samples.
//
// A window is opened with StartUsage, which returns a Handle, and closed
// with EndUsage, which consumes it. Every handle must be ended exactly
// once; Measure does the pairing for a function.
package probe

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/and161185/telemetry-core/model"
)

var (
	// ErrUnsupported is returned on platforms without a resource usage facility.
	ErrUnsupported = fmt.Errorf("resource usage probe: %w", errors.ErrUnsupported)
	// ErrUnknownHandle is returned for handles that were never started or were already ended.
	ErrUnknownHandle = errors.New("unknown or already ended usage handle")
)

// Keys of the Data tree built by Usage.Data.
const (
	KeyCPUTime = iota
	KeyMaxRSS
	KeyInBlock
	KeyOutBlock
)

// Snapshot is one sample of process resource counters.
type Snapshot struct {
	User     int64 // user CPU time, µs
	System   int64 // system CPU time, µs
	MaxRSS   int64 // peak resident set size, bytes
	InBlock  int64 // block input operations
	OutBlock int64 // block output operations
}

// Usage is the difference between two snapshots.
type Usage struct {
	CPUTime  int64 // user+system CPU time, µs
	MaxRSS   int64 // peak RSS growth, bytes; negative values are reported as is
	InBlock  int64
	OutBlock int64
}

// Delta computes end minus start. CPU components are summed before subtracting.
func Delta(start, end Snapshot) Usage {
	return Usage{
		CPUTime:  (end.User + end.System) - (start.User + start.System),
		MaxRSS:   end.MaxRSS - start.MaxRSS,
		InBlock:  end.InBlock - start.InBlock,
		OutBlock: end.OutBlock - start.OutBlock,
	}
}

// Data returns u as a measurement tree rooted at the CPU time.
func (u Usage) Data() model.Data {
	return model.NewData(u.CPUTime, map[int]model.Measurement{
		KeyCPUTime:  model.NewDatum(u.CPUTime),
		KeyMaxRSS:   model.NewDatum(u.MaxRSS),
		KeyInBlock:  model.NewDatum(u.InBlock),
		KeyOutBlock: model.NewDatum(u.OutBlock),
	})
}

// Sampler reads the resource counters of the calling process.
type Sampler interface {
	Sample() (Snapshot, error)
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func() (Snapshot, error)

// Sample calls f.
func (f SamplerFunc) Sample() (Snapshot, error) { return f() }

// Handle identifies an open usage window.
type Handle uint64

// Probe owns the snapshots of its open windows.
type Probe struct {
	sampler Sampler
	logger  *zap.SugaredLogger

	mu   sync.Mutex
	next Handle
	open map[Handle]Snapshot
}

// Option configures a Probe.
type Option func(*Probe)

// WithSampler replaces the platform sampler.
func WithSampler(s Sampler) Option {
	return func(p *Probe) {
		p.sampler = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Probe) {
		p.logger = l
	}
}

// New returns a probe backed by the sampler of the build platform.
func New(opts ...Option) *Probe {
	p := &Probe{
		sampler: newPlatformSampler(),
		logger:  zap.NewNop().Sugar(),
		open:    make(map[Handle]Snapshot),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartUsage samples the counters and opens a window.
func (p *Probe) StartUsage() (Handle, error) {
	snap, err := p.sampler.Sample()
	if err != nil {
		return 0, fmt.Errorf("start usage: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	h := p.next
	p.open[h] = snap
	p.logger.Debugw("usage window opened", "handle", h, "open", len(p.open))
	return h, nil
}

// EndUsage samples the counters again and returns the delta against the
// snapshot held by h. The handle is released before sampling, so it is
// consumed even when the second sample fails.
func (p *Probe) EndUsage(h Handle) (Usage, error) {
	p.mu.Lock()
	start, ok := p.open[h]
	delete(p.open, h)
	p.mu.Unlock()

	if !ok {
		return Usage{}, fmt.Errorf("end usage %d: %w", h, ErrUnknownHandle)
	}

	end, err := p.sampler.Sample()
	if err != nil {
		return Usage{}, fmt.Errorf("end usage %d: %w", h, err)
	}

	u := Delta(start, end)
	p.logger.Debugw("usage window closed", "handle", h, "cpu_us", u.CPUTime, "maxrss_delta", u.MaxRSS)
	return u, nil
}

// Open returns the number of windows that were started and not yet ended.
func (p *Probe) Open() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.open)
}

// Measure runs work inside a usage window. The window is ended on every
// exit path, including a panic in work, which is re-raised afterwards.
// Errors of work and of the probe are combined.
func (p *Probe) Measure(work func() error) (u Usage, err error) {
	h, err := p.StartUsage()
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		var endErr error
		u, endErr = p.EndUsage(h)
		err = multierr.Append(err, endErr)
	}()
	return Usage{}, work()
}

var std = New()

// StartUsage opens a window on the default probe.
func StartUsage() (Handle, error) { return std.StartUsage() }

// EndUsage closes a window of the default probe.
func EndUsage(h Handle) (Usage, error) { return std.EndUsage(h) }
