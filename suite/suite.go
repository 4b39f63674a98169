// Package suite runs benchmarks inside resource usage windows and keeps
// the results as one Quantifiable measurement tree.
package suite

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/telemetry-core/benchmark"
	"github.com/and161185/telemetry-core/meter"
	"github.com/and161185/telemetry-core/model"
	"github.com/and161185/telemetry-core/probe"
)

// Keys of a run's Data tree. The probe keys are absent when the
// platform cannot report resource usage.
const (
	KeyElapsed = iota
	KeyRepetitions
	KeyCPUTime
	KeyMaxRSS
	KeyInBlock
	KeyOutBlock
)

// Suite collects benchmark runs by operation key.
type Suite struct {
	bench  *benchmark.Benchmark
	probe  *probe.Probe
	logger *zap.SugaredLogger

	runs    *meter.Counter
	results map[int]model.Data
}

// Option configures a Suite.
type Option func(*Suite)

// WithBenchmark replaces the timing harness.
func WithBenchmark(b *benchmark.Benchmark) Option {
	return func(s *Suite) {
		s.bench = b
	}
}

// WithProbe replaces the resource probe.
func WithProbe(p *probe.Probe) Option {
	return func(s *Suite) {
		s.probe = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Suite) {
		s.logger = l
	}
}

// New returns an empty suite.
func New(opts ...Option) *Suite {
	s := &Suite{
		logger:  zap.NewNop().Sugar(),
		runs:    meter.NewCounter(0),
		results: make(map[int]model.Data),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bench == nil {
		s.bench = benchmark.New()
	}
	if s.probe == nil {
		s.probe = probe.New(probe.WithLogger(s.logger))
	}
	return s
}

// Run times repetitions calls of work inside a usage window and stores the
// result under key, replacing an earlier run with the same key.
// The returned tree is rooted at the elapsed microseconds.
func (s *Suite) Run(key, repetitions int, work func()) (model.Data, error) {
	h, err := s.probe.StartUsage()
	switch {
	case errors.Is(err, probe.ErrUnsupported):
		s.logger.Debugw("resource usage unsupported, reporting time only", "key", key)
		return s.store(key, repetitions, s.bench.Test(repetitions, work), nil), nil
	case err != nil:
		return model.Data{}, fmt.Errorf("run %d: %w", key, err)
	}

	elapsed, usage, err := s.window(h, repetitions, work)
	if err != nil {
		return model.Data{}, fmt.Errorf("run %d: %w", key, err)
	}
	return s.store(key, repetitions, elapsed, &usage), nil
}

// window runs the benchmark and ends h on every exit path.
func (s *Suite) window(h probe.Handle, repetitions int, work func()) (elapsed model.Datum, u probe.Usage, err error) {
	defer func() {
		u, err = s.probe.EndUsage(h)
	}()
	elapsed = s.bench.Test(repetitions, work)
	return elapsed, probe.Usage{}, nil
}

func (s *Suite) store(key, repetitions int, elapsed model.Datum, usage *probe.Usage) model.Data {
	points := map[int]model.Measurement{
		KeyElapsed:     elapsed,
		KeyRepetitions: model.NewDatum(int64(repetitions)),
	}
	if usage != nil {
		points[KeyCPUTime] = model.NewDatum(usage.CPUTime)
		points[KeyMaxRSS] = model.NewDatum(usage.MaxRSS)
		points[KeyInBlock] = model.NewDatum(usage.InBlock)
		points[KeyOutBlock] = model.NewDatum(usage.OutBlock)
	}
	res := model.NewData(elapsed.Measure(), points)

	s.results[key] = res
	s.runs.Increment(1)
	s.logger.Infow("benchmark run",
		"key", key,
		"repetitions", repetitions,
		"elapsed_us", elapsed.Measure(),
		"resource_usage", usage != nil,
	)
	return res
}

// Result returns the stored run for key.
func (s *Suite) Result(key int) (model.Data, bool) {
	d, ok := s.results[key]
	return d, ok
}

// Runs returns how many runs completed.
func (s *Suite) Runs() model.Datum { return s.runs.Reading() }

// TakeMeasurement returns the number of runs as root and every stored run
// as a child under its key.
func (s *Suite) TakeMeasurement() model.Data {
	points := make(map[int]model.Measurement, len(s.results))
	for k, v := range s.results {
		points[k] = v
	}
	return model.NewData(s.Runs().Measure(), points)
}
