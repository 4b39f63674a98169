// Package runtimestats exposes Go runtime statistics as a Quantifiable.
package runtimestats

import (
	"fmt"
	"runtime"

	"github.com/and161185/telemetry-core/meter"
	"github.com/and161185/telemetry-core/model"
)

// Keys of the tree returned by TakeMeasurement.
const (
	KeyAlloc = iota
	KeyHeapAlloc
	KeyHeapObjects
	KeySys
	KeyNumGC
	KeyPauseTotalNs
	KeyNumGoroutine
	KeyPolls
	KeyConfig
)

// Config is the part of the runtime setup tracked for changes.
type Config struct {
	GOMAXPROCS int
	NumCPU     int
	GOOS       string
	GOARCH     string
	Version    string
}

func currentConfig() Config {
	return Config{
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		NumCPU:     runtime.NumCPU(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		Version:    runtime.Version(),
	}
}

// Collector samples runtime.MemStats into gauges on every measurement.
type Collector struct {
	gauges map[int]*meter.Gauge
	polls  *meter.Gauge
	config *meter.State[Config]
}

// NewCollector returns a collector with zeroed gauges.
func NewCollector() *Collector {
	c := &Collector{
		gauges: make(map[int]*meter.Gauge),
		polls:  meter.NewGauge(0),
	}
	for _, k := range []int{KeyAlloc, KeyHeapAlloc, KeyHeapObjects, KeySys, KeyNumGC, KeyPauseTotalNs, KeyNumGoroutine} {
		c.gauges[k] = meter.NewGauge(0)
	}
	cfg, err := meter.NewState(currentConfig())
	mustTrack(err)
	c.config = cfg
	return c
}

// TakeMeasurement polls the runtime. The root is the poll count since the last ResetPolls.
func (c *Collector) TakeMeasurement() model.Data {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.gauges[KeyAlloc].Adjust(int64(m.Alloc))
	c.gauges[KeyHeapAlloc].Adjust(int64(m.HeapAlloc))
	c.gauges[KeyHeapObjects].Adjust(int64(m.HeapObjects))
	c.gauges[KeySys].Adjust(int64(m.Sys))
	c.gauges[KeyNumGC].Adjust(int64(m.NumGC))
	c.gauges[KeyPauseTotalNs].Adjust(int64(m.PauseTotalNs))
	c.gauges[KeyNumGoroutine].Adjust(int64(runtime.NumGoroutine()))
	c.polls.Update(1)
	mustTrack(c.config.Set(currentConfig()))

	points := make(map[int]model.Measurement, len(c.gauges)+2)
	for k, g := range c.gauges {
		points[k] = g.Reading()
	}
	points[KeyPolls] = c.polls.Reading()
	points[KeyConfig] = c.config.Reading()

	return model.NewData(c.polls.Reading().Measure(), points)
}

// mustTrack panics on a Config that cannot be hashed. Config holds only
// strings and ints, so an error here is a programming error.
func mustTrack(err error) {
	if err != nil {
		panic(fmt.Errorf("runtimestats: tracking runtime config: %w", err))
	}
}

// ResetPolls returns the poll count and clears it.
func (c *Collector) ResetPolls() int64 {
	return c.polls.Count().Measure()
}
