package probe_test

import (
	"fmt"

	"github.com/and161185/telemetry-core/probe"
)

func ExampleProbe_Measure() {
	samples := []probe.Snapshot{
		{User: 1_000, System: 200, MaxRSS: 8 << 20},
		{User: 1_750, System: 250, MaxRSS: 9 << 20, OutBlock: 4},
	}
	p := probe.New(probe.WithSampler(probe.SamplerFunc(func() (probe.Snapshot, error) {
		s := samples[0]
		samples = samples[1:]
		return s, nil
	})))

	u, err := p.Measure(func() error { return nil })
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(u.CPUTime, u.MaxRSS, u.OutBlock, p.Open())
	// Output: 800 1048576 4 0
}
