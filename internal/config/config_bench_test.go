package config

import "testing"

func BenchmarkReadEnvironment(b *testing.B) {
	b.Setenv("WORKLOAD", "noop")
	b.Setenv("REPETITIONS", "5")
	b.Setenv("ROUNDS", "2")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg := &Config{}
		readEnvironment(cfg)
	}
}
