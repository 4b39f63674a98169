package config

import (
	"encoding/json"
	"os"

	"github.com/spf13/pflag"
)

type fileJSON struct {
	Workload     *string `json:"workload"`
	Repetitions  *int    `json:"repetitions"`
	Rounds       *int    `json:"rounds"`
	LogLevel     *string `json:"log_level"`
	RuntimeStats *bool   `json:"runtime_stats"`
}

func loadJSON(path string) (*fileJSON, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c fileJSON
	return &c, json.Unmarshal(b, &c)
}

// apply copies the file values whose flags were not given explicitly.
func (js *fileJSON) apply(cfg *Config, fs *pflag.FlagSet) {
	if js.Workload != nil && !fs.Changed("workload") {
		cfg.Workload = *js.Workload
	}
	if js.Repetitions != nil && !fs.Changed("repetitions") {
		cfg.Repetitions = *js.Repetitions
	}
	if js.Rounds != nil && !fs.Changed("rounds") {
		cfg.Rounds = *js.Rounds
	}
	if js.LogLevel != nil && !fs.Changed("log-level") {
		cfg.LogLevel = *js.LogLevel
	}
	if js.RuntimeStats != nil && !fs.Changed("runtime-stats") {
		cfg.RuntimeStats = *js.RuntimeStats
	}
}
