// Package config provides the benchrun configuration and logger setup.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config holds the settings of a benchrun invocation.
type Config struct {
	Workload     string // Name of the workload to time
	Repetitions  int    // Calls of the workload per round
	Rounds       int    // Number of timed rounds
	LogLevel     string // zap level name
	RuntimeStats bool   // Whether to include Go runtime statistics
	Logger       *zap.SugaredLogger
}

// NewConfig builds the configuration from defaults, an optional JSON file,
// command line flags and environment variables. Flags win over the file,
// the environment wins over everything.
func NewConfig(name string, args []string) (*Config, error) {
	cfg := &Config{
		Workload:    "sha256",
		Repetitions: 1000,
		Rounds:      3,
		LogLevel:    "info",
	}

	var confPath string
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVarP(&cfg.Workload, "workload", "w", cfg.Workload, "workload to benchmark")
	fs.IntVarP(&cfg.Repetitions, "repetitions", "n", cfg.Repetitions, "calls of the workload per round")
	fs.IntVarP(&cfg.Rounds, "rounds", "r", cfg.Rounds, "number of timed rounds")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.RuntimeStats, "runtime-stats", false, "report Go runtime statistics")
	fs.StringVarP(&confPath, "config", "c", "", "path to JSON config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if confPath == "" {
		confPath = os.Getenv("CONFIG")
	}
	if confPath != "" {
		js, err := loadJSON(confPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		js.apply(cfg, fs)
	}

	readEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger

	return cfg, nil
}

func readEnvironment(cfg *Config) {
	if w := os.Getenv("WORKLOAD"); w != "" {
		cfg.Workload = w
	}

	if env := os.Getenv("REPETITIONS"); env != "" {
		v, err := strconv.Atoi(env)
		if err == nil {
			cfg.Repetitions = v
		} else {
			log.Printf("invalid REPETITIONS env var: %v", err)
		}
	}

	if env := os.Getenv("ROUNDS"); env != "" {
		v, err := strconv.Atoi(env)
		if err == nil {
			cfg.Rounds = v
		} else {
			log.Printf("invalid ROUNDS env var: %v", err)
		}
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	if env := os.Getenv("RUNTIME_STATS"); env != "" {
		v, err := strconv.ParseBool(env)
		if err == nil {
			cfg.RuntimeStats = v
		} else {
			log.Printf("invalid RUNTIME_STATS env var: %v", err)
		}
	}
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var err error
	if cfg.Workload == "" {
		err = multierr.Append(err, errors.New("workload is required"))
	}
	if cfg.Repetitions <= 0 {
		err = multierr.Append(err, fmt.Errorf("repetitions must be positive, got %d", cfg.Repetitions))
	}
	if cfg.Rounds <= 0 {
		err = multierr.Append(err, fmt.Errorf("rounds must be positive, got %d", cfg.Rounds))
	}
	if _, lerr := zap.ParseAtomicLevel(cfg.LogLevel); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	return err
}

// NewLogger builds a production zap logger writing to stdout at the given level.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = lvl
	logCfg.OutputPaths = []string{"stdout"}

	logger, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}
