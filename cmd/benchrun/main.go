// Command benchrun times a named workload in resource usage windows and
// logs the resulting measurement tree.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/and161185/telemetry-core/internal/buildinfo"
	"github.com/and161185/telemetry-core/internal/config"
	"github.com/and161185/telemetry-core/internal/runtimestats"
	"github.com/and161185/telemetry-core/suite"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var errUnknownWorkload = errors.New("unknown workload")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		panic(err)
	}
}

func run(args []string, stdout io.Writer) error {
	buildinfo.Print(stdout, buildVersion, buildDate, buildCommit)

	cfg, err := config.NewConfig("benchrun", args)
	if err != nil {
		return err
	}
	defer func() { _ = cfg.Logger.Sync() }()

	newWork, ok := workloads[cfg.Workload]
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownWorkload, cfg.Workload)
	}

	cfg.Logger.Infof("Benchmark config: Workload=%s, Repetitions=%d, Rounds=%d, RuntimeStats=%t",
		cfg.Workload,
		cfg.Repetitions,
		cfg.Rounds,
		cfg.RuntimeStats,
	)

	s := suite.New(suite.WithLogger(cfg.Logger))
	work := newWork()
	for round := 0; round < cfg.Rounds; round++ {
		if _, err := s.Run(round, cfg.Repetitions, work); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
	}
	cfg.Logger.Desugar().Info("benchmark complete",
		zap.String("workload", cfg.Workload),
		zap.Object("measurement", dataObject{s.TakeMeasurement()}),
	)

	if cfg.RuntimeStats {
		rs := runtimestats.NewCollector()
		cfg.Logger.Desugar().Info("runtime statistics",
			zap.Object("measurement", dataObject{rs.TakeMeasurement()}),
		)
	}
	return nil
}
