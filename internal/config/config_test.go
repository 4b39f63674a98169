package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benchrun.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig("benchrun", nil)
	require.NoError(t, err)
	require.Equal(t, "sha256", cfg.Workload)
	require.Equal(t, 1000, cfg.Repetitions)
	require.Equal(t, 3, cfg.Rounds)
	require.False(t, cfg.RuntimeStats)
	require.NotNil(t, cfg.Logger)
}

func TestNewConfig_Flags(t *testing.T) {
	cfg, err := NewConfig("benchrun", []string{"-w", "alloc", "-n", "50", "--rounds=2", "--runtime-stats", "-l", "debug"})
	require.NoError(t, err)
	require.Equal(t, "alloc", cfg.Workload)
	require.Equal(t, 50, cfg.Repetitions)
	require.Equal(t, 2, cfg.Rounds)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.RuntimeStats)
}

func TestNewConfig_BadFlag(t *testing.T) {
	_, err := NewConfig("benchrun", []string{"--no-such-flag"})
	require.Error(t, err)
}

func TestReadEnvironment(t *testing.T) {
	env := map[string]string{
		"WORKLOAD":      "noop",
		"REPETITIONS":   "7",
		"ROUNDS":        "4",
		"LOG_LEVEL":     "warn",
		"RUNTIME_STATS": "true",
	}
	setEnv(t, env)
	cfg := &Config{}
	readEnvironment(cfg)
	require.Equal(t, "noop", cfg.Workload)
	require.Equal(t, 7, cfg.Repetitions)
	require.Equal(t, 4, cfg.Rounds)
	require.Equal(t, "warn", cfg.LogLevel)
	require.True(t, cfg.RuntimeStats)
}

func TestReadEnvironment_Invalid(t *testing.T) {
	env := map[string]string{
		"REPETITIONS":   "many",
		"ROUNDS":        "x",
		"RUNTIME_STATS": "nope",
	}
	setEnv(t, env)
	cfg := &Config{Repetitions: 5, Rounds: 2}
	readEnvironment(cfg)
	require.Equal(t, 5, cfg.Repetitions)
	require.Equal(t, 2, cfg.Rounds)
	require.False(t, cfg.RuntimeStats)
}

func TestNewConfig_EnvOverridesFlags(t *testing.T) {
	setEnv(t, map[string]string{"REPETITIONS": "9"})
	cfg, err := NewConfig("benchrun", []string{"-n", "50"})
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Repetitions)
}

func TestNewConfig_JSONFile(t *testing.T) {
	path := writeJSON(t, `{"workload":"alloc","repetitions":20,"rounds":5,"runtime_stats":true}`)

	cfg, err := NewConfig("benchrun", []string{"-c", path, "-n", "30"})
	require.NoError(t, err)
	require.Equal(t, "alloc", cfg.Workload)
	require.Equal(t, 30, cfg.Repetitions, "explicit flag wins over file")
	require.Equal(t, 5, cfg.Rounds)
	require.True(t, cfg.RuntimeStats)
}

func TestNewConfig_JSONFromEnv(t *testing.T) {
	path := writeJSON(t, `{"rounds":8}`)
	setEnv(t, map[string]string{"CONFIG": path})
	cfg, err := NewConfig("benchrun", nil)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Rounds)
}

func TestNewConfig_EnvScopedToTest(t *testing.T) {
	before, had := os.LookupEnv("ROUNDS")
	t.Run("override", func(t *testing.T) {
		setEnv(t, map[string]string{"ROUNDS": "6"})
		cfg, err := NewConfig("benchrun", nil)
		require.NoError(t, err)
		require.Equal(t, 6, cfg.Rounds)
	})

	after, has := os.LookupEnv("ROUNDS")
	require.Equal(t, had, has)
	require.Equal(t, before, after)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig("benchrun", []string{"-c", filepath.Join(t.TempDir(), "absent.json")})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{"valid", Config{Workload: "noop", Repetitions: 1, Rounds: 1, LogLevel: "info"}, nil},
		{"no_workload", Config{Repetitions: 1, Rounds: 1, LogLevel: "info"}, []string{"workload is required"}},
		{
			"everything_wrong",
			Config{Workload: "noop", Repetitions: 0, Rounds: -1, LogLevel: "loud"},
			[]string{"repetitions must be positive", "rounds must be positive", "loud"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tc.wantErr {
				require.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = NewLogger("verbose")
	require.Error(t, err)
}
