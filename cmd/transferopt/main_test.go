package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/transferopt/optimizer"
)

func run(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.ExecuteContext(context.Background())

	return buf.String(), err
}

func quietConfig() Config {
	return Config{Algorithm: "ilp", TimeLimit: 2 * time.Second, LogLevel: "error"}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TRANSFEROPT_DB", "/tmp/x.db")
	t.Setenv("TRANSFEROPT_ALGO", "genetic")
	t.Setenv("TRANSFEROPT_TIME_LIMIT", "1m")
	t.Setenv("TRANSFEROPT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, Config{DB: "/tmp/x.db", Algorithm: "genetic", TimeLimit: time.Minute, LogLevel: "warn"}, cfg)

	t.Setenv("TRANSFEROPT_ALGO", "simplex")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("TRANSFEROPT_ALGO", "ilp")
	t.Setenv("TRANSFEROPT_TIME_LIMIT", "soon")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"TRANSFEROPT_DB", "TRANSFEROPT_ALGO", "TRANSFEROPT_TIME_LIMIT", "TRANSFEROPT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, Config{Algorithm: "ilp", TimeLimit: 10 * time.Second, LogLevel: "info"}, cfg)
}

// TestGenerateSolveCompare drives the three commands over one JSON snapshot.
func TestGenerateSolveCompare(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snapshot.json")
	result := filepath.Join(dir, "result.json")

	_, err := run(t, quietConfig(), "generate", "--students", "25", "--seed", "9", "--out", snap)
	require.NoError(t, err)

	_, err = run(t, quietConfig(), "solve", "--in", snap, "--algo", "greedy", "--out", result)
	require.NoError(t, err)

	raw, err := os.ReadFile(result)
	require.NoError(t, err)
	var res optimizer.Result
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Equal(t, optimizer.Greedy, res.Algorithm)
	require.Equal(t, optimizer.StatusHeuristic, res.Status)
	require.NotEmpty(t, res.AcceptedRequestIDs)

	out, err := run(t, quietConfig(), "compare", "--in", snap, "--algos", "ilp,greedy")
	require.NoError(t, err)
	require.Contains(t, out, "ALGORITHM")
	require.Contains(t, out, "ilp")
	require.Contains(t, out, "greedy")
}

// TestGenerateIntoDatabase seeds a sqlite file and solves from it.
func TestGenerateIntoDatabase(t *testing.T) {
	cfg := quietConfig()
	cfg.DB = filepath.Join(t.TempDir(), "transfers.db")

	out, err := run(t, cfg, "generate", "--students", "15")
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = run(t, cfg, "solve", "--algo", "ilp")
	require.NoError(t, err)
	var res optimizer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Contains(t, []optimizer.Status{optimizer.StatusOptimal, optimizer.StatusSuboptimal}, res.Status)
}

func TestSolveErrors(t *testing.T) {
	_, err := run(t, quietConfig(), "solve")
	require.ErrorIs(t, err, errNoInput)

	_, err = run(t, quietConfig(), "solve", "--in", "missing.json", "--algo", "simplex")
	require.Error(t, err)

	_, err = run(t, quietConfig(), "compare", "--in", "missing.json", "--algos", "lp")
	require.ErrorIs(t, err, optimizer.ErrUnsupportedAlgorithm)
}
