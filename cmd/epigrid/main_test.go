package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "run", "--data-dir", dir, "--grid-size", "20", "--seed", "5",
		"--label", "Small", "--log-level", "error")

	assert.Contains(t, out, "Step: 1 | S: ")
	assert.Contains(t, out, "Total time steps:")
	assert.Contains(t, out, "Run saved to")

	files, err := filepath.Glob(filepath.Join(dir, "Small_*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestBatchAndAnalyze(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "batch", "--data-dir", dir, "--grid-size", "15", "--runs", "3",
		"--seed", "11", "--label", "Trial", "--log-level", "error")
	assert.Contains(t, out, "3 runs")
	assert.Contains(t, out, "Avg Peak Infected:")

	entries, err := os.ReadDir(filepath.Join(dir, "Trial"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	report := execute(t, "analyze", filepath.Join(dir, "Trial"), "--log-level", "error")
	assert.Contains(t, report, "Runs: 3")
	assert.Contains(t, report, "Peak Dead:")
}

func TestBatchReportsOnlyItsOwnRuns(t *testing.T) {
	dir := t.TempDir()
	args := []string{"batch", "--data-dir", dir, "--grid-size", "12", "--runs", "2",
		"--label", "Repeat", "--log-level", "error"}
	execute(t, append(args, "--seed", "3")...)
	out := execute(t, append(args, "--seed", "30")...)

	entries, err := os.ReadDir(filepath.Join(dir, "Repeat"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Contains(t, out, "2 runs")
	assert.Contains(t, out, "Runs: 2 ")
}

func TestRejectsBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--density", "150", "--data-dir", t.TempDir()})
	assert.Error(t, cmd.Execute())
}
