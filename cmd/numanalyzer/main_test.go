package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/numanalyzer/internal/config"
	"github.com/JonMunkholm/numanalyzer/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_WritesReports(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "value\n5\n150\nabc\n\"\"\n30\n")
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "--input", input, "--outdir", outDir, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Valid numbers: [5, 30]")
	assert.Contains(t, out, "Average: 17.5")
	assert.Contains(t, out, "Low (<= 25): [5]")
	assert.Contains(t, out, "Saved:")
	assert.Contains(t, out, filepath.Join(outDir, "report.txt"))

	text, err := os.ReadFile(filepath.Join(outDir, "report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "Line 3: '150' -> out of range 1-100")

	long, err := os.ReadFile(filepath.Join(outDir, "report_long.csv"))
	require.NoError(t, err)
	assert.Equal(t, "value;category;threshold\r\n5;low;25\r\n30;high;25\r\n", string(long))

	invalid, err := os.ReadFile(filepath.Join(outDir, "invalid_rows.csv"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(invalid), "\r\n"))
}

func TestAnalyze_Subcommand(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "value\n10\n")

	out, err := run(t, "analyze", "--input", input, "--outdir", filepath.Join(dir, "o"), "--quiet", "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(dir, "o", "report.txt"))
}

func TestAnalyze_NoValidNumbersStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "amount\n1\n")

	out, err := run(t, "--input", input, "--outdir", filepath.Join(dir, "o"), "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "No valid numbers found.")
	assert.Contains(t, out, "First issue: Line 1 -> missing column 'value'")
}

func TestAnalyze_FlagsBeatEnvironment(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "n,value\n1,40\n")
	t.Setenv("ANALYZER_THRESHOLD", "50")
	t.Setenv("ANALYZER_DELIMITER", ",")

	out, err := run(t, "--input", input, "--outdir", filepath.Join(dir, "o"), "--threshold", "30", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "High (> 30): [40]")
}

func TestAnalyze_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "--input", filepath.Join(dir, "missing.csv"), "--outdir", filepath.Join(dir, "o"), "--log-level", "error")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInputNotFound)
	assert.Equal(t, "FILE001", core.MapError(err).Code)
	assert.NoDirExists(t, filepath.Join(dir, "o"))
}

func TestAnalyze_InvalidFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "value\n1\n")

	_, err := run(t, "--input", input, "--min", "10", "--max", "5", "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, "CFG001", core.MapError(err).Code)
}

func TestAnalyze_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "value\n1\nx\n")
	promFile := filepath.Join(dir, "numanalyzer.prom")

	_, err := run(t, "--input", input, "--outdir", filepath.Join(dir, "o"), "--quiet", "--metrics-file", promFile, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "numanalyzer_rows_total")
}

func TestAddrOverride(t *testing.T) {
	tests := []struct {
		addr     string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{addr: "127.0.0.1:9000", wantHost: "127.0.0.1", wantPort: 9000},
		{addr: ":8081", wantHost: "", wantPort: 8081},
		{addr: "localhost", wantErr: true},
		{addr: "localhost:http", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			o, err := addrOverride(tt.addr)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "CFG001", core.MapError(err).Code)
				return
			}
			require.NoError(t, err)

			var cfg config.Config
			o(&cfg)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
			assert.Equal(t, tt.wantPort, cfg.Server.Port)
		})
	}
}
