package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

// clearEnv unsets every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvConfigPath,
		"ANALYZER_INPUT", "ANALYZER_DELIMITER", "ANALYZER_COLUMN", "ANALYZER_COLUMN_INDEX",
		"ANALYZER_THRESHOLD", "ANALYZER_MIN", "ANALYZER_MAX", "ANALYZER_OUTDIR", "ANALYZER_ENCODING",
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "SERVER_REQUEST_TIMEOUT",
		"SERVER_MAX_UPLOAD_SIZE", "SERVER_MAX_CONCURRENT", "SERVER_MAX_WAIT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analysis.Input != "data.csv" {
		t.Errorf("Analysis.Input = %q, want %q", cfg.Analysis.Input, "data.csv")
	}
	if cfg.Analysis.Delimiter != ";" {
		t.Errorf("Analysis.Delimiter = %q, want %q", cfg.Analysis.Delimiter, ";")
	}
	if cfg.Analysis.Column != "value" {
		t.Errorf("Analysis.Column = %q, want %q", cfg.Analysis.Column, "value")
	}
	if cfg.Analysis.Threshold != 25 {
		t.Errorf("Analysis.Threshold = %d, want %d", cfg.Analysis.Threshold, 25)
	}
	if cfg.Analysis.Min != 1 || cfg.Analysis.Max != 100 {
		t.Errorf("Analysis range = %d-%d, want 1-100", cfg.Analysis.Min, cfg.Analysis.Max)
	}
	if cfg.Analysis.OutDir != "outputs" {
		t.Errorf("Analysis.OutDir = %q, want %q", cfg.Analysis.OutDir, "outputs")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.MaxUploadSize != 10485760 {
		t.Errorf("Server.MaxUploadSize = %d, want %d", cfg.Server.MaxUploadSize, 10485760)
	}
	if cfg.Server.MaxConcurrent != 4 {
		t.Errorf("Server.MaxConcurrent = %d, want %d", cfg.Server.MaxConcurrent, 4)
	}
	if cfg.Server.MaxWait != 10*time.Second {
		t.Errorf("Server.MaxWait = %v, want %v", cfg.Server.MaxWait, 10*time.Second)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANALYZER_THRESHOLD", "40")
	t.Setenv("ANALYZER_DELIMITER", ",")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analysis.Threshold != 40 {
		t.Errorf("Analysis.Threshold = %d, want %d", cfg.Analysis.Threshold, 40)
	}
	if cfg.Analysis.Delimiter != "," {
		t.Errorf("Analysis.Delimiter = %q, want %q", cfg.Analysis.Delimiter, ",")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Duration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "1m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 30*time.Second)
	}
	if cfg.Server.ShutdownTimeout != time.Minute {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, time.Minute)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANALYZER_MIN", "one")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "ANALYZER_MIN") {
		t.Fatalf("Load() error = %v, want mention of ANALYZER_MIN", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
analysis:
  column: amount
  threshold: 10
  delimiter: "\t"
server:
  port: 9000
  request_timeout: 5s
logging:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analysis.Column != "amount" {
		t.Errorf("Analysis.Column = %q, want %q", cfg.Analysis.Column, "amount")
	}
	if cfg.Analysis.Threshold != 10 {
		t.Errorf("Analysis.Threshold = %d, want %d", cfg.Analysis.Threshold, 10)
	}
	if cfg.Analysis.Min != 1 {
		t.Errorf("Analysis.Min = %d, want default 1", cfg.Analysis.Min)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 5s", cfg.Server.RequestTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}

	s, err := cfg.Analysis.Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if s.Delimiter != '\t' {
		t.Errorf("Delimiter = %q, want tab", s.Delimiter)
	}
}

func TestLoad_EnvBeatsFileAndOverrideBeatsEnv(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "analysis:\n  threshold: 10\n  max: 50\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv("ANALYZER_THRESHOLD", "20")
	t.Setenv("ANALYZER_MAX", "60")

	cfg, err := Load("", func(c *Config) { c.Analysis.Max = 70 })
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analysis.Threshold != 20 {
		t.Errorf("Analysis.Threshold = %d, want env value 20", cfg.Analysis.Threshold)
	}
	if cfg.Analysis.Max != 70 {
		t.Errorf("Analysis.Max = %d, want override value 70", cfg.Analysis.Max)
	}
}

func TestLoad_YAMLUnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "analysis:\n  colum: value\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject unknown keys")
	}
}

func TestLoad_YAMLEmptyFile(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "")

	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want not-exist", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() should fail with invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
	if got := core.MapError(err).Code; got != "CFG001" {
		t.Errorf("MapError code = %q, want CFG001", got)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	clearEnv(t)

	_, err := Load("", func(c *Config) {
		c.Analysis.Min = 10
		c.Analysis.Max = 5
		c.Analysis.Delimiter = ";;"
		c.Logging.Format = "xml"
	})
	if err == nil {
		t.Fatal("Load() should fail")
	}
	for _, want := range []string{"delimiter", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q: %v", want, err)
		}
	}
}

func TestValidate_MinAboveMax(t *testing.T) {
	clearEnv(t)

	_, err := Load("", func(c *Config) { c.Analysis.Min, c.Analysis.Max = 10, 5 })
	if err == nil || !strings.Contains(err.Error(), "min (10) must be <= max (5)") {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() should fail with invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"localhost", 3000, "localhost:3000"},
		{"", 8080, ":8080"},
	}

	for _, tt := range tests {
		cfg := ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestAnalysisSettings(t *testing.T) {
	c := AnalysisConfig{Column: " amount ", ColumnIndex: 0, Threshold: 5, Min: 0, Max: 9, Delimiter: "tab", Encoding: "latin1"}

	s, err := c.Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	want := core.Settings{Column: "amount", Threshold: 5, Min: 0, Max: 9, Delimiter: '\t', Encoding: "latin1"}
	if s != want {
		t.Errorf("Settings() = %+v, want %+v", s, want)
	}
}

func TestConfigString(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	str := cfg.String()
	for _, want := range []string{`Input: "data.csv"`, "Range: 1-100", "Port: 8080"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() missing %q: %s", want, str)
		}
	}
}
