// Package config provides centralized configuration management for the application.
// Values come from struct defaults, an optional YAML file and environment
// variables, in that order, and are validated once after loading.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AnalysisConfig holds the settings of a CSV analysis run.
type AnalysisConfig struct {
	// Input is the CSV file to analyze (default: data.csv)
	Input string `env:"ANALYZER_INPUT" default:"data.csv" yaml:"input"`

	// Delimiter is the field separator; "\t" or "tab" selects a tab (default: ;)
	Delimiter string `env:"ANALYZER_DELIMITER" default:";" yaml:"delimiter"`

	// Column is the header name of the numeric column (default: value)
	Column string `env:"ANALYZER_COLUMN" default:"value" yaml:"column"`

	// ColumnIndex is a 1-based column position; 0 means look up Column by name
	ColumnIndex int `env:"ANALYZER_COLUMN_INDEX" default:"0" yaml:"column_index"`

	// Threshold splits valid values into low (<=) and high (>) (default: 25)
	Threshold int64 `env:"ANALYZER_THRESHOLD" default:"25" yaml:"threshold"`

	// Min is the inclusive lower bound of valid values (default: 1)
	Min int64 `env:"ANALYZER_MIN" default:"1" yaml:"min"`

	// Max is the inclusive upper bound of valid values (default: 100)
	Max int64 `env:"ANALYZER_MAX" default:"100" yaml:"max"`

	// OutDir receives report.txt, report_long.csv and invalid_rows.csv (default: outputs)
	OutDir string `env:"ANALYZER_OUTDIR" default:"outputs" yaml:"outdir"`

	// Encoding is the input text encoding (default: utf-8)
	Encoding string `env:"ANALYZER_ENCODING" default:"utf-8" yaml:"encoding"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1" yaml:"host"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080" yaml:"port"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s" yaml:"write_timeout"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s" yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s" yaml:"shutdown_timeout"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s" yaml:"request_timeout"`

	// MaxUploadSize is the maximum accepted request body in bytes (default: 10MB)
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" default:"10485760" yaml:"max_upload_size"`

	// MaxConcurrent is the number of uploads analyzed at once; 0 disables the limit (default: 4)
	MaxConcurrent int `env:"SERVER_MAX_CONCURRENT" default:"4" yaml:"max_concurrent"`

	// MaxWait is how long an upload waits for a free slot before 503 (default: 10s)
	MaxWait time.Duration `env:"SERVER_MAX_WAIT" default:"10s" yaml:"max_wait"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info" yaml:"level"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text" yaml:"format"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Settings converts the analysis options into core settings.
func (c *AnalysisConfig) Settings() (core.Settings, error) {
	delim, err := core.ParseDelimiter(c.Delimiter)
	if err != nil {
		return core.Settings{}, err
	}
	s := core.Settings{
		Column:      strings.TrimSpace(c.Column),
		ColumnIndex: c.ColumnIndex,
		Threshold:   c.Threshold,
		Min:         c.Min,
		Max:         c.Max,
		Delimiter:   delim,
		Encoding:    c.Encoding,
	}
	if err := s.Validate(); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Analysis validation
	if strings.TrimSpace(c.Analysis.Input) == "" {
		errs = append(errs, "ANALYZER_INPUT must not be empty")
	}
	if strings.TrimSpace(c.Analysis.OutDir) == "" {
		errs = append(errs, "ANALYZER_OUTDIR must not be empty")
	}
	if _, err := c.Analysis.Settings(); err != nil {
		errs = append(errs, strings.TrimPrefix(err.Error(), core.ErrInvalidSettings.Error()+": "))
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, "SERVER_MAX_UPLOAD_SIZE must be positive")
	}
	if c.Server.MaxConcurrent < 0 {
		errs = append(errs, "SERVER_MAX_CONCURRENT must be non-negative")
	}
	if c.Server.MaxWait < 0 {
		errs = append(errs, "SERVER_MAX_WAIT must be non-negative")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Analysis: {Input: %q, Column: %q, ColumnIndex: %d, Range: %d-%d, Threshold: %d, Delimiter: %q, Encoding: %q, OutDir: %q}, ",
		c.Analysis.Input, c.Analysis.Column, c.Analysis.ColumnIndex, c.Analysis.Min, c.Analysis.Max,
		c.Analysis.Threshold, c.Analysis.Delimiter, c.Analysis.Encoding, c.Analysis.OutDir))
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d, MaxUploadSize: %d, MaxConcurrent: %d}, ",
		c.Server.Host, c.Server.Port, c.Server.MaxUploadSize, c.Server.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
