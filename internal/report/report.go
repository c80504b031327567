// Package report renders an analysis as text, CSV, JSON and console output.
//
// The text and CSV layouts are stable: downstream tooling reads
// report_long.csv and invalid_rows.csv by header name, and report.txt is
// compared line by line in tests.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

// Output file names inside the output directory.
const (
	TextFile    = "report.txt"
	ValuesFile  = "report_long.csv"
	InvalidFile = "invalid_rows.csv"
)

// Paths lists the files written by WriteAll.
type Paths struct {
	Text    string
	Values  string
	Invalid string
}

// All returns the paths in the order they are announced to the user.
func (p Paths) All() []string {
	return []string{p.Text, p.Values, p.Invalid}
}

// WriteAll creates dir if needed and writes the three report files into it.
// Files that already exist are overwritten.
func WriteAll(dir string, a *core.Analysis, delim rune) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output directory %s: %w", dir, err)
	}

	p := Paths{
		Text:    filepath.Join(dir, TextFile),
		Values:  filepath.Join(dir, ValuesFile),
		Invalid: filepath.Join(dir, InvalidFile),
	}

	if err := writeFile(p.Text, func(f *os.File) error { return WriteText(f, a) }); err != nil {
		return Paths{}, err
	}
	if err := writeFile(p.Values, func(f *os.File) error { return WriteValuesCSV(f, a, delim) }); err != nil {
		return Paths{}, err
	}
	if err := writeFile(p.Invalid, func(f *os.File) error { return WriteInvalidCSV(f, a, delim) }); err != nil {
		return Paths{}, err
	}
	return p, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// joinNumbers renders numbers as "5, 30".
func joinNumbers(numbers []int64) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, ", ")
}

// listNumbers renders numbers as "[5, 30]".
func listNumbers(numbers []int64) string {
	return "[" + joinNumbers(numbers) + "]"
}
