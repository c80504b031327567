package core

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"
)

// Default analysis settings.
const (
	DefaultColumn    = "value"
	DefaultThreshold = 25
	DefaultMin       = 1
	DefaultMax       = 100
	DefaultDelimiter = ';'
	DefaultEncoding  = "utf-8"
)

// Sentinel errors for unrecoverable conditions.
var (
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrInputNotFound       = errors.New("input file not found")
	ErrMalformedCSV        = errors.New("malformed csv")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

// Settings is the immutable configuration of one analysis.
// It is passed by value so a run can never observe changes made elsewhere.
type Settings struct {
	Column      string // Header name of the numeric column
	ColumnIndex int    // 1-based position; when > 0 it replaces name lookup
	Threshold   int64  // Values <= Threshold are "low"
	Min         int64  // Inclusive lower bound of valid values
	Max         int64  // Inclusive upper bound of valid values
	Delimiter   rune   // Field separator
	Encoding    string // Input encoding label, e.g. "utf-8", "windows-1252"
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Column:    DefaultColumn,
		Threshold: DefaultThreshold,
		Min:       DefaultMin,
		Max:       DefaultMax,
		Delimiter: DefaultDelimiter,
		Encoding:  DefaultEncoding,
	}
}

// ColumnLabel returns how the configured column is shown in reports.
func (s Settings) ColumnLabel() string {
	if s.ColumnIndex > 0 {
		return fmt.Sprintf("#%d", s.ColumnIndex)
	}
	return s.Column
}

// RangeLabel returns the valid range as "MIN-MAX".
func (s Settings) RangeLabel() string {
	return fmt.Sprintf("%d-%d", s.Min, s.Max)
}

// Validate checks that the settings describe a runnable analysis.
// All problems are reported together.
func (s Settings) Validate() error {
	var errs []string

	if s.ColumnIndex < 0 {
		errs = append(errs, fmt.Sprintf("column index (%d) must not be negative", s.ColumnIndex))
	}
	if s.ColumnIndex == 0 && strings.TrimSpace(s.Column) == "" {
		errs = append(errs, "column name must not be empty")
	}
	if s.Min > s.Max {
		errs = append(errs, fmt.Sprintf("min (%d) must be <= max (%d)", s.Min, s.Max))
	}
	if !validDelimiter(s.Delimiter) {
		errs = append(errs, fmt.Sprintf("delimiter %q is not usable", s.Delimiter))
	}
	if _, err := lookupEncoding(s.Encoding); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(errs, "; "))
	}
	return nil
}

// ParseDelimiter converts a configured delimiter string to a rune.
// Accepts a single character, or "\t" / "tab" for a tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || !validDelimiter(r[0]) {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", ErrInvalidSettings, s)
	}
	return r[0], nil
}

func validDelimiter(r rune) bool {
	switch r {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return false
	}
	return true
}

// ReasonCode is the machine-readable kind of a rejection.
type ReasonCode string

const (
	CodeMissingHeader ReasonCode = "missing_header"
	CodeMissingColumn ReasonCode = "missing_column"
	CodeEmptyRow      ReasonCode = "empty_row"
	CodeEmptyValue    ReasonCode = "empty_value"
	CodeNotInteger    ReasonCode = "not_integer"
	CodeOutOfRange    ReasonCode = "out_of_range"
)

// Structural reports whether the code stops processing at the header.
func (c ReasonCode) Structural() bool {
	return c == CodeMissingHeader || c == CodeMissingColumn
}

// Rejection records why one input line produced no number.
// Values are never modified after creation.
type Rejection struct {
	Line   int        // Physical line number; 1 is the header
	Raw    string     // Field text exactly as read, before trimming
	Reason string     // Human-readable reason, e.g. "out of range 1-100"
	Code   ReasonCode // Machine-readable reason
}

func (r Rejection) String() string {
	return fmt.Sprintf("Line %d: '%s' -> %s", r.Line, r.Raw, r.Reason)
}

// Partition is the stable split of valid numbers around a threshold.
type Partition struct {
	Low  []int64 // n <= threshold, in input order
	High []int64 // n > threshold, in input order
}

// Statistics summarizes a sequence of valid numbers.
// When HasValues is false, Min and Max are meaningless and must not be shown.
// Sum and Mean are exact; Summarize never leaves them nil.
type Statistics struct {
	Count     int
	Sum       *big.Int
	Mean      *big.Rat // Sum/Count rounded to 2 decimals, half to even
	Min       int64
	Max       int64
	HasValues bool
}

// SumString renders Sum in base 10.
func (st Statistics) SumString() string {
	if st.Sum == nil {
		return "0"
	}
	return st.Sum.String()
}

// MeanString renders Mean with as few decimals as needed, keeping at least
// one ("17.5", "20.0", "0.67").
func (st Statistics) MeanString() string {
	if st.Mean == nil {
		return "0.0"
	}
	s := st.Mean.FloatString(2)
	for strings.HasSuffix(s, "0") && !strings.HasSuffix(s, ".0") {
		s = s[:len(s)-1]
	}
	return s
}

// Analysis is the complete result of one run.
type Analysis struct {
	ID         string
	Source     string
	Settings   Settings
	Valid      []int64
	Partition  Partition
	Stats      Statistics
	Rejections []Rejection
	Structural bool // True when the header stopped the run
	Duration   time.Duration
}

// FirstIssue returns the first rejection, if any.
func (a *Analysis) FirstIssue() (Rejection, bool) {
	if len(a.Rejections) == 0 {
		return Rejection{}, false
	}
	return a.Rejections[0], true
}
