package core

// validation.go decides whether one raw field is a usable number.
//
// Rules are applied in order and the first match wins:
//  1. Row has no fields at all            -> "empty row"
//  2. Trimmed field is empty or missing   -> "empty value"
//  3. Trimmed field is not all ASCII digits -> "not a positive integer"
//  4. Number outside [Min, Max]           -> "out of range MIN-MAX"
//
// Failures are returned as data in a Result, never as errors.

import (
	"fmt"
	"strconv"
	"strings"
)

// Result is the outcome of validating one field: either an accepted number
// or a rejection. Use OK to tell them apart.
type Result struct {
	Value     int64
	Rejection Rejection
	ok        bool
}

// OK reports whether the field was accepted.
func (r Result) OK() bool {
	return r.ok
}

func accept(n int64) Result {
	return Result{Value: n, ok: true}
}

func reject(line int, raw string, code ReasonCode, reason string) Result {
	return Result{Rejection: Rejection{Line: line, Raw: raw, Reason: reason, Code: code}}
}

// ValidateRow validates the field at position col of a row.
// A row with no fields is an empty row; a row shorter than col+1 has an
// absent field.
func ValidateRow(row []string, col int, line int, s Settings) Result {
	if len(row) == 0 {
		return reject(line, "", CodeEmptyRow, "empty row")
	}
	if col < 0 || col >= len(row) {
		return ValidateField("", false, line, s)
	}
	return ValidateField(row[col], true, line, s)
}

// ValidateField validates a single raw field. present is false when the
// column does not exist on that row.
func ValidateField(raw string, present bool, line int, s Settings) Result {
	value := strings.TrimSpace(raw)
	if !present || value == "" {
		return reject(line, raw, CodeEmptyValue, "empty value")
	}

	if !isDigits(value) {
		return reject(line, raw, CodeNotInteger, "not a positive integer")
	}

	// All digits, so the only possible failure is overflow, which is out of
	// range for any int64 bounds.
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < s.Min || n > s.Max {
		return reject(line, raw, CodeOutOfRange, fmt.Sprintf("out of range %s", s.RangeLabel()))
	}

	return accept(n)
}

// isDigits reports whether s is non-empty and made only of ASCII 0-9.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// missingHeader and missingColumn build the structural rejections reported
// at line 1.
func missingHeader() Rejection {
	return Rejection{Line: 1, Reason: "missing header row", Code: CodeMissingHeader}
}

func missingColumn(label string) Rejection {
	return Rejection{Line: 1, Reason: fmt.Sprintf("missing column '%s'", label), Code: CodeMissingColumn}
}
