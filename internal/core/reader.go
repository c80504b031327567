package core

// reader.go is the row source: it turns a delimited file into numbered rows
// and resolves the configured column against the header.
//
// Line numbers count physical lines from the header, which is always line 1,
// so they match what a user sees in an editor once leading blank lines are
// skipped. encoding/csv silently drops blank lines; RowSource puts them back
// as rows with no fields so the validator can report them as "empty row".
// Blank lines before the header and at the end of the file carry no
// information and are ignored.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one data line of the input.
type Row struct {
	Line   int      // Line of the record start, counted from the header as 1
	Fields []string // Nil for a blank line
}

// RowSource reads rows from a delimited input.
type RowSource struct {
	csv *csv.Reader

	offset    int // Blank physical lines before the header
	lastEnd   int // Physical line where the last record ended
	blankLine int // Next queued blank line
	blanks    int // Number of queued blank lines
	pending   *Row
}

// NewRowSource decodes r according to s.Encoding and prepares a CSV reader
// using s.Delimiter.
func NewRowSource(r io.Reader, s Settings) (*RowSource, error) {
	decoded, err := decodeInput(r, s.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = s.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	return &RowSource{csv: reader}, nil
}

// ReadHeader reads the first record and resolves the configured column.
// A structural problem is returned as a line-1 rejection; err is only set
// for unreadable input.
func (rs *RowSource) ReadHeader(s Settings) (col int, rej *Rejection, err error) {
	record, start, err := rs.read()
	if errors.Is(err, io.EOF) {
		r := missingHeader()
		return -1, &r, nil
	}
	if err != nil {
		return -1, nil, err
	}
	rs.offset = start - 1

	col, ok := ResolveColumn(record, s)
	if !ok {
		r := missingColumn(s.ColumnLabel())
		return -1, &r, nil
	}
	return col, nil, nil
}

// Next returns the next data row, or io.EOF when the input is exhausted.
func (rs *RowSource) Next() (Row, error) {
	row, err := rs.next()
	if err != nil {
		return Row{}, err
	}
	row.Line -= rs.offset
	return row, nil
}

// next returns rows numbered by physical line.
func (rs *RowSource) next() (Row, error) {
	if rs.blanks > 0 {
		row := Row{Line: rs.blankLine}
		rs.blankLine++
		rs.blanks--
		return row, nil
	}
	if rs.pending != nil {
		row := *rs.pending
		rs.pending = nil
		return row, nil
	}

	prevEnd := rs.lastEnd
	record, start, err := rs.read()
	if err != nil {
		return Row{}, err
	}

	row := Row{Line: start, Fields: record}
	if gap := start - prevEnd - 1; gap > 0 {
		rs.blankLine = prevEnd + 1
		rs.blanks = gap
		rs.pending = &row
		return rs.next()
	}
	return row, nil
}

// read returns the next CSV record and the physical line it starts on.
func (rs *RowSource) read() ([]string, int, error) {
	record, err := rs.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		return nil, 0, fmt.Errorf("read input: %w", err)
	}

	start, _ := rs.csv.FieldPos(0)
	last := len(record) - 1
	end, _ := rs.csv.FieldPos(last)
	rs.lastEnd = end + strings.Count(record[last], "\n")

	return record, start, nil
}

// ResolveColumn finds the position of the configured column in a header.
//
// With a positional override the header only has to be long enough. By name,
// an exact match on the trimmed header cell is preferred over a
// case-insensitive one; when several cells match, the last one wins.
func ResolveColumn(header []string, s Settings) (int, bool) {
	if s.ColumnIndex > 0 {
		if s.ColumnIndex > len(header) {
			return -1, false
		}
		return s.ColumnIndex - 1, true
	}

	want := strings.TrimSpace(s.Column)
	exact, folded := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == want {
			exact = i
		}
		if strings.EqualFold(h, want) {
			folded = i
		}
	}

	if exact >= 0 {
		return exact, true
	}
	if folded >= 0 {
		return folded, true
	}
	return -1, false
}
