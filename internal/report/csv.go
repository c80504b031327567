package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

// Column headers of the CSV exports.
var (
	ValuesHeader  = []string{"value", "category", "threshold"}
	InvalidHeader = []string{"line_no", "raw_value", "reason"}
)

func newCSVWriter(w io.Writer, delim rune) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	cw.UseCRLF = true
	return cw
}

// WriteValuesCSV writes one row per valid number in input order.
func WriteValuesCSV(w io.Writer, a *core.Analysis, delim rune) error {
	cw := newCSVWriter(w, delim)
	if err := cw.Write(ValuesHeader); err != nil {
		return err
	}

	t := a.Settings.Threshold
	threshold := strconv.FormatInt(t, 10)
	for _, n := range a.Valid {
		record := []string{strconv.FormatInt(n, 10), core.Category(n, t), threshold}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteInvalidCSV writes one row per rejection, raw value as read.
func WriteInvalidCSV(w io.Writer, a *core.Analysis, delim rune) error {
	cw := newCSVWriter(w, delim)
	if err := cw.Write(InvalidHeader); err != nil {
		return err
	}

	for _, r := range a.Rejections {
		if err := cw.Write([]string{strconv.Itoa(r.Line), r.Raw, r.Reason}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
