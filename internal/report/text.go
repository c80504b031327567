package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

const rule = "----------------"

// WriteText writes the human-readable report.txt layout.
func WriteText(w io.Writer, a *core.Analysis) error {
	bw := bufio.NewWriter(w)
	s := a.Settings
	t := s.Threshold

	fmt.Fprintln(bw, "NUMBERS REPORT")
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "Column: %s\n", s.ColumnLabel())
	fmt.Fprintf(bw, "Valid range: %s\n", s.RangeLabel())
	fmt.Fprintf(bw, "Threshold: %d\n\n", t)

	if !a.Stats.HasValues {
		fmt.Fprintf(bw, "%s\n\n", NoValidNumbers)
	} else {
		st := a.Stats
		fmt.Fprintf(bw, "Count: %d\n", st.Count)
		fmt.Fprintf(bw, "Total: %s\n", st.SumString())
		fmt.Fprintf(bw, "Average: %s\n", st.MeanString())
		fmt.Fprintf(bw, "Minimum: %d\n", st.Min)
		fmt.Fprintf(bw, "Maximum: %d\n\n", st.Max)

		fmt.Fprintf(bw, "Numbers <= %d:\n", t)
		fmt.Fprintln(bw, joinNumbers(a.Partition.Low))
		fmt.Fprintf(bw, "Count <= %d: %d\n\n", t, len(a.Partition.Low))

		fmt.Fprintf(bw, "Numbers > %d:\n", t)
		fmt.Fprintln(bw, joinNumbers(a.Partition.High))
		fmt.Fprintf(bw, "Count > %d: %d\n\n", t, len(a.Partition.High))
	}

	fmt.Fprintln(bw, "INVALID ROWS")
	fmt.Fprintln(bw, rule)
	if len(a.Rejections) == 0 {
		fmt.Fprintln(bw, "None")
	}
	for _, r := range a.Rejections {
		fmt.Fprintln(bw, r.String())
	}

	return bw.Flush()
}
