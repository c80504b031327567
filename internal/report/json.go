package report

import (
	"encoding/json"
	"io"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

// NoValidNumbers is the message shown when an analysis accepted nothing.
const NoValidNumbers = "No valid numbers found."

// Summary is the JSON form of an analysis.
type Summary struct {
	RunID      string          `json:"run_id"`
	Source     string          `json:"source"`
	Settings   SettingsSummary `json:"settings"`
	Valid      []int64         `json:"valid"`
	Low        []int64         `json:"low"`
	High       []int64         `json:"high"`
	Stats      StatsSummary    `json:"stats"`
	Invalid    []InvalidRow    `json:"invalid"`
	Structural bool            `json:"structural"`
	Message    string          `json:"message,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}

// SettingsSummary echoes the settings an analysis ran with.
type SettingsSummary struct {
	Column    string `json:"column"`
	Threshold int64  `json:"threshold"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	Delimiter string `json:"delimiter"`
	Encoding  string `json:"encoding"`
}

// StatsSummary carries the statistics. Minimum and Maximum are omitted when
// there are no valid numbers.
// Total and Average are exact decimal literals, so sums beyond the int64
// range survive encoding.
type StatsSummary struct {
	Count   int         `json:"count"`
	Total   json.Number `json:"total"`
	Average json.Number `json:"average"`
	Minimum *int64      `json:"minimum,omitempty"`
	Maximum *int64      `json:"maximum,omitempty"`
}

// InvalidRow is one rejected line.
type InvalidRow struct {
	Line   int    `json:"line_no"`
	Raw    string `json:"raw_value"`
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

// NewSummary builds the JSON view of a.
func NewSummary(a *core.Analysis) Summary {
	s := a.Settings
	sum := Summary{
		RunID:  a.ID,
		Source: a.Source,
		Settings: SettingsSummary{
			Column:    s.ColumnLabel(),
			Threshold: s.Threshold,
			Min:       s.Min,
			Max:       s.Max,
			Delimiter: string(s.Delimiter),
			Encoding:  s.Encoding,
		},
		Valid: nonNil(a.Valid),
		Low:   nonNil(a.Partition.Low),
		High:  nonNil(a.Partition.High),
		Stats: StatsSummary{
			Count:   a.Stats.Count,
			Total:   json.Number(a.Stats.SumString()),
			Average: json.Number(a.Stats.MeanString()),
		},
		Invalid:    make([]InvalidRow, 0, len(a.Rejections)),
		Structural: a.Structural,
		DurationMS: a.Duration.Milliseconds(),
	}

	if a.Stats.HasValues {
		lo, hi := a.Stats.Min, a.Stats.Max
		sum.Stats.Minimum = &lo
		sum.Stats.Maximum = &hi
	} else {
		sum.Message = NoValidNumbers
	}

	for _, r := range a.Rejections {
		sum.Invalid = append(sum.Invalid, InvalidRow{
			Line:   r.Line,
			Raw:    r.Raw,
			Reason: r.Reason,
			Code:   string(r.Code),
		})
	}
	return sum
}

// WriteJSON encodes the summary of a to w.
func WriteJSON(w io.Writer, a *core.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewSummary(a))
}

func nonNil(n []int64) []int64 {
	if n == nil {
		return []int64{}
	}
	return n
}
