package report

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/numanalyzer/internal/core"
	"github.com/charmbracelet/lipgloss"
)

// Console colors.
var (
	colorLabel = lipgloss.Color("#2196F3")
	colorWarn  = lipgloss.Color("#FFC107")
	colorPath  = lipgloss.Color("#8BC34A")
)

// Styles holds the console styles. The zero value prints plain text.
type Styles struct {
	Label lipgloss.Style
	Warn  lipgloss.Style
	Path  lipgloss.Style

	enabled bool
}

// NewStyles returns styles bound to w. Color is only emitted when w is a
// terminal, so redirected output stays plain.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Label: r.NewStyle().Bold(true).Foreground(colorLabel),
		Warn:  r.NewStyle().Bold(true).Foreground(colorWarn),
		Path:  r.NewStyle().Foreground(colorPath),

		enabled: true,
	}
}

func (st Styles) render(s lipgloss.Style, text string) string {
	if !st.enabled {
		return text
	}
	return s.Render(text)
}

// WriteConsole prints the terminal summary of an analysis.
func WriteConsole(w io.Writer, a *core.Analysis, st Styles) error {
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", st.render(st.Label, label), value)
	}

	if !a.Stats.HasValues {
		if _, err := fmt.Fprintln(w, st.render(st.Warn, NoValidNumbers)); err != nil {
			return err
		}
		if r, ok := a.FirstIssue(); ok {
			_, err := fmt.Fprintf(w, "%s Line %d -> %s\n", st.render(st.Warn, "First issue:"), r.Line, r.Reason)
			return err
		}
		return nil
	}

	t := a.Settings.Threshold
	stats := a.Stats
	line("Valid numbers:", listNumbers(a.Valid))
	line("Count:", fmt.Sprint(stats.Count))
	line("Total:", stats.SumString())
	line("Average:", stats.MeanString())
	line("Minimum:", fmt.Sprint(stats.Min))
	line("Maximum:", fmt.Sprint(stats.Max))
	line(fmt.Sprintf("Low (<= %d):", t), listNumbers(a.Partition.Low))
	line("Low count:", fmt.Sprint(len(a.Partition.Low)))
	line(fmt.Sprintf("High (> %d):", t), listNumbers(a.Partition.High))
	_, err := fmt.Fprintf(w, "%s %d\n", st.render(st.Label, "High count:"), len(a.Partition.High))
	return err
}

// WriteSaved prints the list of written report files.
func WriteSaved(w io.Writer, p Paths, st Styles) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", st.render(st.Label, "Saved:")); err != nil {
		return err
	}
	for _, path := range p.All() {
		if _, err := fmt.Fprintf(w, "- %s\n", st.render(st.Path, path)); err != nil {
			return err
		}
	}
	return nil
}
