// Package templates holds the HTML components served by the web package.
// Components are written as .templ files and compiled with `templ generate`;
// the generated *_templ.go files are checked in.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

// FormDefaults pre-fills the upload form.
type FormDefaults struct {
	Column    string
	Threshold int64
	Min       int64
	Max       int64
	Delimiter string
	Encoding  string
}

// FormDefaultsFrom converts settings into form defaults.
func FormDefaultsFrom(s core.Settings) FormDefaults {
	return FormDefaults{
		Column:    s.Column,
		Threshold: s.Threshold,
		Min:       s.Min,
		Max:       s.Max,
		Delimiter: string(s.Delimiter),
		Encoding:  s.Encoding,
	}
}

func joinNumbers(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ", ")
}

func partitionTitle(op string, threshold int64, n int) string {
	return fmt.Sprintf("Numbers %s %d (%d)", op, threshold, n)
}
