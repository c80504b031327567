package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

func TestReport_EscapesRawValues(t *testing.T) {
	a, err := core.Analyze(context.Background(), strings.NewReader("value\n<script>\n7\n"), "in.csv", core.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Report(a).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "<script>") {
		t.Error("raw value was not escaped")
	}
	for _, want := range []string{"&lt;script&gt;", "not a positive integer", "Average", "7.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestReport_NoValidNumbers(t *testing.T) {
	a, err := core.Analyze(context.Background(), strings.NewReader("value\n"), "in.csv", core.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Report(a).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No valid numbers found.") {
		t.Error("missing empty-result message")
	}
	if strings.Contains(buf.String(), "Minimum") {
		t.Error("minimum should not be rendered without values")
	}
}

func TestUploadForm(t *testing.T) {
	var buf bytes.Buffer
	if err := UploadForm(FormDefaultsFrom(core.DefaultSettings())).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`name="file"`, `name="column" value="value"`, `name="threshold" value="25"`, `name="delimiter" value=";"`} {
		if !strings.Contains(out, want) {
			t.Errorf("form missing %q", want)
		}
	}
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorAlert("Bad <file>", "Try again", "FILE002").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Bad &lt;file&gt;") || !strings.Contains(buf.String(), "Code: FILE002") {
		t.Errorf("unexpected alert: %s", buf.String())
	}
}

func TestReport_PartitionTitles(t *testing.T) {
	a, err := core.Analyze(context.Background(), strings.NewReader("value\n5\n30\n12\n"), "in.csv", core.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Report(a).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<h2>Numbers &lt;= 25 (2)</h2><p>5, 12</p>",
		"<h2>Numbers &gt; 25 (1)</h2><p>30</p>",
		"<th>Source</th><td>in.csv</td>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestErrorPage_RendersInsideLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorPage("Broken", "Fix it", "CFG001").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!doctype html>") || !strings.HasSuffix(out, "</body></html>") {
		t.Errorf("page shell missing: %s", out)
	}
	if !strings.Contains(out, "<title>Error</title>") || !strings.Contains(out, `<strong>Broken</strong>`) {
		t.Errorf("unexpected page: %s", out)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := ErrorAlert("a", "b", "c").Render(ctx, &buf); err == nil {
		t.Error("expected error for cancelled context")
	}
}
