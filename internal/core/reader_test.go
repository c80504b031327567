package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// readAll drains a RowSource after its header.
func readAll(t *testing.T, input []byte, s Settings) (int, *Rejection, []Row) {
	t.Helper()

	rs, err := NewRowSource(bytes.NewReader(input), s)
	if err != nil {
		t.Fatalf("NewRowSource() error = %v", err)
	}
	col, rej, err := rs.ReadHeader(s)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if rej != nil {
		return col, rej, nil
	}

	var rows []Row
	for {
		row, err := rs.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		rows = append(rows, row)
	}
	return col, nil, rows
}

func TestRowSource_LineNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Row
	}{
		{
			name:  "one value per line",
			input: "value\n5\n150\n",
			want: []Row{
				{Line: 2, Fields: []string{"5"}},
				{Line: 3, Fields: []string{"150"}},
			},
		},
		{
			name:  "blank line between records becomes empty row",
			input: "value\n5\n\n30\n",
			want: []Row{
				{Line: 2, Fields: []string{"5"}},
				{Line: 3},
				{Line: 4, Fields: []string{"30"}},
			},
		},
		{
			name:  "several blank lines",
			input: "value\n\n\n7\n",
			want: []Row{
				{Line: 2},
				{Line: 3},
				{Line: 4, Fields: []string{"7"}},
			},
		},
		{
			name:  "trailing blank lines ignored",
			input: "value\n5\n\n\n",
			want: []Row{
				{Line: 2, Fields: []string{"5"}},
			},
		},
		{
			name:  "CRLF line endings",
			input: "value\r\n5\r\n\r\n6\r\n",
			want: []Row{
				{Line: 2, Fields: []string{"5"}},
				{Line: 3},
				{Line: 4, Fields: []string{"6"}},
			},
		},
		{
			name:  "quoted field spanning lines",
			input: "value;note\n5;\"a\nb\"\n6;x\n",
			want: []Row{
				{Line: 2, Fields: []string{"5", "a\nb"}},
				{Line: 4, Fields: []string{"6", "x"}},
			},
		},
		{
			name:  "blank lines before header ignored",
			input: "\n\nvalue\n9\n",
			want: []Row{
				{Line: 2, Fields: []string{"9"}},
			},
		},
		{
			name:  "lines counted from header after leading blanks",
			input: "\n\nvalue\n5\n\n7\n",
			want: []Row{
				{Line: 2, Fields: []string{"5"}},
				{Line: 3},
				{Line: 4, Fields: []string{"7"}},
			},
		},
		{
			name:  "quoted empty field is not a blank line",
			input: "value\n\"\"\n",
			want: []Row{
				{Line: 2, Fields: []string{""}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rej, rows := readAll(t, []byte(tt.input), DefaultSettings())
			if rej != nil {
				t.Fatalf("unexpected structural rejection: %+v", rej)
			}
			if diff := cmp.Diff(tt.want, rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRowSource_Header(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		settings   func(*Settings)
		wantCol    int
		wantReason string
	}{
		{name: "empty file", input: "", wantReason: "missing header row"},
		{name: "only blank lines", input: "\n\n", wantReason: "missing header row"},
		{name: "column first", input: "value;id\n", wantCol: 0},
		{name: "column second", input: "id;value\n", wantCol: 1},
		{name: "missing column", input: "id;amount\n1;2\n", wantReason: "missing column 'value'"},
		{name: "header cell whitespace trimmed", input: "id; value \n", wantCol: 1},
		{name: "case-insensitive fallback", input: "id;VALUE\n", wantCol: 1},
		{name: "exact match beats folded match", input: "value;Value\n", wantCol: 0},
		{name: "duplicate name last wins", input: "value;value\n", wantCol: 1},
		{name: "BOM stripped from header", input: "\ufeffvalue\n1\n", wantCol: 0},
		{
			name:     "custom column name",
			input:    "n;amount\n",
			settings: func(s *Settings) { s.Column = "amount" },
			wantCol:  1,
		},
		{
			name:     "positional override",
			input:    "a;b;c\n",
			settings: func(s *Settings) { s.ColumnIndex = 3 },
			wantCol:  2,
		},
		{
			name:       "positional override beyond header",
			input:      "a;b\n",
			settings:   func(s *Settings) { s.ColumnIndex = 3 },
			wantReason: "missing column '#3'",
		},
		{
			name:     "comma delimiter",
			input:    "id,value\n",
			settings: func(s *Settings) { s.Delimiter = ',' },
			wantCol:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			if tt.settings != nil {
				tt.settings(&s)
			}
			col, rej, _ := readAll(t, []byte(tt.input), s)

			if tt.wantReason != "" {
				if rej == nil {
					t.Fatalf("expected rejection %q, got column %d", tt.wantReason, col)
				}
				if rej.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", rej.Reason, tt.wantReason)
				}
				if rej.Line != 1 {
					t.Errorf("Line = %d, want 1", rej.Line)
				}
				if !rej.Code.Structural() {
					t.Errorf("Code %q should be structural", rej.Code)
				}
				return
			}
			if rej != nil {
				t.Fatalf("unexpected rejection: %+v", rej)
			}
			if col != tt.wantCol {
				t.Errorf("column = %d, want %d", col, tt.wantCol)
			}
		})
	}
}

func TestRowSource_Encodings(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		encoding string
		want     []string
	}{
		{
			name:     "utf-8 with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("value\n1\n")...),
			encoding: "utf-8",
			want:     []string{"1"},
		},
		{
			name:     "invalid utf-8 replaced",
			input:    []byte("value\n1\x80\n"),
			encoding: "utf-8",
			want:     []string{"1\ufffd"},
		},
		{
			name:     "windows-1252",
			input:    []byte("value\ncaf\xe9\n"),
			encoding: "windows-1252",
			want:     []string{"café"},
		},
		{
			name:     "utf-16 little endian with BOM",
			input:    []byte{0xFF, 0xFE, 'v', 0, 'a', 0, 'l', 0, 'u', 0, 'e', 0, '\n', 0, '3', 0, '\n', 0},
			encoding: "utf-16",
			want:     []string{"3"},
		},
		{
			name:     "utf-16 big endian BOM overrides label",
			input:    []byte{0xFE, 0xFF, 0, 'v', 0, 'a', 0, 'l', 0, 'u', 0, 'e', 0, '\n', 0, '4', 0, '\n'},
			encoding: "utf-8",
			want:     []string{"4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Encoding = tt.encoding
			_, rej, rows := readAll(t, tt.input, s)
			if rej != nil {
				t.Fatalf("unexpected rejection: %+v", rej)
			}
			var got []string
			for _, r := range rows {
				got = append(got, r.Fields[0])
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewRowSource_UnknownEncoding(t *testing.T) {
	s := DefaultSettings()
	s.Encoding = "klingon"
	_, err := NewRowSource(strings.NewReader("value\n"), s)
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("error = %v, want ErrUnsupportedEncoding", err)
	}
}
