package core

// encoding.go turns raw input bytes into clean UTF-8 for the CSV reader.
//
// Windows tools often prefix files with a byte order mark, and exports from
// older spreadsheets arrive as windows-1252. Both would otherwise corrupt the
// header and make the configured column look missing.
//
// A leading BOM always wins over the configured encoding. Invalid UTF-8 is
// replaced with U+FFFD instead of failing the run.

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves an encoding label ("utf-8", "utf-16le",
// "windows-1252", "latin1", ...). An empty label means UTF-8.
func lookupEncoding(label string) (encoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(label))
	switch name {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, label)
	}
	return enc, nil
}

// decodeInput wraps r so that reads yield UTF-8 without a BOM.
func decodeInput(r io.Reader, label string) (io.Reader, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
