package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrColumnCountMismatch = errors.New("column count mismatch")
	ErrUnsupportedRowType  = errors.New("unsupported row type")
	ErrInvalidHeader       = errors.New("invalid header")
	ErrAttached            = errors.New("node already attached")
	ErrNilWriter           = errors.New("nil writer")
)

// Format represents an output format.
type Format string

const (
	Text Format = "text"
	HTML Format = "html"
	JSON Format = "json"
)

var formats = []Format{Text, HTML, JSON}

// Widths used when nothing more specific is known.
const (
	// HTMLWidth caps the detected terminal width and is the usual width of
	// documents rendered for a browser.
	HTMLWidth = 180
	// TextWidth is the fallback when no terminal can be probed.
	TextWidth = 120
)

const (
	DefaultColumnSeparator = "  "
	DefaultVisibleLines    = 50
	defaultIndent          = "  "
)

// String returns the format name.
func (f Format) String() string { return string(f) }

func (f Format) valid() bool {
	for _, known := range formats {
		if f == known {
			return true
		}
	}
	return false
}

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format string. "txt" is accepted as an alias of
// [Text].
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "txt" {
		return Text, nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Marshal renders n in format f and returns the bytes. Unlike [Node.Flush]
// it keeps no bookkeeping, so repeated calls return the same output. ANSI
// colors are only emitted when the owning document uses [ColorAlways].
//
// JSON for a [Document] is empty until the document is closed.
func Marshal(f Format, n Node) ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	rc := newRenderContext(n, f, nil)
	var buf bytes.Buffer
	switch f {
	case JSON:
		if doc, ok := n.(*Document); ok && !doc.closed {
			return nil, nil
		}
		if v := n.renderJSON(rc); v != nil {
			if err := writeJSON(&buf, v); err != nil {
				return nil, err
			}
		}
	case HTML:
		buf.WriteString(n.renderHTML(rc))
	default:
		buf.WriteString(n.renderText(rc))
	}
	return buf.Bytes(), nil
}
