package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Formatter turns a cell value into text. It is either a [Pattern] or a
// [FormatFunc].
type Formatter interface {
	isFormatter()
}

// Pattern is a fmt verb pattern such as "%.1f". Values the pattern cannot
// format fall back to their plain string form.
type Pattern string

func (Pattern) isFormatter() {}

func (p Pattern) apply(v any) (string, bool) {
	switch patternVerb(string(p)) {
	case 'f', 'F', 'e', 'E', 'g', 'G':
		if n, ok := toInt64(v); ok {
			v = float64(n)
		}
	case 'd':
		switch x := v.(type) {
		case float64:
			v = int64(x)
		case float32:
			v = int64(x)
		}
	}
	s := fmt.Sprintf(string(p), v)
	if strings.Contains(s, "%!") {
		return "", false
	}
	return s, true
}

// patternVerb returns the verb of the first directive in p, skipping "%%".
func patternVerb(p string) byte {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		for i++; i < len(p); i++ {
			if p[i] == '%' {
				break
			}
			if strings.IndexByte("+-# 0123456789.*[]", p[i]) < 0 {
				return p[i]
			}
		}
	}
	return 0
}

// FormatFunc formats v for a column of the given width and alignment. The
// returned int is the display width of the text, or 0 to have it measured.
// A non-nil error makes the cell fall back to the plain string form of v,
// which is how header titles pass through numeric formatters.
type FormatFunc func(v any, width int, align Alignment, html bool) (string, int, error)

func (FormatFunc) isFormatter() {}

var errNotNumeric = errors.New("value is not numeric")

// HumanBytes renders integer byte counts with IEC units, "1.5 MiB".
var HumanBytes FormatFunc = func(v any, _ int, _ Alignment, _ bool) (string, int, error) {
	n, ok := toInt64(v)
	if !ok || n < 0 {
		return "", 0, errNotNumeric
	}
	return humanize.IBytes(uint64(n)), 0, nil
}

// HumanCount renders numbers with thousands separators, "1,234,567".
var HumanCount FormatFunc = func(v any, _ int, _ Alignment, _ bool) (string, int, error) {
	if n, ok := toInt64(v); ok {
		return humanize.Comma(n), 0, nil
	}
	if f, ok := toFloat(v); ok {
		return humanize.Commaf(f), 0, nil
	}
	return "", 0, errNotNumeric
}

// Percent renders a number with the given precision and a trailing "%".
func Percent(precision int) FormatFunc {
	return func(v any, _ int, _ Alignment, _ bool) (string, int, error) {
		f, ok := toFloat(v)
		if !ok {
			return "", 0, errNotNumeric
		}
		return strconv.FormatFloat(f, 'f', precision, 64) + "%", 0, nil
	}
}

// TimeLayout renders time.Time values with the given layout.
func TimeLayout(layout string) FormatFunc {
	return func(v any, _ int, _ Alignment, _ bool) (string, int, error) {
		t, ok := v.(time.Time)
		if !ok {
			return "", 0, fmt.Errorf("want time.Time, got %T", v)
		}
		return t.Format(layout), 0, nil
	}
}

const timeLayout = "2006-01-02 15:04:05"

// toString converts a value to its plain display form.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(timeLayout)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// toFloat parses numeric values and numeric strings.
func toFloat(v any) (float64, bool) {
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		return parseFinite(x)
	case []byte:
		return parseFinite(string(x))
	}
	return 0, false
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
