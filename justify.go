package report

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Alignment controls horizontal text alignment within a cell.
type Alignment int

const (
	// AlignAuto defers to the enclosing column; columns default to right
	// alignment, which suits numeric data.
	AlignAuto Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// textWidth returns the display width of the widest line in s.
func textWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

// justify pads s to width according to align. Text wider than width is
// truncated with a trailing "...". A zero width leaves s unchanged.
func justify(s string, width int, align Alignment) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignLeft:
		return s + strings.Repeat(" ", pad)
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return strings.Repeat(" ", pad) + s
	}
}

// hardWrap splits s into chunks no wider than width.
func hardWrap(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		line := runewidth.Truncate(s, width, "")
		if line == "" {
			// a single rune wider than the column still has to advance
			_, size := utf8.DecodeRuneInString(s)
			line = s[:size]
		}
		lines = append(lines, line)
		s = s[len(line):]
	}
	return lines
}

// wrapWords collapses whitespace in s and wraps it greedily into lines no
// wider than width. Words longer than width are split.
func wrapWords(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}
	for _, word := range words {
		ww := runewidth.StringWidth(word)
		if ww > width {
			flush()
			parts := hardWrap(word, width)
			lines = append(lines, parts[:len(parts)-1]...)
			last := parts[len(parts)-1]
			cur.WriteString(last)
			curWidth = runewidth.StringWidth(last)
			continue
		}
		switch {
		case curWidth == 0:
			cur.WriteString(word)
			curWidth = ww
		case curWidth+1+ww <= width:
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + ww
		default:
			flush()
			cur.WriteString(word)
			curWidth = ww
		}
	}
	flush()
	return lines
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&apos;",
	">", "&gt;",
	"<", "&lt;",
	`\`, "&#92;",
)

// EscapeHTML replaces characters that are special in HTML text and
// attributes with entities.
func EscapeHTML(s string) string { return htmlEscaper.Replace(s) }

var (
	tokenRE    = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_]`)
	knownWords = map[string]bool{
		"llc": true, "inc": true, "ltd": true, "limited": true, "co": true, "plc": true,
		"pllc": true, "the": true, "group": true, "ag": true, "bv": true,
	}
)

// Obfuscate masks identifier-like words in name, keeping single characters,
// punctuation and common company suffixes such as "Inc" or "LLC".
//
//	Obfuscate("Acme Widgets, Inc.") == "Xxxx Xxxxxxx, Inc."
func Obfuscate(name string) string {
	tokens := tokenRE.FindAllString(name, -1)
	for i, tok := range tokens {
		if utf8.RuneCountInString(tok) == 1 || knownWords[strings.ToLower(tok)] {
			continue
		}
		tokens[i] = strings.Map(func(r rune) rune {
			if unicode.IsUpper(r) {
				return 'X'
			}
			return 'x'
		}, tok)
	}
	return strings.Join(tokens, "")
}
