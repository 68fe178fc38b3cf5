package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const htmlDash = "&#8212;"

// Cell is the smallest formatting unit of a table: a value plus span,
// alignment, wrapping and style overrides.
type Cell struct {
	value     any
	colspan   int
	align     Alignment
	wrap      bool
	bottom    bool
	style     Style
	separator bool
}

// CellOption configures a [Cell].
type CellOption func(*Cell)

// NewCell returns a cell spanning one column.
func NewCell(v any, opts ...CellOption) *Cell {
	c := &Cell{value: v, colspan: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CellSpan makes the cell cover n columns. The n-1 slots that follow it
// render nothing.
func CellSpan(n int) CellOption { return func(c *Cell) { c.colspan = max(n, 1) } }

// CellAlign overrides the column alignment.
func CellAlign(a Alignment) CellOption { return func(c *Cell) { c.align = a } }

// CellWrap lets the value wrap even when the column does not.
func CellWrap() CellOption { return func(c *Cell) { c.wrap = true } }

// CellBottom aligns multi-line rows so this cell's text sits at the bottom.
func CellBottom() CellOption { return func(c *Cell) { c.bottom = true } }

// CellStyle styles the cell. Cell style wraps row and column styles.
func CellStyle(s Style) CellOption { return func(c *Cell) { c.style = s } }

func (c *Cell) Value() any { return c.value }

func (c *Cell) Colspan() int { return c.colspan }

func (c *Cell) Style() Style { return c.style }

// covered reports whether a preceding cell spans over this slot.
func (c *Cell) covered() bool { return c.colspan == 0 }

func coverCell() *Cell { return &Cell{} }

func ruleCell(glyph string) *Cell {
	return &Cell{value: glyph, colspan: 1, separator: true}
}

func (c *Cell) alignment(col *Column) Alignment {
	if c.align != AlignAuto {
		return c.align
	}
	return col.align
}

// formatValue resolves the display text of the cell and its width.
func (c *Cell) formatValue(col *Column, autoreplace map[string]string, html bool) (string, int) {
	if c.covered() || col.hidden {
		return "", 0
	}
	if c.value == nil {
		return "-", 1
	}
	if c.separator {
		r, _ := utf8.DecodeRuneInString(toString(c.value))
		return string(r), 1
	}

	text, formatted := "", false
	switch f := col.format.(type) {
	case FormatFunc:
		if s, w, err := f(c.value, col.width, c.alignment(col), html); err == nil {
			if w <= 0 {
				w = textWidth(s)
			}
			return s, w
		}
	case Pattern:
		text, formatted = f.apply(c.value)
	}
	if !formatted {
		text = toString(c.value)
	}
	if r, ok := autoreplace[text]; ok {
		text = r
	}
	return text, textWidth(text)
}

func (c *Cell) text(col *Column, autoreplace map[string]string, html bool) string {
	s, _ := c.formatValue(col, autoreplace, html)
	return s
}

func (c *Cell) width(col *Column, autoreplace map[string]string) int {
	_, w := c.formatValue(col, autoreplace, false)
	return w
}

// lines splits the cell text into the lines it occupies at the given width.
func (c *Cell) lines(col *Column, width int, autoreplace map[string]string, html bool) []string {
	if width <= 0 {
		return nil
	}
	text := c.text(col, autoreplace, html)
	if c.wrap || col.wrap {
		return wrapWords(text, width)
	}
	return strings.Split(text, "\n")
}

// render justifies one line of cell text and decorates it.
func (c *Cell) render(text string, width int, col *Column, row *Row, rc *renderContext, html bool) string {
	out := text
	switch {
	case c.separator:
		if html && strings.HasPrefix(text, "-") {
			out = strings.Repeat(htmlDash, width)
		} else {
			out = strings.Repeat(text, width)
		}
	case html && (row.rawHTML || col.rawHTML):
	default:
		out = justify(text, width, c.alignment(col))
		if html {
			if runewidth.StringWidth(text) > width {
				out = fmt.Sprintf("<span title='%s'>%s</span>", EscapeHTML(text), EscapeHTML(out))
			} else {
				out = EscapeHTML(out)
			}
		}
	}
	out = col.style.wrap(out, html, rc.colors)
	out = row.style.wrap(out, html, rc.colors)
	return c.style.wrap(out, html, rc.colors)
}

func (c *Cell) String() string {
	wrap := "nowrap"
	if c.wrap {
		wrap = "wrap"
	}
	return fmt.Sprintf("%v|%d|align=%d|%s", c.value, c.colspan, c.align, wrap)
}
