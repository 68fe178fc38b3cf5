package report

import (
	"fmt"
	"strings"
)

// Column holds the width, alignment and format policy of one table slot.
// Create columns with [NewColumn] or [Sized].
type Column struct {
	title     string
	hidden    bool
	align     Alignment
	format    Formatter
	separator string
	style     Style
	wrap      bool
	colspan   int
	top       bool
	rawHTML   bool

	widthUser int // requested minimum, 0 means auto
	widthMax  int // widest observed content
	width     int // width used for rendering, set during layout
}

// ColumnOption configures a [Column].
type ColumnOption func(*Column)

// NewColumn returns an auto-width, right-aligned column.
func NewColumn(title string, opts ...ColumnOption) *Column {
	c := &Column{
		title:     title,
		separator: DefaultColumnSeparator,
		colspan:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sized is the compact (title, width[, format]) column form. A positive width
// is a minimum, a negative width is a minimum of -width with left alignment,
// and zero hides the column.
func Sized(title string, width int, format ...Formatter) *Column {
	opts := []ColumnOption{ColWidth(width)}
	if width == 0 {
		opts = append(opts, ColHidden())
	}
	if len(format) > 0 {
		opts = append(opts, ColFormat(format[0]))
	}
	return NewColumn(title, opts...)
}

// ColWidth requests a minimum width. Negative values request a minimum of
// -n and left alignment.
func ColWidth(n int) ColumnOption {
	return func(c *Column) {
		if n < 0 {
			n = -n
			c.align = AlignLeft
		}
		c.widthUser = n
		c.widthMax = n
		c.width = n
	}
}

// ColHidden hides the column in every format.
func ColHidden() ColumnOption { return func(c *Column) { c.hidden = true } }

// ColLeft left-aligns the column.
func ColLeft() ColumnOption { return ColAlign(AlignLeft) }

// ColAlign sets the column alignment.
func ColAlign(a Alignment) ColumnOption { return func(c *Column) { c.align = a } }

// ColFormat sets how values in the column are turned into text.
func ColFormat(f Formatter) ColumnOption { return func(c *Column) { c.format = f } }

// ColSeparator sets the string written before the column.
func ColSeparator(s string) ColumnOption { return func(c *Column) { c.separator = s } }

// ColStyle styles every cell of the column.
func ColStyle(s Style) ColumnOption { return func(c *Column) { c.style = s } }

// ColWrap lets long cell values wrap onto several lines.
func ColWrap() ColumnOption { return func(c *Column) { c.wrap = true } }

// ColSpan makes a header entry cover n underlying columns.
func ColSpan(n int) ColumnOption {
	return func(c *Column) { c.colspan = max(n, 1) }
}

// ColTop aligns multi-line content to the top instead of the bottom.
func ColTop() ColumnOption { return func(c *Column) { c.top = true } }

// ColRawHTML marks column values as HTML that must not be escaped.
func ColRawHTML() ColumnOption { return func(c *Column) { c.rawHTML = true } }

func (c *Column) Title() string { return c.title }

// Width returns the width chosen by the last layout.
func (c *Column) Width() int { return c.width }

// MinWidth returns the requested minimum width, 0 for auto columns.
func (c *Column) MinWidth() int { return c.widthUser }

// MaxWidth returns the widest content observed by the last layout.
func (c *Column) MaxWidth() int { return c.widthMax }

func (c *Column) Hidden() bool { return c.hidden }

func (c *Column) Colspan() int { return c.colspan }

// Adjust records content of the given width. Auto columns grow to fit it;
// columns with a requested minimum keep their width and only track the
// overflow.
func (c *Column) Adjust(observed int) {
	c.widthMax = max(c.widthMax, observed)
	if c.widthUser != 0 {
		return
	}
	c.width = c.widthMax
}

func (c *Column) reset() {
	c.widthMax = c.widthUser
	c.width = c.widthUser
}

func (c *Column) left() bool { return c.align == AlignLeft }

// starvation is how much of the widest content the current width cuts off.
func (c *Column) starvation() int { return max(0, c.widthMax-c.width) }

func (c *Column) clone() *Column {
	cp := *c
	return &cp
}

func (c *Column) String() string {
	wrap := "nowrap"
	if c.wrap {
		wrap = "wrap"
	}
	valign := "bottom"
	if c.top {
		valign = "top"
	}
	return fmt.Sprintf("%s|width=%d(max=%d)|align=%d|sep=%q|style=%s|%s|colspan=%d|%s",
		strings.ReplaceAll(c.title, "\n", `\n`), c.width, c.widthMax, c.align,
		c.separator, c.style, wrap, c.colspan, valign)
}
