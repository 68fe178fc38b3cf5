package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Rank selects per-row coloring of numeric cells by relative magnitude.
type Rank int

const (
	RankNone Rank = iota
	HigherIsBetter
	LowerIsBetter
)

type rowKind int

const (
	rowCells rowKind = iota
	rowText
	rowRule
)

// Row is one table row: a list of cells, a single string spanning the whole
// row, or a one-character string repeated as a horizontal rule.
type Row struct {
	kind    rowKind
	values  []any
	text    string
	style   Style
	rawHTML bool
	rank    Rank
	header  bool

	cells []*Cell
}

// RowOption configures a [Row].
type RowOption func(*Row)

// RowStyle styles every cell of the row.
func RowStyle(s Style) RowOption { return func(r *Row) { r.style = s } }

// RowRawHTML marks the row values as HTML that must not be escaped.
func RowRawHTML() RowOption { return func(r *Row) { r.rawHTML = true } }

// RowRank colors numeric cells against the row's own min and max and appends
// a synthetic cell holding the maximum.
func RowRank(rank Rank) RowOption { return func(r *Row) { r.rank = rank } }

// NewRow builds a row from a string, []string, []any or []*Cell.
func NewRow(values any, opts ...RowOption) (*Row, error) {
	r := &Row{}
	switch v := values.(type) {
	case string:
		r.text = v
		r.kind = rowText
		if utf8.RuneCountInString(v) == 1 {
			r.kind = rowRule
		}
	case []any:
		r.values = v
	case []string:
		r.values = make([]any, len(v))
		for i, s := range v {
			r.values[i] = s
		}
	case []*Cell:
		r.values = make([]any, len(v))
		for i, c := range v {
			r.values[i] = c
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRowType, values)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Cells returns the cells built by the last table layout.
func (r *Row) Cells() []*Cell { return r.cells }

func (r *Row) Rank() Rank { return r.rank }

// span is the number of columns the row's values cover.
func (r *Row) span() int {
	n := 0
	for _, v := range r.values {
		if c, ok := v.(*Cell); ok {
			n += c.colspan
		} else {
			n++
		}
	}
	return n
}

// initCells expands the row into exactly one cell per column.
func (r *Row) initCells(colcnt int, ranked bool) {
	r.cells = r.cells[:0]
	switch r.kind {
	case rowRule:
		for range colcnt {
			r.cells = append(r.cells, ruleCell(r.text))
		}
		return
	case rowText:
		r.cells = append(r.cells, NewCell(r.text, CellSpan(colcnt)))
		for range colcnt - 1 {
			r.cells = append(r.cells, coverCell())
		}
		return
	}

	for _, v := range r.values {
		c, ok := v.(*Cell)
		if !ok {
			r.cells = append(r.cells, NewCell(v))
			continue
		}
		r.cells = append(r.cells, c)
		for range c.colspan - 1 {
			r.cells = append(r.cells, coverCell())
		}
	}

	switch {
	case r.rank != RankNone:
		r.applyRank(r.rank == HigherIsBetter)
	case ranked && r.header:
		r.cells = append(r.cells, NewCell("MAX", CellAlign(AlignRight), CellBottom()))
	case ranked:
		r.cells = append(r.cells, NewCell(""))
	}
}

// applyRank colors cells in the top fifth of the row's range (or above 95%
// of its max) as good and those in the bottom fifth as bad. Zero and
// non-numeric cells are left alone.
func (r *Row) applyRank(higherIsBetter bool) {
	good, bad := BgGreen, BgRed
	if !higherIsBetter {
		good, bad = bad, good
	}

	var vmin, vmax float64
	found := false
	for _, c := range r.cells {
		v, ok := rankValue(c)
		if !ok {
			continue
		}
		if !found {
			vmin, vmax, found = v, v, true
			continue
		}
		vmin = min(vmin, v)
		vmax = max(vmax, v)
	}
	if !found {
		r.cells = append(r.cells, NewCell(0, CellStyle(BgGray)))
		return
	}

	span := vmax - vmin
	for _, c := range r.cells {
		v, ok := rankValue(c)
		if !ok {
			continue
		}
		switch {
		case v > vmax*0.95 || v > vmin+span*0.8:
			c.style = good
		case v < vmin+span*0.2:
			c.style = bad
		default:
			c.style = BgYellow
		}
	}
	r.cells = append(r.cells, NewCell(vmax, CellStyle(BgGray)))
}

func rankValue(c *Cell) (float64, bool) {
	if c.covered() || c.separator || c.value == nil {
		return 0, false
	}
	v, ok := toFloat(c.value)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// spanWidth is the rendered width of the cell at colno including the
// separators and widths of the visible columns it covers.
func (r *Row) spanWidth(cols []*Column, colno int) int {
	width := cols[colno].width
	end := min(colno+r.cells[colno].colspan, len(cols))
	for n := colno + 1; n < end; n++ {
		if cols[n].hidden {
			continue
		}
		width += runewidth.StringWidth(cols[n].separator) + cols[n].width
	}
	return width
}

// cellWidth is spanWidth with a fallback to the raw value width for columns
// that ended up with no width at all.
func (r *Row) cellWidth(cols []*Column, colno int) int {
	if w := r.spanWidth(cols, colno); w > 0 {
		return w
	}
	return runewidth.StringWidth(toString(r.cells[colno].value))
}

func (r *Row) String() string {
	switch r.kind {
	case rowRule, rowText:
		return fmt.Sprintf("%q", r.text)
	}
	return fmt.Sprint(r.cells)
}
