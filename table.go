package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Table is a node that lays out rows of cells in columns. Columns are created
// by the first header or row added; every later row must cover exactly that
// many columns.
type Table struct {
	node

	columns []*Column
	rows    []*Row

	autoreplace  map[string]string
	autowidth    *bool
	colSep       string
	visibleLines int
	leftAligned  []int

	ranked  bool
	rankCol *Column

	laidOut    bool
	layoutCols []*Column
	finalWidth int
}

// TableOption configures a [Table].
type TableOption func(*Table)

// WithAutoReplace sets the table of display texts replaced after formatting.
// The default replaces "0" with "-".
func WithAutoReplace(m map[string]string) TableOption {
	return func(t *Table) { t.autoreplace = maps.Clone(m) }
}

// WithAutoWidth toggles stretching the table to 25%, 50%, 75% or 100% of the
// target width. Enabled by default.
func WithAutoWidth(on bool) TableOption {
	return func(t *Table) { t.autowidth = &on }
}

// WithColumnSeparator sets the separator of columns created from plain titles
// and row values.
func WithColumnSeparator(sep string) TableOption {
	return func(t *Table) { t.colSep = sep }
}

// WithVisibleLines sets how many lines HTML output shows before collapsing
// the rest of the table.
func WithVisibleLines(n int) TableOption {
	return func(t *Table) { t.visibleLines = n }
}

// WithLeftAlignedColumns left-aligns the columns at the given indexes.
func WithLeftAlignedColumns(cols ...int) TableOption {
	return func(t *Table) { t.leftAligned = slices.Clone(cols) }
}

// WithTableWidth overrides the target width inherited from the document.
func WithTableWidth(n int) TableOption {
	return func(t *Table) { t.width = n }
}

// NewTable returns an empty table.
func NewTable(opts ...TableOption) *Table {
	t := &Table{}
	t.init(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ColumnCount returns the number of columns rows must cover.
func (t *Table) ColumnCount() int { return len(t.columns) }

func (t *Table) RowCount() int { return len(t.rows) }

// Columns lays the table out and returns its columns, including the
// synthetic rank column when a row requested rank coloring.
func (t *Table) Columns() []*Column {
	t.layout()
	return slices.Clone(t.layoutCols)
}

func (t *Table) Rows() []*Row {
	t.layout()
	return slices.Clone(t.rows)
}

// Width lays the table out and returns its total width.
func (t *Table) Width() int {
	t.layout()
	return t.finalWidth
}

func (t *Table) invalidate() {
	t.laidOut = false
	t.finalWidth = 0
}

func (t *Table) columnSeparator() string {
	if t.colSep != "" {
		return t.colSep
	}
	if d := t.document(); d != nil && d.cfg.ColumnSeparator != "" {
		return d.cfg.ColumnSeparator
	}
	return DefaultColumnSeparator
}

func (t *Table) autoReplace() map[string]string {
	if t.autoreplace != nil {
		return t.autoreplace
	}
	if d := t.document(); d != nil && d.cfg.AutoReplace != nil {
		return d.cfg.AutoReplace
	}
	return map[string]string{"0": "-"}
}

func (t *Table) autoWidth() bool {
	if t.autowidth != nil {
		return *t.autowidth
	}
	if d := t.document(); d != nil && d.cfg.AutoWidth != nil {
		return *d.cfg.AutoWidth
	}
	return true
}

func (t *Table) maxVisibleLines() int {
	if t.visibleLines > 0 {
		return t.visibleLines
	}
	if d := t.document(); d != nil && d.cfg.VisibleLines > 0 {
		return d.cfg.VisibleLines
	}
	return DefaultVisibleLines
}

func (t *Table) targetWidth() int {
	if t.width > 0 {
		return t.width
	}
	return t.parentWidth()
}

// AddHeader adds a single header row. Entries are titles, *Column or Column
// values.
func (t *Table) AddHeader(entries ...any) error {
	return t.AddHeaderRows(entries)
}

// AddHeaderRows adds a multi-line header. The first header row creates the
// columns, entries spanning several columns reserving that many; later rows
// must cover the same number of columns and replace the column definitions at
// their offsets. A rule row follows the header.
func (t *Table) AddHeaderRows(rows ...[]any) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no header rows", ErrInvalidHeader)
	}

	parsed := make([][]*Column, len(rows))
	want := len(t.columns)
	for i, entries := range rows {
		if len(entries) == 0 {
			return fmt.Errorf("%w: header row %d is empty", ErrInvalidHeader, i)
		}
		cols, err := t.headerColumns(entries)
		if err != nil {
			return err
		}
		span := 0
		for _, c := range cols {
			span += c.colspan
		}
		if want == 0 {
			want = span
		}
		if span != want {
			return fmt.Errorf("%w: header row %d covers %d columns, table has %d: %s",
				ErrColumnCountMismatch, i, span, want, columnTitles(cols))
		}
		parsed[i] = cols
	}

	for _, cols := range parsed {
		if len(t.columns) == 0 {
			for _, col := range cols {
				t.addColumn(col)
				for range col.colspan - 1 {
					cp := col.clone()
					cp.colspan = 1
					t.addColumn(cp)
				}
			}
		}

		colno := 0
		cells := make([]*Cell, len(cols))
		for i, col := range cols {
			t.columns[colno] = col
			colno += col.colspan

			align := col.align
			if align == AlignAuto {
				align = AlignRight
			}
			opts := []CellOption{CellSpan(col.colspan), CellAlign(align)}
			if col.wrap {
				opts = append(opts, CellWrap())
			}
			if !col.top {
				opts = append(opts, CellBottom())
			}
			cells[i] = NewCell(col.title, opts...)
		}

		row, err := NewRow(cells, RowStyle(Header))
		if err != nil {
			return err
		}
		row.header = true
		if err := t.appendRow(row); err != nil {
			return err
		}
	}
	return t.AddRow("-")
}

func (t *Table) headerColumns(entries []any) ([]*Column, error) {
	cols := make([]*Column, len(entries))
	for i, e := range entries {
		switch v := e.(type) {
		case string:
			cols[i] = NewColumn(v, ColSeparator(t.columnSeparator()))
		case *Column:
			cols[i] = v.clone()
		case Column:
			cols[i] = v.clone()
		default:
			return nil, fmt.Errorf("%w: header entry %d is %T", ErrUnsupportedRowType, i, e)
		}
	}
	return cols, nil
}

func columnTitles(cols []*Column) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = fmt.Sprintf("%s,colspan=%d", c.title, c.colspan)
	}
	return "[" + strings.Join(titles, " ") + "]"
}

// AddRow appends a row. values is a string (a full-width line, or a rule
// when it is a single character), a []any, []string or []*Cell, or a *Row.
func (t *Table) AddRow(values any, opts ...RowOption) error {
	row, ok := values.(*Row)
	if ok {
		for _, opt := range opts {
			opt(row)
		}
	} else {
		var err error
		if row, err = NewRow(values, opts...); err != nil {
			return err
		}
	}
	return t.appendRow(row)
}

// AddRows appends several cell rows with the same options.
func (t *Table) AddRows(rows [][]any, opts ...RowOption) error {
	for _, r := range rows {
		if err := t.AddRow(r, opts...); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) appendRow(row *Row) error {
	switch row.kind {
	case rowText, rowRule:
		if len(t.columns) == 0 {
			t.addColumn(NewColumn("", ColSeparator(t.columnSeparator())))
		}
	default:
		span := row.span()
		switch {
		case span == 0:
			return fmt.Errorf("%w: row has no cells", ErrColumnCountMismatch)
		case len(t.columns) == 0:
			for range span {
				t.addColumn(NewColumn("", ColSeparator(t.columnSeparator())))
			}
		case span != len(t.columns):
			return fmt.Errorf("%w: want %d, got %d: %v",
				ErrColumnCountMismatch, len(t.columns), span, row.values)
		}
	}
	if row.rank != RankNone {
		t.ranked = true
	}
	t.rows = append(t.rows, row)
	t.invalidate()
	return nil
}

func (t *Table) addColumn(c *Column) {
	t.columns = append(t.columns, c)
}

// renderRow builds the output lines of one row. Cells spill over several
// lines when they contain line breaks or wrap.
func (t *Table) renderRow(row *Row, rc *renderContext, html bool) []string {
	cols := t.layoutCols
	ar := t.autoReplace()

	cellLines := make([][]string, len(row.cells))
	height := 0
	for n, c := range row.cells {
		if cols[n].hidden || c.covered() {
			continue
		}
		cellLines[n] = c.lines(cols[n], row.spanWidth(cols, n), ar, html)
		height = max(height, len(cellLines[n]))
	}

	pad := make([]int, len(row.cells))
	for n, c := range row.cells {
		if !c.covered() && c.bottom {
			pad[n] = height - len(cellLines[n])
		}
	}

	out := make([]string, 0, height)
	for r := range height {
		var sb strings.Builder
		first := true
		for n, c := range row.cells {
			col := cols[n]
			if c.covered() || col.hidden {
				continue
			}
			width := row.cellWidth(cols, n)
			if width == 0 {
				continue
			}
			if !first {
				sb.WriteString(col.separator)
			}
			first = false

			i := r - pad[n]
			if i < 0 || i >= len(cellLines[n]) {
				sb.WriteString(strings.Repeat(" ", width))
				continue
			}
			sb.WriteString(c.render(cellLines[n][i], width, col, row, rc, html))
		}
		out = append(out, sb.String())
	}
	return out
}

func (t *Table) lines(rc *renderContext, html bool) []string {
	t.layout()
	var out []string
	for _, row := range t.rows {
		out = append(out, t.renderRow(row, rc, html)...)
	}
	return out
}

// data returns the text of every cell, one slice per row.
func (t *Table) data() [][]string {
	t.layout()
	ar := t.autoReplace()
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		texts := make([]string, len(t.layoutCols))
		for n, col := range t.layoutCols {
			texts[n] = row.cells[n].text(col, ar, false)
		}
		out[i] = texts
	}
	return out
}
