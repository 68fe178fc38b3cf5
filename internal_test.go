package report

import (
	"bytes"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJustify(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		s     string
		width int
		align Alignment
		want  string
	}{
		"left":          {s: "abc", width: 5, align: AlignLeft, want: "abc  "},
		"right":         {s: "abc", width: 5, align: AlignRight, want: "  abc"},
		"auto is right": {s: "abc", width: 5, align: AlignAuto, want: "  abc"},
		"center":        {s: "ab", width: 5, align: AlignCenter, want: " ab  "},
		"exact":         {s: "abc", width: 3, align: AlignLeft, want: "abc"},
		"ellipsis":      {s: "abcdefgh", width: 5, align: AlignLeft, want: "ab..."},
		"narrow cut":    {s: "abcdef", width: 3, align: AlignLeft, want: "abc"},
		"zero width":    {s: "abc", width: 0, align: AlignRight, want: "abc"},
		"wide runes":    {s: "日本", width: 6, align: AlignRight, want: "  日本"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, justify(tt.s, tt.width, tt.align))
		})
	}
}

func TestWrapWords(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		s     string
		width int
		want  []string
	}{
		"greedy":         {s: "the quick brown fox", width: 9, want: []string{"the quick", "brown fox"}},
		"collapses":      {s: "a  b\nc", width: 10, want: []string{"a b c"}},
		"long word":      {s: "abcdefghij", width: 4, want: []string{"abcd", "efgh", "ij"}},
		"long word tail": {s: "abcdef gh", width: 4, want: []string{"abcd", "ef", "gh"}},
		"empty":          {s: "  ", width: 5, want: nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wrapWords(tt.s, tt.width))
		})
	}
}

func TestHardWrap(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"abcd", "ef"}, hardWrap("abcdef", 4))
	assert.Equal(t, []string{"abc"}, hardWrap("abc", 0))
	assert.Equal(t, []string{"日", "本"}, hardWrap("日本", 1), "a rune wider than the column still advances")
}

func TestTextWidth(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, textWidth("ab\nabcde\n"))
	assert.Equal(t, 4, textWidth("日本"))
	assert.Zero(t, textWidth(""))
}

func TestObfuscate(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"Acme Widgets, Inc.": "Xxxx Xxxxxxx, Inc.",
		"The Postgres Group": "The Xxxxxxxx Group",
		"Initech LLC":        "Xxxxxxx LLC",
		"A&B Co":             "A&B Co",
		"O'Brien 42":         "O'Xxxxx xx",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Obfuscate(in), in)
	}
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;&apos;&#92;", EscapeHTML(`<a href="x">&'\`))
}

func testColumns() []*Column {
	return []*Column{
		NewColumn("A", ColWidth(5)),
		{title: "B", separator: DefaultColumnSeparator, colspan: 1, wrap: true, widthMax: 12, width: 8},
		NewColumn("C", ColWidth(-3)),
	}
}

func TestDistributeFeedsStarvedColumnsFirst(t *testing.T) {
	t.Parallel()
	cols := testColumns()
	distribute(cols, 10)

	// B is fed its 4 starved columns, the other 6 are shared 14:5 between
	// B and C; a right-aligned first column keeps its width
	assert.Equal(t, []int{5, 17, 4}, columnWidths(cols))
}

func TestDistributeNonWrapBeforeWrap(t *testing.T) {
	t.Parallel()
	cols := []*Column{
		{title: "W", separator: DefaultColumnSeparator, colspan: 1, wrap: true, widthMax: 20, width: 10},
		{title: "N", separator: DefaultColumnSeparator, colspan: 1, widthMax: 20, width: 10},
	}
	distribute(cols, 6)
	assert.Equal(t, 10, cols[0].width)
	assert.Equal(t, 16, cols[1].width)
}

func TestDistributeIsMonotone(t *testing.T) {
	t.Parallel()
	widths := func(slack int) []int {
		cols := testColumns()
		distribute(cols, slack)
		return columnWidths(cols)
	}

	prev := widths(0)
	assert.Equal(t, []int{5, 8, 3}, prev)
	for slack := 1; slack <= 60; slack++ {
		cur := widths(slack)
		total := 0
		for i := range cur {
			assert.GreaterOrEqual(t, cur[i], prev[i], "slack %d column %d", slack, i)
			total += cur[i]
		}
		assert.Equal(t, 16+slack, total, "slack %d is used up", slack)
		prev = cur
	}
}

func TestDistributeRemainderGoesToFirstColumn(t *testing.T) {
	t.Parallel()
	cols := []*Column{
		NewColumn("A", ColWidth(4)),
		{title: "H", hidden: true, separator: DefaultColumnSeparator, colspan: 1},
	}
	distribute(cols, 7)
	assert.Equal(t, 11, cols[0].width)
	assert.Zero(t, cols[1].width)
}

func TestUseColors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.True(t, useColors(ColorAlways, nil))
	assert.True(t, useColors(ColorAlways, &buf))
	assert.False(t, useColors(ColorNever, os.Stdout))
	assert.False(t, useColors(ColorAuto, nil))
	assert.False(t, useColors(ColorAuto, &buf))
}

func TestUseColorsRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, useColors(ColorAuto, os.Stdout))
	assert.True(t, useColors(ColorAlways, os.Stdout))
}

func TestStyleWrap(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		style  Style
		html   bool
		colors bool
		want   string
	}{
		"plain html":       {style: Plain, html: true, want: "x"},
		"header html":      {style: Header, html: true, want: "<b>x</b>"},
		"header text":      {style: Header, colors: true, want: "x"},
		"bold text":        {style: Bold, colors: true, want: "\x1b[1mx\x1b[0m"},
		"color off":        {style: Red, want: "x"},
		"red text":         {style: Red, colors: true, want: "\x1b[1;31mx\x1b[0m"},
		"gray text":        {style: Gray, colors: true, want: "\x1b[1;90mx\x1b[0m"},
		"bg gray text":     {style: BgGray, colors: true, want: "\x1b[30;100mx\x1b[0m"},
		"red html":         {style: Red, html: true, want: "<span style='color: red;'>x</span>"},
		"bg green html":    {style: BgGreen, html: true, want: "<span style='background-color: #9acd82;'>x</span>"},
		"bg magenta html":  {style: BgMagenta, html: true, want: "<span style='background-color: magenta;'>x</span>"},
		"unknown is plain": {style: Style(99), html: true, colors: true, want: "x"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.style.wrap("x", tt.html, tt.colors))
		})
	}
	assert.Equal(t, "bg-green", BgGreen.String())
	assert.Equal(t, "style(99)", Style(99).String())
}

type stringer struct{}

func (stringer) String() string { return "str" }

func TestToString(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		v    any
		want string
	}{
		"nil":      {v: nil, want: ""},
		"string":   {v: "s", want: "s"},
		"bytes":    {v: []byte("b"), want: "b"},
		"int":      {v: 42, want: "42"},
		"float":    {v: 0.1, want: "0.1"},
		"big":      {v: 1e21, want: "1000000000000000000000"},
		"float32":  {v: float32(2.5), want: "2.5"},
		"time":     {v: time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC), want: "2024-03-01 12:30:05"},
		"stringer": {v: stringer{}, want: "str"},
		"error":    {v: errors.New("boom"), want: "boom"},
		"bool":     {v: true, want: "true"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, toString(tt.v))
		})
	}
}

func TestToFloat(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		v    any
		want float64
		ok   bool
	}{
		"int":            {v: 3, want: 3, ok: true},
		"uint64":         {v: uint64(7), want: 7, ok: true},
		"huge uint64":    {v: uint64(math.MaxUint64), ok: false},
		"float":          {v: 2.5, want: 2.5, ok: true},
		"numeric string": {v: " 3.5 ", want: 3.5, ok: true},
		"numeric bytes":  {v: []byte("4"), want: 4, ok: true},
		"text":           {v: "x", ok: false},
		"nan":            {v: "NaN", ok: false},
		"inf":            {v: "inf", ok: false},
		"nil":            {v: nil, ok: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := toFloat(tt.v)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPatternFallback(t *testing.T) {
	t.Parallel()
	s, ok := Pattern("%.2f").apply(1.005)
	assert.True(t, ok)
	assert.Equal(t, "1.00", s)

	_, ok = Pattern("%d").apply("x")
	assert.False(t, ok)
}

func TestPatternConvertsNumbers(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		pattern Pattern
		v       any
		want    string
	}{
		"int as float":     {pattern: "%.1f", v: 3, want: "3.0"},
		"int as exponent":  {pattern: "%e", v: int64(1500), want: "1.500000e+03"},
		"float as int":     {pattern: "%d", v: 3.7, want: "3"},
		"float32 as int":   {pattern: "%d", v: float32(2.5), want: "2"},
		"escaped percent":  {pattern: "%5.1f%%", v: 50, want: " 50.0%"},
		"leading literal":  {pattern: "%%d %.1f", v: 2, want: "%d 2.0"},
		"int stays int":    {pattern: "%d", v: 7, want: "7"},
		"other verbs kept": {pattern: "%x", v: 255, want: "ff"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s, ok := tt.pattern.apply(tt.v)
			require.True(t, ok)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestAddIndent(t *testing.T) {
	t.Parallel()
	root := NewSection("root")
	child := root.AddSection("child")
	leaf := child.AddText("leaf")

	assert.Equal(t, "a\n\nb", root.addIndent("a\n\nb"))
	assert.Equal(t, "a\n\nb", child.addIndent("a\n\nb"), "children of the root are not indented")
	assert.Equal(t, "  a\n\n  b", leaf.addIndent("a\n\nb"))
	assert.Equal(t, 2, leaf.indentWidth())
}

func TestHighlightSQL(t *testing.T) {
	t.Parallel()
	out := highlightSQL("select '<x>' from pgbench_accounts")

	assert.Contains(t, out, ">select</span>")
	assert.Contains(t, out, "&lt;x&gt;")
	assert.Contains(t, out, "pgbench_accounts")
	assert.NotContains(t, out, "<x>")
	assert.Contains(t, out, "<span style='color: #")
}

func TestCellFormatValue(t *testing.T) {
	t.Parallel()
	col := NewColumn("C")
	ar := map[string]string{"0": "-"}

	text, width := NewCell(nil).formatValue(col, ar, false)
	assert.Equal(t, "-", text)
	assert.Equal(t, 1, width)

	text, _ = ruleCell("=x").formatValue(col, ar, false)
	assert.Equal(t, "=", text)

	text, width = coverCell().formatValue(col, ar, false)
	assert.Empty(t, text)
	assert.Zero(t, width)

	hidden := NewColumn("H", ColHidden())
	_, width = NewCell("value").formatValue(hidden, ar, false)
	assert.Zero(t, width)
}

func TestLayoutIsIdempotent(t *testing.T) {
	t.Parallel()
	tbl := NewTable()
	require.NoError(t, tbl.AddHeader("NAME", Sized("N", 6)))
	require.NoError(t, tbl.AddRow([]any{"a value", 1}))

	tbl.layout()
	first := columnWidths(tbl.layoutCols)
	tbl.invalidate()
	tbl.layout()
	assert.Equal(t, first, columnWidths(tbl.layoutCols))
}
