package report

import (
	"slices"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
)

// widthBuckets are the fractions (in quarters) of the target width a table
// is stretched to. The narrowest bucket that fits wins, so small tables stay
// compact and large ones use the whole width.
var widthBuckets = []int{1, 2, 3, 4}

// layout measures every cell and decides column widths. It runs once per
// change to the table and always starts from the requested minimums, so the
// result depends only on the table's content and target width.
func (t *Table) layout() {
	if t.laidOut {
		return
	}

	cols := slices.Clone(t.columns)
	if t.ranked {
		if t.rankCol == nil {
			t.rankCol = NewColumn("MAX", ColSeparator(t.columnSeparator()))
		}
		cols = append(cols, t.rankCol)
	}
	for i, c := range cols {
		c.reset()
		if slices.Contains(t.leftAligned, i) {
			c.align = AlignLeft
		}
	}

	ar := t.autoReplace()
	maxRowWidth := 0
	for _, row := range t.rows {
		row.initCells(len(cols), t.ranked)
		if row.kind != rowCells {
			maxRowWidth = max(maxRowWidth, textWidth(row.text))
			continue
		}
		for n, c := range cols {
			if row.cells[n].colspan == 1 {
				c.Adjust(row.cells[n].width(c, ar))
			}
		}
	}

	// a table of plain lines reads as a text block
	if maxRowWidth > 0 && len(cols) == 1 && cols[0].width == 0 {
		cols[0].Adjust(maxRowWidth)
		cols[0].align = AlignLeft
	}

	fitSpans(t.rows, cols, ar)

	t.layoutCols = cols
	if t.autoWidth() {
		t.allocate(cols)
	}
	t.finalWidth, _ = measure(cols)
	t.laidOut = true

	t.logger().WithFields(logrus.Fields{
		"node":   t.id,
		"width":  t.finalWidth,
		"widths": columnWidths(cols),
	}).Debug("table laid out")
}

// fitSpans widens the last visible column of a span when the spanning cell's
// content does not fit the columns it covers.
func fitSpans(rows []*Row, cols []*Column, ar map[string]string) {
	for _, row := range rows {
		if row.kind != rowCells {
			continue
		}
		for n, c := range row.cells {
			if c.colspan < 2 || cols[n].hidden {
				continue
			}
			need := c.width(cols[n], ar) - row.spanWidth(cols, n)
			if need <= 0 {
				continue
			}
			end := min(n+c.colspan, len(cols))
			for i := end - 1; i >= n; i-- {
				if !cols[i].hidden {
					cols[i].width += need
					cols[i].widthMax = max(cols[i].widthMax, cols[i].width)
					break
				}
			}
		}
	}
}

// measure returns the total width of the visible columns including
// separators, and the total starvation: how much content the current widths
// cut off.
func measure(cols []*Column) (width, starvation int) {
	first := true
	for _, c := range cols {
		if c.hidden {
			continue
		}
		if !first {
			width += runewidth.StringWidth(c.separator)
		}
		first = false
		starvation += c.starvation()
		width += c.width
	}
	return width, starvation
}

// allocate picks the narrowest width bucket that holds the table and
// distributes the spare width among the columns.
func (t *Table) allocate(cols []*Column) {
	curr, starvation := measure(cols)
	target := t.targetWidth()
	indent := t.indentWidth() + len(defaultIndent)

	for i, quarters := range widthBuckets {
		bias := target * quarters / 4
		last := i == len(widthBuckets)-1
		if curr+starvation+indent > bias && !last {
			continue
		}
		if curr > 0 && curr < bias {
			distribute(cols, bias-indent-curr)
			t.logger().WithFields(logrus.Fields{
				"node":   t.id,
				"target": target,
				"bucket": bias,
			}).Debug("table width bucket chosen")
			return
		}
	}
}

// distribute hands out slack columns of width. Starved columns come first,
// those that cannot wrap before those that can, each up to its own
// starvation. What is left is shared in proportion to each column's content
// width plus separator, skipping a right-aligned first column so numbers do
// not drift away from the left edge. The share uses the D'Hondt method, so a
// larger slack never shrinks any column.
func distribute(cols []*Column, slack int) {
	if slack <= 0 {
		return
	}

	var visible []int
	for i, c := range cols {
		if !c.hidden {
			visible = append(visible, i)
		}
	}
	if len(visible) == 0 {
		return
	}

	for _, wrap := range []bool{false, true} {
		starved := make([]int, 0, len(visible))
		for _, i := range visible {
			if cols[i].wrap == wrap && cols[i].starvation() > 0 {
				starved = append(starved, i)
			}
		}
		sort.SliceStable(starved, func(a, b int) bool {
			return cols[starved[a]].starvation() > cols[starved[b]].starvation()
		})
		for _, i := range starved {
			give := min(slack, cols[i].starvation())
			cols[i].width += give
			slack -= give
		}
	}

	first := visible[0]
	var eligible []int
	var weights []int
	for _, i := range visible {
		if i == first && !cols[i].left() {
			continue
		}
		w := cols[i].widthMax + runewidth.StringWidth(cols[i].separator)
		if w <= 0 {
			continue
		}
		eligible = append(eligible, i)
		weights = append(weights, w)
	}

	given := make([]int, len(eligible))
	for ; slack > 0 && len(eligible) > 0; slack-- {
		best := 0
		for k := 1; k < len(eligible); k++ {
			// weights[k]/(given[k]+1) > weights[best]/(given[best]+1)
			if weights[k]*(given[best]+1) > weights[best]*(given[k]+1) {
				best = k
			}
		}
		given[best]++
	}
	for k, i := range eligible {
		cols[i].width += given[k]
	}

	cols[first].width += slack
}

func columnWidths(cols []*Column) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.width
	}
	return out
}
