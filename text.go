package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

func (d *Document) renderText(rc *renderContext) string {
	var sb strings.Builder
	for _, c := range d.children {
		sb.WriteString(c.renderText(rc))
	}
	return sb.String()
}

func (s *Section) renderText(rc *renderContext) string {
	banner := []string{""}
	if s.topLevel() {
		w := max(0, s.parentWidth()-s.indentWidth())
		banner = append(banner, strings.Repeat("=", w), s.title, strings.Repeat("-", w))
	} else {
		banner = append(banner, s.title, strings.Repeat("=", runewidth.StringWidth(s.title)))
	}

	var sb strings.Builder
	sb.WriteString(s.addIndent(strings.Join(banner, "\n") + "\n"))
	for _, c := range s.children {
		sb.WriteString(c.renderText(rc))
	}
	if s.topLevel() {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Table) renderText(rc *renderContext) string {
	return "\n" + t.addIndent(strings.Join(t.lines(rc, false), "\n")) + "\n"
}

func (t *TextBlock) renderText(*renderContext) string {
	return "\n" + t.addIndent(t.text) + "\n"
}

func (q *QueryTrace) renderText(rc *renderContext) string {
	if len(q.queries) == 0 {
		return ""
	}
	inner := NewTable(WithAutoWidth(false), WithLeftAlignedColumns(0), WithAutoReplace(map[string]string{}))
	for _, tq := range q.queries {
		_ = inner.AddRow(fmt.Sprintf("---- query took %3.1f sec ----", tq.Duration.Seconds()))
		_ = inner.AddRow([]any{FormatQuery(tq.Statement)})
		_ = inner.AddRow("")
	}
	return q.addIndent(inner.renderText(rc)) + "\n"
}

func (*pageHeader) renderText(*renderContext) string { return "" }

func (*pageFooter) renderText(*renderContext) string { return "" }
