package report

import (
	"encoding/json"
	"io"
)

// jsonNode is the JSON shape of every node except the document, which is an
// array of its children.
type jsonNode struct {
	NodeType string `json:"node_type"`
	Title    string `json:"title,omitempty"`
	Data     any    `json:"data"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func childrenJSON(rc *renderContext, children []Node) []any {
	out := make([]any, 0, len(children))
	for _, c := range children {
		if v := c.renderJSON(rc); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (d *Document) renderJSON(rc *renderContext) any {
	return childrenJSON(rc, d.children)
}

func (s *Section) renderJSON(rc *renderContext) any {
	return jsonNode{NodeType: "section", Title: s.title, Data: childrenJSON(rc, s.children)}
}

func (t *Table) renderJSON(*renderContext) any {
	return jsonNode{NodeType: "table", Data: t.data()}
}

func (t *TextBlock) renderJSON(*renderContext) any {
	return jsonNode{NodeType: "text", Data: t.text}
}

func (q *QueryTrace) renderJSON(*renderContext) any {
	return jsonNode{NodeType: "sql_query_list", Data: q.statements()}
}

func (*pageHeader) renderJSON(*renderContext) any { return nil }

func (*pageFooter) renderJSON(*renderContext) any { return nil }
