package report

import (
	"fmt"
	"strings"
)

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-size: 12px; margin: 8px 8px 0 8px; }
h1, h2 { font-size: 12px; font-family: verdana, sans-serif; padding: 2px 0 2px 20px; }
h1 { background-color: #336; color: white; line-height: 16px; margin: 0; }
h2 { background-color: #ccc; color: black; line-height: 12px; margin: 5px 0; }
div.section { margin: 4px 0 8px 0; padding: 10px 15px; background-color: #eee; }
div.sql_query_list { padding: 10px; background-color: #272822; }
div.sql_query_list pre { color: #f8f8f2; font-size: 9px; font-family: monospace, Courier; }
pre { font-size: 12px; padding: 0; margin: 0; }
pre pre { margin: 2px 0; }
div.table_tail_container { padding: 0; margin: 0; }
div.table_tail_body { background-color: #d8d8d8; display: none; }
div.table_tail_toggle_show { color: #339; padding-left: 30px; border-top: 1px dashed #ccc; margin-top: 2px; }
div.table_tail_toggle_hide { color: #339; padding-left: 30px; background-color: #ccc; display: none; }
div.table_tail_toggle_show:hover, div.table_tail_toggle_hide:hover { cursor: pointer; }
.header_notes { font-size: 9px; float: right; font-weight: normal; padding-right: 10px; cursor: pointer; }
.header_notes span { margin-left: 5px; }
h1 .header_notes { color: #ccc; }
h2 .header_notes { color: #444; }
.header_notes_body { display: none; }
#footer {
    padding: 5px; z-index: 10; font-family: arial, sans-serif; min-height: 20px;
    position: fixed; bottom: 0; left: 0; width: 100%;
    background: #ccc; box-shadow: 0 0 5px #aaa; border-top: 1px solid #888;
}
#footer div { padding-left: 10px; color: #339; cursor: pointer; font-size: 12px; max-width: 250px; }
#footer div:hover { background-color: #aaa; color: #fff; }
#footer div.selected { background-color: #888; color: #fff; }
#footer td { vertical-align: top; }
</style>
<script>
function toggleTail(el) {
    var box = el.parentNode;
    var open = box.querySelector('.table_tail_body').style.display === 'block';
    box.querySelector('.table_tail_body').style.display = open ? 'none' : 'block';
    box.querySelector('.table_tail_toggle_show').style.display = open ? 'block' : 'none';
    box.querySelector('.table_tail_toggle_hide').style.display = open ? 'none' : 'block';
}

function toggleNotes(el) {
    var notes = el.parentNode.parentNode.getElementsByClassName('header_notes_body');
    for (var i = 0; i < notes.length; i++) {
        var open = notes[i].style.display === 'block';
        notes[i].style.display = open ? 'none' : 'block';
        el.lastElementChild.innerHTML = open ? '&#9656;' : '&#9662;';
    }
}

function markCurrentSection() {
    var anchors = document.getElementsByClassName('section-header');
    var current = null;
    for (var i = 0; i < anchors.length; i++) {
        var link = document.getElementById('link-to-' + anchors[i].name);
        if (!link) continue;
        link.className = '';
        if (anchors[i].getBoundingClientRect().top < 100) current = link;
    }
    if (current) current.className = 'selected';
}

window.onload = function () {
    var anchors = document.getElementsByClassName('section-header');
    var perColumn = Math.max(1, Math.ceil(anchors.length / 6));
    var toc = "<table style='width: 95%;'><tr><td>";
    for (var i = 0; i < anchors.length; i++) {
        if (i && i % perColumn === 0) toc += '</td><td>';
        var name = anchors[i].name;
        var title = anchors[i].nextElementSibling.firstChild.textContent;
        toc += "<div id='link-to-" + name + "' onclick=\"location.href='#" + name + "';\">" + title + '</div>';
    }
    toc += '</td></tr></table>';
    var footer = document.getElementById('footer');
    footer.innerHTML = toc;
    document.getElementById('body').style.paddingBottom = footer.clientHeight + 'px';
    markCurrentSection();
};

window.onscroll = markCurrentSection;
</script>
</head>
<body>
<div id='container'>
<div id='footer'></div>
<div id='body'>
`

const pageFoot = "</div></div></body></html>\n"

func (d *Document) renderHTML(rc *renderContext) string {
	var sb strings.Builder
	for _, c := range d.children {
		sb.WriteString(c.renderHTML(rc))
	}
	return sb.String()
}

func (s *Section) renderHTML(rc *renderContext) string {
	var sb strings.Builder

	title := EscapeHTML(s.title)
	if len(s.notes) > 0 {
		title += fmt.Sprintf("<span class='header_notes' onclick='toggleNotes(this);'>%s%s<span>&#9656;</span></span>",
			EscapeHTML(s.noteTitle), EscapeHTML(strings.Join(s.notes, " | ")))
	}
	if s.topLevel() {
		fmt.Fprintf(&sb, "<div><a class='section-header' name='section%d'></a><h1>%s</h1>", s.id, title)
	} else {
		fmt.Fprintf(&sb, "<div><h2>%s</h2>", title)
	}

	sb.WriteString("<div class='section'>")
	first := true
	for _, c := range s.children {
		switch c.(type) {
		case *Table, *TextBlock:
			if !first {
				sb.WriteString("<br>")
			}
			first = false
		}
		sb.WriteString(c.renderHTML(rc))
	}
	sb.WriteString("</div></div>")
	return sb.String()
}

func (t *Table) renderHTML(rc *renderContext) string {
	lines := t.lines(rc, true)
	visible := min(t.maxVisibleLines(), len(lines))

	var sb strings.Builder
	sb.WriteString("<pre>")
	sb.WriteString(strings.Join(lines[:visible], "\n"))
	sb.WriteString("</pre>")
	if rest := lines[visible:]; len(rest) > 0 {
		fmt.Fprintf(&sb, "<div class='table_tail_container'>"+
			"<div class='table_tail_toggle_show' onclick='toggleTail(this);'>&darr; View the rest %d lines...</div>"+
			"<div class='table_tail_toggle_hide' onclick='toggleTail(this);'>&uarr; Collapse the tail</div>"+
			"<div class='table_tail_body'><pre>%s</pre></div></div>",
			len(rest), strings.Join(rest, "\n"))
	}
	return sb.String()
}

func (t *TextBlock) renderHTML(*renderContext) string {
	if t.rawHTML {
		return t.text
	}
	return "<br><pre>" + EscapeHTML(t.text) + "</pre><br>"
}

func (q *QueryTrace) renderHTML(*renderContext) string {
	if len(q.queries) == 0 {
		return ""
	}
	parts := make([]string, len(q.queries))
	for i, tq := range q.queries {
		parts[i] = fmt.Sprintf("--query took %3.1f sec\n", tq.Duration.Seconds()) +
			highlightSQL(FormatQuery(tq.Statement)) + "\n"
	}
	return "<section class='header_notes_body'><div class='sql_query_list'><pre><code class='sql'>" +
		strings.Join(parts, "\n") + "</code></pre></div></section>"
}

func (*pageHeader) renderHTML(*renderContext) string { return pageHead }

func (*pageFooter) renderHTML(*renderContext) string { return pageFoot }
