package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// TracedQuery is one executed statement and how long it took.
type TracedQuery struct {
	Statement string
	Duration  time.Duration
}

// QueryHistory is a source of executed statements, typically a database
// handle that records what it ran.
type QueryHistory interface {
	History() []TracedQuery
	ClearHistory()
}

// QueryTrace lists the statements a section's data came from. In HTML the
// list is hidden behind the section's header notes.
type QueryTrace struct {
	node

	queries []TracedQuery
}

// NewQueryTrace snapshots src's history and clears it, so the next trace
// only shows statements run after this one.
func NewQueryTrace(src QueryHistory) *QueryTrace {
	q := &QueryTrace{}
	q.init(q)
	if src == nil {
		return q
	}
	q.queries = slices.Clone(src.History())
	src.ClearHistory()
	if len(q.queries) > 0 {
		q.headerNote = fmt.Sprintf("%.1f sec", q.Total().Seconds())
	}
	return q
}

func (q *QueryTrace) Queries() []TracedQuery { return slices.Clone(q.queries) }

// Total is the summed duration of all traced statements.
func (q *QueryTrace) Total() time.Duration {
	var total time.Duration
	for _, tq := range q.queries {
		total += tq.Duration
	}
	return total
}

func (q *QueryTrace) statements() []string {
	out := make([]string, len(q.queries))
	for i, tq := range q.queries {
		out[i] = FormatQuery(tq.Statement)
	}
	return out
}

const sqlStyle = "monokai"

var (
	clauseKeywords = map[string]bool{
		"FROM": true, "WHERE": true, "GROUP": true, "ORDER": true, "HAVING": true,
		"LIMIT": true, "OFFSET": true, "UNION": true, "JOIN": true,
		"LEFT": true, "RIGHT": true, "INNER": true, "FULL": true, "CROSS": true,
	}
	joinModifiers = map[string]bool{
		"LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true,
		"FULL": true, "CROSS": true, "NATURAL": true,
	}
	logicKeywords = map[string]bool{"AND": true, "OR": true}
)

func sqlLexer() chroma.Lexer {
	if l := lexers.Get("sql"); l != nil {
		return l
	}
	return lexers.Fallback
}

// FormatQuery normalizes an SQL statement for display: keywords are upper
// cased, runs of whitespace collapse to one space, top-level clauses start on
// a new line and AND/OR conditions of WHERE and HAVING are indented below
// them. Literals and comments are kept as they are.
func FormatQuery(stmt string) string {
	tokens, err := chroma.Tokenise(sqlLexer(), nil, stmt)
	if err != nil {
		return strings.TrimSpace(stmt)
	}

	var sb strings.Builder
	space, newline := false, false
	depth := 0
	clause, prev := "", ""

	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		if strings.TrimSpace(tok.Value) == "" {
			space = true
			continue
		}

		text := tok.Value
		keyword := isKeyword(tok)
		if keyword {
			text = strings.ToUpper(text)
		}

		if depth == 0 && keyword {
			switch {
			case clauseKeywords[text] && !(joinModifiers[prev] && (text == "JOIN" || joinModifiers[text])):
				newline = true
				clause = text
			case logicKeywords[text] && (clause == "WHERE" || clause == "HAVING"):
				newline = true
				text = "  " + text
			}
		}

		if sb.Len() > 0 {
			switch {
			case newline:
				sb.WriteByte('\n')
			case space:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(strings.TrimRight(text, "\n"))

		newline = tok.Type.InCategory(chroma.Comment) && strings.HasPrefix(text, "--")
		space = false
		depth += strings.Count(text, "(") - strings.Count(text, ")")
		depth = max(depth, 0)
		if keyword {
			prev = strings.TrimSpace(text)
		} else {
			prev = ""
		}
	}
	return strings.TrimSpace(sb.String())
}

func isKeyword(tok chroma.Token) bool {
	if tok.Type.InCategory(chroma.Keyword) || tok.Type == chroma.OperatorWord {
		return true
	}
	// identifiers the lexer does not know as keywords but that structure a
	// statement
	upper := strings.ToUpper(tok.Value)
	return tok.Type.InCategory(chroma.Name) &&
		(clauseKeywords[upper] || joinModifiers[upper] || logicKeywords[upper])
}

// highlightSQL renders stmt as escaped HTML with inline token colors.
func highlightSQL(stmt string) string {
	tokens, err := chroma.Tokenise(sqlLexer(), nil, stmt)
	if err != nil {
		return EscapeHTML(stmt)
	}
	style := styles.Get(sqlStyle)

	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		text := EscapeHTML(tok.Value)
		entry := style.Get(tok.Type)
		if !entry.Colour.IsSet() && entry.Bold != chroma.Yes {
			sb.WriteString(text)
			continue
		}
		sb.WriteString("<span style='")
		if entry.Colour.IsSet() {
			fmt.Fprintf(&sb, "color: %s;", entry.Colour.String())
		}
		if entry.Bold == chroma.Yes {
			sb.WriteString(" font-weight: bold;")
		}
		sb.WriteString("'>")
		sb.WriteString(text)
		sb.WriteString("</span>")
	}
	return sb.String()
}
