package report_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/report"
)

type fakeHistory struct {
	queries []report.TracedQuery
}

func (f *fakeHistory) History() []report.TracedQuery { return f.queries }

func (f *fakeHistory) ClearHistory() { f.queries = nil }

func TestFormatQuery(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input string
		want  string
	}{
		"clauses and conditions": {
			input: "select  aid,  abalance\n  from pgbench_accounts where aid > 10 and abalance < 0 order by aid",
			want:  "SELECT aid, abalance\nFROM pgbench_accounts\nWHERE aid > 10\n  AND abalance < 0\nORDER BY aid",
		},
		"join stays on one line": {
			input: "select aid from pgbench_accounts left join pgbench_branches on pgbench_accounts.bid = pgbench_branches.bid where aid = 1 or aid = 2",
			want: "SELECT aid\nFROM pgbench_accounts\n" +
				"LEFT JOIN pgbench_branches ON pgbench_accounts.bid = pgbench_branches.bid\n" +
				"WHERE aid = 1\n  OR aid = 2",
		},
		"subquery is not split": {
			input: "select aid from pgbench_accounts where bid in (select bid from pgbench_branches where bid > 1)",
			want:  "SELECT aid\nFROM pgbench_accounts\nWHERE bid IN (SELECT bid FROM pgbench_branches WHERE bid > 1)",
		},
		"literals are kept": {
			input: "select 'from  where' from pgbench_accounts",
			want:  "SELECT 'from  where'\nFROM pgbench_accounts",
		},
		"comment ends the line": {
			input: "select aid -- the key\n, bid from pgbench_accounts",
			want:  "SELECT aid -- the key\n, bid\nFROM pgbench_accounts",
		},
		"blank": {input: "  \n ", want: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, report.FormatQuery(tt.input))
		})
	}
}

func TestQueryTrace(t *testing.T) {
	t.Parallel()
	src := &fakeHistory{queries: []report.TracedQuery{
		{Statement: "select aid from pgbench_accounts", Duration: 1500 * time.Millisecond},
		{Statement: "select bid from pgbench_branches", Duration: 200 * time.Millisecond},
	}}

	doc := newDoc(80)
	sec := doc.AddSection("S")
	trace := sec.AddQueryTrace(src)

	assert.Empty(t, src.History(), "the trace drains its source")
	assert.Len(t, trace.Queries(), 2)
	assert.Equal(t, 1700*time.Millisecond, trace.Total())

	text := marshal(t, report.Text, trace)
	assert.Contains(t, text, "\n  ---- query took 1.5 sec ----")
	assert.Contains(t, text, "\n  SELECT aid ")
	assert.Contains(t, text, "\n  FROM pgbench_accounts")
	assert.Contains(t, text, "---- query took 0.2 sec ----")

	html := marshal(t, report.HTML, trace)
	assert.Contains(t, html, "<section class='header_notes_body'><div class='sql_query_list'><pre><code class='sql'>--query took 1.5 sec\n")
	assert.Contains(t, html, "pgbench_accounts")
	assert.NotContains(t, html, "---- query took")

	var node struct {
		NodeType string   `json:"node_type"`
		Data     []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(marshal(t, report.JSON, trace)), &node))
	assert.Equal(t, "sql_query_list", node.NodeType)
	assert.Equal(t, []string{
		"SELECT aid\nFROM pgbench_accounts",
		"SELECT bid\nFROM pgbench_branches",
	}, node.Data)
}

func TestQueryTraceShortStatement(t *testing.T) {
	t.Parallel()
	src := &fakeHistory{queries: []report.TracedQuery{{Statement: "x", Duration: time.Second}}}
	trace := newDoc(80).AddSection("S").AddQueryTrace(src)

	text := marshal(t, report.Text, trace)
	assert.Contains(t, text, "---- query took 1.0 sec ----")
	assert.Contains(t, text, "\n  x ")
	assert.NotContains(t, text, "xx")
}

func TestQueryTraceEmpty(t *testing.T) {
	t.Parallel()
	for name, src := range map[string]report.QueryHistory{
		"nil source":    nil,
		"empty history": &fakeHistory{},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			trace := report.NewQueryTrace(src)
			assert.Empty(t, trace.Queries())
			assert.Zero(t, trace.Total())
			assert.Empty(t, marshal(t, report.Text, trace))
			assert.Empty(t, marshal(t, report.HTML, trace))
		})
	}
}
