package report_test

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/report"
)

// --- Helpers ---

func newDoc(width int, opts ...report.Option) *report.Document {
	logger, _ := test.NewNullLogger()
	base := []report.Option{
		report.WithWidth(width),
		report.WithColors(report.ColorNever),
		report.WithLogger(logger),
	}
	return report.NewDocument(append(base, opts...)...)
}

func marshal(t *testing.T, f report.Format, n report.Node) string {
	t.Helper()
	out, err := report.Marshal(f, n)
	require.NoError(t, err)
	return string(out)
}

type errWriter struct{}

func (e *errWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

var errWriteFailed = errors.New("write failed")

// ============================================================
// Tests
// ============================================================

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input   string
		want    report.Format
		wantErr require.ErrorAssertionFunc
	}{
		"text":       {input: "text", want: report.Text, wantErr: require.NoError},
		"txt alias":  {input: "txt", want: report.Text, wantErr: require.NoError},
		"html":       {input: "html", want: report.HTML, wantErr: require.NoError},
		"json":       {input: "json", want: report.JSON, wantErr: require.NoError},
		"mixed case": {input: " JSON ", want: report.JSON, wantErr: require.NoError},
		"unknown":    {input: "xml", want: "", wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := report.ParseFormat(tt.input)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormatUnsupported(t *testing.T) {
	t.Parallel()
	_, err := report.ParseFormat("yaml")
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestFormats(t *testing.T) {
	t.Parallel()
	got := report.Formats()
	assert.Equal(t, []report.Format{report.Text, report.HTML, report.JSON}, got)
	// Returned slice must be a copy.
	got[0] = "modified"
	assert.Equal(t, report.Text, report.Formats()[0])
}

func TestFormatString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "text", report.Text.String())
	assert.Equal(t, "html", report.HTML.String())
}

func TestMarshalUnsupportedFormat(t *testing.T) {
	t.Parallel()
	out, err := report.Marshal("xml", report.NewTextBlock("x"))
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
	assert.Nil(t, out)
}

func TestMarshalIsRepeatable(t *testing.T) {
	t.Parallel()
	doc := newDoc(60)
	doc.AddSection("S").AddText("hello")

	first := marshal(t, report.Text, doc)
	second := marshal(t, report.Text, doc)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "hello")
}

func TestMarshalJSONDocumentWaitsForClose(t *testing.T) {
	t.Parallel()
	doc := newDoc(60)
	doc.AddSection("S").AddText("hello")

	assert.Empty(t, marshal(t, report.JSON, doc))

	doc.Close()
	assert.JSONEq(t,
		`[{"node_type":"section","title":"S","data":[{"node_type":"text","data":"hello"}]}]`,
		marshal(t, report.JSON, doc))
}

func TestMarshalColorsOnlyWhenAlways(t *testing.T) {
	t.Parallel()
	tbl := report.NewTable(report.WithAutoWidth(false))
	require.NoError(t, tbl.AddRow([]any{report.NewCell("x", report.CellStyle(report.Red))}))

	never := newDoc(40)
	require.NoError(t, never.AddNode(tbl))
	assert.NotContains(t, marshal(t, report.Text, tbl), "\x1b[")

	always := newDoc(40, report.WithColors(report.ColorAlways))
	tbl2 := report.NewTable(report.WithAutoWidth(false))
	require.NoError(t, tbl2.AddRow([]any{report.NewCell("x", report.CellStyle(report.Red))}))
	require.NoError(t, always.AddNode(tbl2))
	assert.Contains(t, marshal(t, report.Text, tbl2), "\x1b[1;31mx\x1b[0m")
}

func TestLayoutLogsAtDebug(t *testing.T) {
	t.Parallel()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	doc := report.NewDocument(report.WithWidth(50), report.WithLogger(logger))

	tbl := doc.AddSection("S").AddTable()
	require.NoError(t, tbl.AddRow([]any{1, 2}))
	_ = tbl.Width()

	var laidOut bool
	for _, e := range hook.AllEntries() {
		if e.Message == "table laid out" {
			laidOut = true
			assert.Equal(t, tbl.ID(), e.Data["node"])
		}
	}
	assert.True(t, laidOut)
}
