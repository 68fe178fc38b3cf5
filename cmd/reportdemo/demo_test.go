package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/report"
)

func demoOptions(format string) options {
	return options{format: format, width: 120, db: ":memory:"}
}

func TestRunText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), demoOptions("text"), &buf))

	out := buf.String()
	for _, want := range []string{
		"Relations", "Benchmark", "Throughput, tps", "Latency, ms", "Notes", "Owners",
		"pgbench_accounts", "128 MiB", "---- query took", "FROM relations",
		"Xxxx Xxxxxxx Inc",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "colors are off for non-terminals")
}

func TestRunHTML(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), demoOptions("html"), &buf))

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<h1>Relations<span class='header_notes'")
	assert.Contains(t, out, "sql_query_list")
	assert.Contains(t, out, "background-color: #9acd82;")
	assert.Contains(t, out, "</body></html>")
}

func TestRunJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), demoOptions("json"), &buf))

	var nodes []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, "section", nodes[0]["node_type"])
	assert.Equal(t, "Relations", nodes[0]["title"])
	assert.Equal(t, "Notes", nodes[2]["title"])
}

func TestRunToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.txt")
	o := demoOptions("text")
	o.out = path

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), o, &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Relations")
}

func TestRunWithConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors: always\nwidth: 90\n"), 0o600))
	o := demoOptions("text")
	o.width = 0
	o.config = path

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), o, &buf))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRunUnsupportedFormat(t *testing.T) {
	t.Parallel()
	err := run(context.Background(), demoOptions("xml"), &bytes.Buffer{})
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--format", "json", "--width", "100"})
	require.NoError(t, rootCmd.Execute())

	var nodes []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	assert.NotEmpty(t, nodes)
}
