package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/report"
)

func TestFormatFuncs(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := map[string]struct {
		format  report.FormatFunc
		value   any
		want    string
		wantErr bool
	}{
		"bytes":           {format: report.HumanBytes, value: 2048, want: "2.0 KiB"},
		"bytes small":     {format: report.HumanBytes, value: int64(12), want: "12 B"},
		"bytes negative":  {format: report.HumanBytes, value: -1, wantErr: true},
		"bytes text":      {format: report.HumanBytes, value: "SIZE", wantErr: true},
		"count":           {format: report.HumanCount, value: 1234567, want: "1,234,567"},
		"count float":     {format: report.HumanCount, value: 1234.5, want: "1,234.5"},
		"count text":      {format: report.HumanCount, value: "ROWS", wantErr: true},
		"percent":         {format: report.Percent(1), value: 50, want: "50.0%"},
		"percent numeric": {format: report.Percent(0), value: "99.6", want: "100%"},
		"percent text":    {format: report.Percent(1), value: "n/a", wantErr: true},
		"time":            {format: report.TimeLayout("2006-01-02"), value: ts, want: "2024-03-01"},
		"time wrong type": {format: report.TimeLayout("2006-01-02"), value: 5, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, _, err := tt.format(tt.value, 0, report.AlignAuto, false)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnFormats(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		format report.Formatter
		values []any
		want   string
	}{
		"pattern": {
			format: report.Pattern("%.1f"),
			values: []any{3.14159, "abc"},
			want:   "\n  X\n---\n3.1\nabc\n",
		},
		"func falls back on error": {
			format: report.HumanBytes,
			values: []any{1536, "big"},
			want:   "\n      X\n-------\n1.5 KiB\n    big\n",
		},
		"func skips autoreplace": {
			format: report.HumanBytes,
			values: []any{0},
			want:   "\n  X\n---\n0 B\n",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tbl := report.NewTable(report.WithAutoWidth(false))
			require.NoError(t, tbl.AddHeader(report.NewColumn("X", report.ColFormat(tt.format))))
			for _, v := range tt.values {
				require.NoError(t, tbl.AddRow([]any{v}))
			}
			assert.Equal(t, tt.want, marshal(t, report.Text, tbl))
		})
	}
}

func TestPlainValues(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tbl := report.NewTable(report.WithAutoWidth(false), report.WithAutoReplace(map[string]string{}))
	require.NoError(t, tbl.AddRow([]any{0.1, float32(1.5), 1e6, ts, []byte("raw"), nil, 0}))

	assert.Equal(t, "\n0.1  1.5  1000000  2024-03-01 12:30:00  raw  -  0\n", marshal(t, report.Text, tbl))
}
