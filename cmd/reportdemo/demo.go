package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bjaus/report"
	"github.com/bjaus/report/querylog"
)

type options struct {
	format       string
	out          string
	width        int
	config       string
	visibleLines int
	db           string
	verbose      bool
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return err
	}

	cfg := report.DefaultConfig()
	if o.config != "" {
		if cfg, err = report.LoadConfig(o.config); err != nil {
			return err
		}
	}
	if o.width > 0 {
		cfg.Width = o.width
	}
	if o.visibleLines > 0 {
		cfg.VisibleLines = o.visibleLines
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	w := stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = bufio.NewWriter(f)
	}

	db, err := sql.Open("sqlite", o.db)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rec := querylog.New(db, querylog.WithLogger(log))
	if err := seed(ctx, rec); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	rec.ClearHistory()

	doc := report.NewDocument(report.WithConfig(cfg), report.WithLogger(log))
	flush := func() error { return doc.Flush(format, w) }

	builders := []func(context.Context, *report.Document, *querylog.Recorder) error{
		relationsSection,
		benchmarkSection,
		notesSection,
	}
	for _, build := range builders {
		if err := build(ctx, doc, rec); err != nil {
			return err
		}
		if err := flush(); err != nil {
			return err
		}
	}

	doc.Close()
	return flush()
}

const schema = `
CREATE TABLE IF NOT EXISTS relations (
	name       TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	n_rows     INTEGER NOT NULL,
	size_bytes INTEGER NOT NULL,
	seq_scan   INTEGER NOT NULL,
	idx_scan   INTEGER NOT NULL,
	owner      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bench (
	test TEXT NOT NULL,
	run  INTEGER NOT NULL,
	tps  REAL NOT NULL,
	latency_ms REAL NOT NULL,
	PRIMARY KEY (test, run)
);
DELETE FROM relations;
DELETE FROM bench;
`

var relations = [][]any{
	{"pgbench_accounts", "table", 1000000, 134_217_728, 12, 90211, "Acme Widgets Inc"},
	{"pgbench_accounts_pkey", "index", 1000000, 22_487_040, 0, 90211, "Acme Widgets Inc"},
	{"pgbench_branches", "table", 10, 8192, 5012, 0, "Globex Ltd"},
	{"pgbench_tellers", "table", 100, 16384, 4810, 120, "Globex Ltd"},
	{"pgbench_history", "table", 812_394, 42_041_344, 3, 0, "Initech LLC"},
	{"pg_class", "catalog", 415, 139_264, 880, 1_221_934, "The Postgres Group"},
}

var benchRuns = []struct {
	test    string
	tps     [4]float64
	latency [4]float64
}{
	{"select-only", [4]float64{41230.5, 40990.1, 39877.4, 42011.9}, [4]float64{0.24, 0.24, 0.25, 0.23}},
	{"tpcb-like", [4]float64{2210.7, 2380.2, 1804.6, 2399.0}, [4]float64{4.5, 4.2, 5.5, 4.2}},
	{"simple-update", [4]float64{3120.0, 0, 2950.3, 3302.8}, [4]float64{3.2, 0, 3.4, 3.0}},
}

func seed(ctx context.Context, rec *querylog.Recorder) error {
	if _, err := rec.ExecContext(ctx, schema); err != nil {
		return err
	}
	for _, r := range relations {
		if _, err := rec.ExecContext(ctx,
			"INSERT INTO relations VALUES (?, ?, ?, ?, ?, ?, ?)", r...); err != nil {
			return err
		}
	}
	for _, b := range benchRuns {
		for i := range b.tps {
			if _, err := rec.ExecContext(ctx,
				"INSERT INTO bench VALUES (?, ?, ?, ?)", b.test, i+1, b.tps[i], b.latency[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func relationsSection(ctx context.Context, doc *report.Document, rec *querylog.Recorder) error {
	sec := doc.AddSection("Relations", report.SectionNoteTitle("queries: "))

	t := sec.AddTable()
	err := t.AddHeaderRows(
		[]any{"", "", "", "", report.NewColumn("SCANS", report.ColSpan(3), report.ColAlign(report.AlignCenter))},
		[]any{
			report.NewColumn("NAME", report.ColWidth(-24)),
			report.NewColumn("KIND", report.ColLeft()),
			report.NewColumn("ROWS", report.ColFormat(report.HumanCount)),
			report.NewColumn("SIZE", report.ColFormat(report.HumanBytes)),
			"SEQ",
			"INDEX",
			report.NewColumn("INDEX %", report.ColFormat(report.Percent(1))),
		},
	)
	if err != nil {
		return err
	}

	rows, err := rec.FetchAll(ctx, `
		select name, kind, n_rows, size_bytes, seq_scan, idx_scan,
		       100.0 * idx_scan / nullif(seq_scan + idx_scan, 0)
		  from relations
		 order by size_bytes desc`)
	if err != nil {
		return err
	}
	if err := t.AddRows(rows); err != nil {
		return err
	}

	total, err := rec.FetchOne(ctx, "select count(*), sum(size_bytes) from relations")
	if err != nil {
		return err
	}
	if err := t.AddRow("-"); err != nil {
		return err
	}
	if err := t.AddRow([]any{"total", "", total[0], total[1], nil, nil, nil}, report.RowStyle(report.Bold)); err != nil {
		return err
	}

	sec.AddQueryTrace(rec)
	return nil
}

func benchmarkSection(ctx context.Context, doc *report.Document, rec *querylog.Recorder) error {
	sec := doc.AddSection("Benchmark", report.SectionNoteTitle("queries: "))

	for _, m := range []struct {
		title  string
		column string
		rank   report.Rank
		format report.Formatter
	}{
		{"Throughput, tps", "tps", report.HigherIsBetter, report.Pattern("%.1f")},
		{"Latency, ms", "latency_ms", report.LowerIsBetter, report.Pattern("%.2f")},
	} {
		sub := sec.AddSection(m.title)
		t := sub.AddTable()

		header := []any{report.Sized("TEST", -16)}
		for run := 1; run <= 4; run++ {
			header = append(header, report.Sized(fmt.Sprintf("RUN %d", run), 8, m.format))
		}
		if err := t.AddHeader(header...); err != nil {
			return err
		}

		for _, b := range benchRuns {
			vals, err := rec.FetchAll(ctx,
				"select "+m.column+" from bench where test = ? order by run", b.test)
			if err != nil {
				return err
			}
			row := []any{b.test}
			for _, v := range vals {
				row = append(row, v[0])
			}
			if err := t.AddRow(row, report.RowRank(m.rank)); err != nil {
				return err
			}
		}
	}

	sec.AddQueryTrace(rec)
	return nil
}

func notesSection(ctx context.Context, doc *report.Document, rec *querylog.Recorder) error {
	sec := doc.AddSection("Notes")
	sec.AddText("Sizes include indexes and TOAST data. Scan counters are cumulative\n" +
		"since the last statistics reset.")

	owners := sec.AddSection("Owners")
	t := owners.AddTable(report.WithLeftAlignedColumns(0))
	err := t.AddHeader(
		"OWNER",
		"MASKED",
		report.NewColumn("RELATIONS", report.ColWidth(20), report.ColWrap(), report.ColStyle(report.Green)),
	)
	if err != nil {
		return err
	}

	rows, err := rec.FetchAll(ctx, `
		select owner, group_concat(name, ' ')
		  from relations
		 group by owner
		 order by owner`)
	if err != nil {
		return err
	}
	for _, r := range rows {
		owner, _ := r[0].(string)
		if err := t.AddRow([]any{owner, report.Obfuscate(owner), r[1]}); err != nil {
			return err
		}
	}
	return t.AddRow("Owner names are masked before the report leaves the host.")
}
