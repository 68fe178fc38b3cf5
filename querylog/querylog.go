// Package querylog wraps a *sql.DB and records every statement it runs with
// its duration. A Recorder is a [report.QueryHistory], so the statements
// behind a report section can be attached with [report.Section.AddQueryTrace].
package querylog

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bjaus/report"
)

// Recorder runs statements on a database and keeps their history. It is safe
// for concurrent use.
type Recorder struct {
	db    *sql.DB
	log   logrus.FieldLogger
	track bool
	now   func() time.Time

	mu      sync.Mutex
	history []report.TracedQuery
}

// Option configures a [Recorder].
type Option func(*Recorder)

// WithTracking turns history recording on or off. It is on by default.
func WithTracking(on bool) Option {
	return func(r *Recorder) { r.track = on }
}

// WithLogger sets the logger statements are logged to at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Recorder) { r.log = l }
}

// New returns a Recorder running statements on db.
func New(db *sql.DB, opts ...Option) *Recorder {
	r := &Recorder{
		db:    db,
		log:   logrus.StandardLogger(),
		track: true,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DB returns the wrapped database.
func (r *Recorder) DB() *sql.DB { return r.db }

// Record adds a statement to the history.
func (r *Recorder) Record(stmt string, d time.Duration) {
	if !r.track {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, report.TracedQuery{Statement: stmt, Duration: d})
}

// History returns the recorded statements, oldest first.
func (r *Recorder) History() []report.TracedQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}

func (r *Recorder) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}

func (r *Recorder) done(query string, start time.Time, err error) {
	d := r.now().Sub(start)
	r.Record(query, d)
	log := r.log.WithFields(logrus.Fields{"duration": d, "query": query})
	if err != nil {
		log.WithError(err).Warn("query failed")
		return
	}
	log.Debug("query executed")
}

// ExecContext runs a statement that returns no rows.
func (r *Recorder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := r.now()
	res, err := r.db.ExecContext(ctx, query, args...)
	r.done(query, start, err)
	return res, err
}

// QueryContext runs a query. The recorded duration covers the time until the
// first row is available.
func (r *Recorder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := r.now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.done(query, start, err)
	return rows, err
}

// QueryRowContext runs a query expected to return at most one row.
func (r *Recorder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := r.now()
	row := r.db.QueryRowContext(ctx, query, args...)
	r.done(query, start, row.Err())
	return row
}

// FetchAll runs a query and returns every row as a slice of column values,
// ready to be added to a [report.Table]. Text columns are returned as
// strings.
func (r *Recorder) FetchAll(ctx context.Context, query string, args ...any) ([][]any, error) {
	start := r.now()
	out, err := r.fetch(ctx, 0, query, args...)
	r.done(query, start, err)
	return out, err
}

// FetchOne returns the first row of a query, or nil when there is none.
func (r *Recorder) FetchOne(ctx context.Context, query string, args ...any) ([]any, error) {
	start := r.now()
	out, err := r.fetch(ctx, 1, query, args...)
	r.done(query, start, err)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

// FetchValue returns the first column of the first row of a query, or nil
// when there is no row.
func (r *Recorder) FetchValue(ctx context.Context, query string, args ...any) (any, error) {
	row, err := r.FetchOne(ctx, query, args...)
	if err != nil || len(row) == 0 {
		return nil, err
	}
	return row[0], nil
}

// fetch scans up to limit rows, all of them when limit is 0.
func (r *Recorder) fetch(ctx context.Context, limit int, query string, args ...any) ([][]any, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}
