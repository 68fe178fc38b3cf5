package report

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Document is the root of a report. It starts with a page header and gains a
// page footer when closed.
type Document struct {
	node

	cfg       Config
	widthFunc func() int
	log       logrus.FieldLogger
	closed    bool
}

// Option configures a [Document].
type Option func(*Document)

// WithWidth sets the target width instead of probing the terminal.
func WithWidth(n int) Option {
	return func(d *Document) { d.cfg.Width = n }
}

// WithWidthFunc replaces the terminal probe used when no width is set.
func WithWidthFunc(fn func() int) Option {
	return func(d *Document) { d.widthFunc = fn }
}

func WithColors(m ColorMode) Option {
	return func(d *Document) { d.cfg.Colors = m }
}

// WithLogger sets the logger for layout and flush events. The default logs
// to stderr at the configured level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Document) { d.log = l }
}

// WithIndent sets the indentation unit of nested nodes.
func WithIndent(s string) Option {
	return func(d *Document) { d.cfg.Indent = s }
}

// WithConfig replaces the whole configuration. Options after it override
// single values.
func WithConfig(c Config) Option {
	return func(d *Document) { d.cfg = c }
}

// NewDocument returns an open document holding only the page header.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		cfg:       DefaultConfig(),
		widthFunc: TerminalWidth,
	}
	d.init(d)
	for _, opt := range opts {
		opt(d)
	}

	d.indent = d.cfg.Indent
	d.width = d.cfg.Width
	if d.width <= 0 && d.widthFunc != nil {
		d.width = d.widthFunc()
	}
	if d.width <= 0 {
		d.width = TextWidth
	}

	if d.log == nil {
		l := logrus.New()
		if lvl, err := logrus.ParseLevel(d.cfg.LogLevel); err == nil {
			l.SetLevel(lvl)
		}
		d.log = l
	}

	_ = d.attach(newPageHeader())
	return d
}

// TerminalWidth returns the width of the terminal on stdout less one column,
// capped at [HTMLWidth]. Without a terminal it reads COLUMNS and falls back
// to [TextWidth].
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w-1, HTMLWidth)
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return min(n-1, HTMLWidth)
	}
	return TextWidth
}

// Width returns the target width of the document.
func (d *Document) Width() int { return d.width }

func (d *Document) Config() Config { return d.cfg }

// Closed reports whether [Document.Close] was called.
func (d *Document) Closed() bool { return d.closed }

// AddNode appends n as a top-level node.
func (d *Document) AddNode(n Node) error {
	if d.closed {
		d.log.WithField("node", d.id).Warn("node added after the document was closed")
	}
	return d.attach(n)
}

// AddSection appends a new top-level section.
func (d *Document) AddSection(title string, opts ...SectionOption) *Section {
	s := NewSection(title, opts...)
	_ = d.AddNode(s)
	return s
}

// Close appends the page footer. It completes the HTML page and enables JSON
// output. Calling Close again does nothing.
func (d *Document) Close() {
	if d.closed {
		return
	}
	d.closed = true
	_ = d.attach(newPageFooter())
	d.log.WithField("nodes", d.nextID).Debug("document closed")
}

// Flush writes the parts of the document that have not been written to w in
// format f yet. Text and HTML are written node by node, so calling Flush as
// the document grows streams it. JSON is written as a whole, once, after the
// document is closed.
func (d *Document) Flush(f Format, w io.Writer) error {
	if err := checkFlush(f, w); err != nil {
		return err
	}
	if f == JSON {
		if !d.closed {
			d.log.Debug("json flush skipped, document not closed")
			return nil
		}
		return d.write(f, w)
	}
	for _, c := range d.children {
		if err := c.Flush(f, w); err != nil {
			return err
		}
	}
	return nil
}
