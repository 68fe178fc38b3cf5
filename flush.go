package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// flushKey identifies an output stream in one format. A node is written to
// each stream at most once.
type flushKey struct {
	format Format
	w      io.Writer
}

// renderContext is threaded through one rendering pass.
type renderContext struct {
	format Format
	colors bool
	log    logrus.FieldLogger
}

// newRenderContext resolves the color mode of n's document against the
// destination. w is nil when rendering to memory.
func newRenderContext(n Node, f Format, w io.Writer) *renderContext {
	b := n.base()
	mode := ColorAuto
	if d := b.document(); d != nil && d.cfg.Colors != "" {
		mode = d.cfg.Colors
	}
	return &renderContext{
		format: f,
		colors: f == Text && useColors(mode, w),
		log:    b.logger(),
	}
}

func useColors(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if w == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Flush renders the node once per (format, writer). JSON output of a node is
// only produced once its document has been closed.
func (n *node) Flush(f Format, w io.Writer) error {
	if err := checkFlush(f, w); err != nil {
		return err
	}
	if f == JSON {
		if d := n.document(); d == nil || !d.closed {
			n.logger().WithField("node", n.id).Debug("json flush skipped, document not closed")
			return nil
		}
	}
	return n.write(f, w)
}

func checkFlush(f Format, w io.Writer) error {
	if !f.valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if w == nil {
		return ErrNilWriter
	}
	return nil
}

// write renders n.self to w unless it was already written there. The node is
// only marked as flushed once the write succeeded.
func (n *node) write(f Format, w io.Writer) error {
	log := n.logger().WithFields(logrus.Fields{"node": n.id, "format": f})

	key := flushKey{format: f, w: w}
	tracked := reflect.ValueOf(w).Comparable()
	if !tracked {
		log.Warnf("writer %T cannot be tracked, flushing unconditionally", w)
	} else if n.flushed[key] {
		return nil
	}

	rc := newRenderContext(n.self, f, w)
	var buf bytes.Buffer
	switch f {
	case JSON:
		if v := n.self.renderJSON(rc); v != nil {
			if err := writeJSON(&buf, v); err != nil {
				return err
			}
		}
	case HTML:
		buf.WriteString(n.self.renderHTML(rc))
	default:
		buf.WriteString(n.self.renderText(rc))
	}

	if buf.Len() > 0 {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	if fl, ok := w.(interface{ Flush() error }); ok {
		if err := fl.Flush(); err != nil {
			return err
		}
	}
	if tracked {
		n.flushed[key] = true
	}
	log.WithField("bytes", buf.Len()).Debug("node flushed")
	return nil
}
