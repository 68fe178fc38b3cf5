package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
)

// Node is an element of a document tree. The implementations are
// [Document], [Section], [Table], [TextBlock] and [QueryTrace].
//
// A tree is not safe for concurrent use.
type Node interface {
	// ID is unique within the tree the node is attached to.
	ID() int
	// Parent returns nil for a root.
	Parent() Node
	Children() []Node
	// Flush renders the node in format f to w, at most once per format and
	// writer.
	Flush(f Format, w io.Writer) error

	base() *node
	renderText(rc *renderContext) string
	renderHTML(rc *renderContext) string
	renderJSON(rc *renderContext) any
}

// node carries the tree links and bookkeeping shared by all node types.
type node struct {
	self     Node
	parent   Node
	children []Node

	width      int    // target width for descendants, 0 inherits
	indent     string // indentation unit for descendants, "" inherits
	headerNote string // shown in the enclosing section's header

	id     int
	nextID int

	flushed map[flushKey]bool
}

func (n *node) init(self Node) {
	n.self = self
	n.flushed = make(map[flushKey]bool)
}

func (n *node) base() *node { return n }

func (n *node) ID() int { return n.id }

func (n *node) Parent() Node { return n.parent }

func (n *node) Children() []Node { return slices.Clone(n.children) }

// attach makes child the last child of n and renumbers the child's subtree
// from the root's counter.
func (n *node) attach(child Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil node", ErrAttached)
	}
	if _, ok := child.(*Document); ok {
		return fmt.Errorf("%w: a document cannot be a child", ErrAttached)
	}
	c := child.base()
	if c.parent != nil {
		return fmt.Errorf("%w: node %d already has a parent", ErrAttached, c.id)
	}
	for p := n; p != nil; p = p.parentNode() {
		if p == c {
			return fmt.Errorf("%w: node %d would become its own descendant", ErrAttached, c.id)
		}
	}

	c.parent = n.self
	n.children = append(n.children, child)

	root := n.root()
	walk(child, func(x Node) {
		root.nextID++
		x.base().id = root.nextID
		if t, ok := x.(*Table); ok {
			t.invalidate()
		}
	})
	return nil
}

func walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.base().children {
		walk(c, fn)
	}
}

func (n *node) parentNode() *node {
	if n.parent == nil {
		return nil
	}
	return n.parent.base()
}

func (n *node) root() *node {
	r := n
	for p := r.parentNode(); p != nil; p = r.parentNode() {
		r = p
	}
	return r
}

// document returns the Document at the root of the tree, or nil for a
// detached subtree.
func (n *node) document() *Document {
	d, _ := n.root().self.(*Document)
	return d
}

func (n *node) depth() int {
	d := 0
	for p := n.parentNode(); p != nil; p = p.parentNode() {
		d++
	}
	return d
}

func (n *node) indentUnit() string {
	for p := n; p != nil; p = p.parentNode() {
		if p.indent != "" {
			return p.indent
		}
	}
	return defaultIndent
}

// indentPrefix is prepended to the lines of a node. Children of the root are
// not indented.
func (n *node) indentPrefix() string {
	return strings.Repeat(n.indentUnit(), max(0, n.depth()-1))
}

func (n *node) indentWidth() int {
	return runewidth.StringWidth(n.indentPrefix())
}

// addIndent indents every non-empty line of text.
func (n *node) addIndent(text string) string {
	prefix := n.indentPrefix()
	if prefix == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// parentWidth is the first explicit width found among the ancestors.
func (n *node) parentWidth() int {
	for p := n.parentNode(); p != nil; p = p.parentNode() {
		if p.width > 0 {
			return p.width
		}
	}
	return TextWidth
}

func (n *node) logger() logrus.FieldLogger {
	if d := n.document(); d != nil && d.log != nil {
		return d.log
	}
	return logrus.StandardLogger()
}
