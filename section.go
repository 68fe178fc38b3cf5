package report

import "slices"

// Section is a titled group of nodes. Top-level sections get a boxed banner
// in text and a table-of-contents anchor in HTML; nested ones an underlined
// title.
type Section struct {
	node

	title     string
	noteTitle string
	notes     []string
}

// SectionOption configures a [Section].
type SectionOption func(*Section)

// SectionNoteTitle prefixes the header notes shown next to the title.
func SectionNoteTitle(s string) SectionOption {
	return func(sec *Section) { sec.noteTitle = s }
}

func NewSection(title string, opts ...SectionOption) *Section {
	s := &Section{title: title}
	s.init(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Section) Title() string { return s.title }

// HeaderNotes returns the notes contributed by children, such as the total
// duration of a query trace.
func (s *Section) HeaderNotes() []string { return slices.Clone(s.notes) }

// AddNode appends n and collects its header note.
func (s *Section) AddNode(n Node) error {
	if err := s.attach(n); err != nil {
		return err
	}
	if note := n.base().headerNote; note != "" {
		s.notes = append(s.notes, note)
	}
	return nil
}

// AddSection appends a nested section.
func (s *Section) AddSection(title string, opts ...SectionOption) *Section {
	sub := NewSection(title, opts...)
	_ = s.AddNode(sub)
	return sub
}

// AddTable appends an empty table.
func (s *Section) AddTable(opts ...TableOption) *Table {
	t := NewTable(opts...)
	_ = s.AddNode(t)
	return t
}

// AddText appends a text block.
func (s *Section) AddText(text string, opts ...TextBlockOption) *TextBlock {
	t := NewTextBlock(text, opts...)
	_ = s.AddNode(t)
	return t
}

// AddQueryTrace appends a snapshot of src's query history and clears it.
func (s *Section) AddQueryTrace(src QueryHistory) *QueryTrace {
	q := NewQueryTrace(src)
	_ = s.AddNode(q)
	return q
}

func (s *Section) topLevel() bool {
	if s.parent == nil {
		return true
	}
	_, ok := s.parent.(*Document)
	return ok
}
