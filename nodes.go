package report

// TextBlock is a block of preformatted text.
type TextBlock struct {
	node

	text    string
	rawHTML bool
}

// TextBlockOption configures a [TextBlock].
type TextBlockOption func(*TextBlock)

// TextBlockRawHTML emits the text into HTML output as is.
func TextBlockRawHTML() TextBlockOption { return func(t *TextBlock) { t.rawHTML = true } }

func NewTextBlock(text string, opts ...TextBlockOption) *TextBlock {
	t := &TextBlock{text: text}
	t.init(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TextBlock) Text() string { return t.text }

// pageHeader opens the HTML page. It renders nothing in text and JSON.
type pageHeader struct{ node }

func newPageHeader() *pageHeader {
	h := &pageHeader{}
	h.init(h)
	return h
}

// pageFooter closes the HTML page. It renders nothing in text and JSON.
type pageFooter struct{ node }

func newPageFooter() *pageFooter {
	f := &pageFooter{}
	f.init(f)
	return f
}
