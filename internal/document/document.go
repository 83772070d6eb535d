package document

// Block is one top-level rendering unit of an article. The set of
// implementations is closed: Image, Header, Paragraph, Code, Blockquote,
// Text, UnorderedList, OrderedList and LineBreak.
//
// Blocks are values produced by a single transform call and are never
// mutated afterwards.
type Block interface {
	block()
}

// Image is a standalone picture.
type Image struct {
	URL string
}

// Header is a section heading. Level is 2, 3 or 4.
type Header struct {
	Level uint8
	Text  string
}

// Paragraph is a run of mixed inline formatting.
type Paragraph struct {
	Runs []Run
}

// Code is a preformatted code block. Lang holds the raw class attribute.
type Code struct {
	Lang    string
	Content string
}

// Blockquote holds quoted text with inline formatting flattened away.
type Blockquote struct {
	Text string
}

// Text is a bare inline run promoted to block level.
type Text struct {
	Run Run
}

// UnorderedList items are Text or Paragraph blocks, never nested lists.
type UnorderedList struct {
	Items []Block
}

// OrderedList items are Text or Paragraph blocks, never nested lists.
type OrderedList struct {
	Items []Block
}

// LineBreak is an explicit <br>.
type LineBreak struct{}

func (Image) block()         {}
func (Header) block()        {}
func (Paragraph) block()     {}
func (Code) block()          {}
func (Blockquote) block()    {}
func (Text) block()          {}
func (UnorderedList) block() {}
func (OrderedList) block()   {}
func (LineBreak) block()     {}

// RunKind is the formatting of an inline run.
type RunKind uint8

const (
	KindCommon RunKind = iota
	KindCode
	KindLink
	KindItalic
	KindStrong
)

var runKindNames = [...]string{
	KindCommon: "common",
	KindCode:   "code",
	KindLink:   "link",
	KindItalic: "italic",
	KindStrong: "strong",
}

func (k RunKind) String() string {
	if int(k) < len(runKindNames) {
		return runKindNames[k]
	}
	return "unknown"
}

// Run is a contiguous span of text carrying one formatting kind. For links
// Text is the visible value and URL the target; URL is empty otherwise.
type Run struct {
	Kind RunKind
	Text string
	URL  string
}

func Common(text string) Run   { return Run{Kind: KindCommon, Text: text} }
func CodeSpan(text string) Run { return Run{Kind: KindCode, Text: text} }
func Italic(text string) Run   { return Run{Kind: KindItalic, Text: text} }
func Strong(text string) Run   { return Run{Kind: KindStrong, Text: text} }

// Link returns a link run. An empty value falls back to the url so the
// visible text is never blank.
func Link(url, value string) Run {
	if value == "" {
		value = url
	}
	return Run{Kind: KindLink, Text: value, URL: url}
}
