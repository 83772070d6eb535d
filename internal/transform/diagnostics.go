package transform

import (
	"sync"

	"github.com/rs/zerolog"
)

// Kind classifies a non-fatal problem met while transforming a fragment.
type Kind int

const (
	// UnsupportedTag: a block-level element with no classifier entry.
	UnsupportedTag Kind = iota + 1
	// UnknownInlineTag: an element inside a paragraph with no run kind.
	UnknownInlineTag
	// MissingRequiredAttribute: e.g. <img> without src, inline <a> without href.
	MissingRequiredAttribute
	// UnexpectedRootShape: the fragment does not have exactly one top-level element.
	UnexpectedRootShape
)

func (k Kind) String() string {
	switch k {
	case UnsupportedTag:
		return "unsupported_tag"
	case UnknownInlineTag:
		return "unknown_inline_tag"
	case MissingRequiredAttribute:
		return "missing_required_attribute"
	case UnexpectedRootShape:
		return "unexpected_root_shape"
	default:
		return "unknown"
	}
}

// Diagnostic describes one skipped piece of input.
type Diagnostic struct {
	Kind Kind
	// Tag is the element the diagnostic is about, if any.
	Tag string
	// Attr names the missing attribute for MissingRequiredAttribute.
	Attr string
	// Class is the element's class attribute, useful to spot markup variants.
	Class string
	// Markup is the serialized subtree for UnsupportedTag.
	Markup string
	// Children is the number of top-level nodes for UnexpectedRootShape.
	Children int
}

// Sink receives diagnostics. Report is called synchronously from the
// goroutine running the transform.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector accumulates diagnostics in memory. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.items...)
}

// Count returns how many diagnostics of kind k were reported.
func (c *Collector) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// LogSink writes each diagnostic as a warning on l.
func LogSink(l zerolog.Logger) Sink {
	return SinkFunc(func(d Diagnostic) {
		ev := l.Warn().Str("kind", d.Kind.String())
		if d.Tag != "" {
			ev = ev.Str("tag", d.Tag)
		}
		if d.Attr != "" {
			ev = ev.Str("attr", d.Attr)
		}
		if d.Class != "" {
			ev = ev.Str("class", d.Class)
		}
		if d.Markup != "" {
			ev = ev.Str("markup", d.Markup)
		}
		if d.Kind == UnexpectedRootShape {
			ev = ev.Int("children", d.Children)
		}
		ev.Msg(message(d.Kind))
	})
}

func message(k Kind) string {
	switch k {
	case UnsupportedTag:
		return "unsupported tag skipped"
	case UnknownInlineTag:
		return "unknown tag inside paragraph skipped"
	case MissingRequiredAttribute:
		return "element missing required attribute skipped"
	case UnexpectedRootShape:
		return "fragment root does not have exactly one element"
	default:
		return "content skipped"
	}
}

type discard struct{}

func (discard) Report(Diagnostic) {}
