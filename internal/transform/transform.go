// Package transform converts article HTML fragments into the document model.
//
// The transform is a pure function of its input: it keeps no state between
// calls, performs no I/O and never fails. Markup it cannot map is omitted and
// reported to the caller's Sink.
package transform

import (
	"strings"
	"unicode"

	"github.com/hyperifyio/gohabr/internal/document"
	"github.com/hyperifyio/gohabr/internal/htmltree"
)

// FromHTML parses a fragment and classifies its single top-level element.
// A fragment with zero or several top-level nodes, or whose only node is
// not an element, yields an empty result and an UnexpectedRootShape
// diagnostic. A nil sink discards diagnostics.
func FromHTML(fragment string, sink Sink) []document.Block {
	c := newClassifier(sink)
	root, err := htmltree.Parse(fragment)
	if err != nil {
		c.sink.Report(Diagnostic{Kind: UnexpectedRootShape})
		return nil
	}
	kids := root.Children()
	if len(kids) != 1 || !kids[0].IsElement() {
		c.sink.Report(Diagnostic{Kind: UnexpectedRootShape, Children: len(kids)})
		return nil
	}
	return c.classify(kids[0])
}

// Classify maps one element and its subtree to zero or more blocks.
func Classify(n htmltree.Node, sink Sink) []document.Block {
	return newClassifier(sink).classify(n)
}

// InlineRuns extracts the inline runs of a text-bearing container.
func InlineRuns(n htmltree.Node, sink Sink) []document.Run {
	return newClassifier(sink).inlineRuns(n)
}

// ListItems extracts one block per <li> of a <ul> or <ol>.
func ListItems(n htmltree.Node, sink Sink) []document.Block {
	return newClassifier(sink).listItems(n)
}

// PlainText returns the text of a fragment with all markup dropped: every
// text node trimmed and joined with single spaces.
func PlainText(fragment string) string {
	root, err := htmltree.Parse(fragment)
	if err != nil {
		return ""
	}
	return joinedText(root)
}

type classifier struct {
	sink Sink
}

func newClassifier(sink Sink) *classifier {
	if sink == nil {
		sink = discard{}
	}
	return &classifier{sink: sink}
}

// joinedText trims each descendant text node and joins the non-empty ones
// with a single space.
func joinedText(n htmltree.Node) string {
	texts := n.Texts()
	out := texts[:0]
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// rawText concatenates descendant text nodes untouched.
func rawText(n htmltree.Node) string {
	return strings.Join(n.Texts(), "")
}

// trimFirst strips leading whitespace only from the run at index 0.
func trimFirst(index int, text string) string {
	if index == 0 {
		return strings.TrimLeftFunc(text, unicode.IsSpace)
	}
	return text
}
