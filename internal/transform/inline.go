package transform

import (
	"github.com/hyperifyio/gohabr/internal/document"
	"github.com/hyperifyio/gohabr/internal/htmltree"
)

// inlineRuns maps the children of a paragraph-like container to runs.
// Children that produce nothing (comments, unknown tags, elements whose
// first child is not text) are skipped without disturbing the order of the
// rest. Only the child at index 0 loses leading whitespace.
func (c *classifier) inlineRuns(n htmltree.Node) []document.Run {
	var runs []document.Run
	for i, child := range n.Children() {
		if text, ok := child.Text(); ok {
			runs = append(runs, document.Common(trimFirst(i, text)))
			continue
		}
		if !child.IsElement() {
			continue
		}
		if run, ok := c.inlineRun(i, child); ok {
			runs = append(runs, run)
		}
	}
	return runs
}

func (c *classifier) inlineRun(index int, el htmltree.Node) (document.Run, bool) {
	first, hasFirst := el.FirstChild()
	text, isText := first.Text()
	if isText {
		text = trimFirst(index, text)
	}
	if el.Tag() == "a" {
		return c.link(el, text, true)
	}
	if !hasFirst || !isText {
		// Nested markup such as <b><i>x</i></b> is not descended into.
		return document.Run{}, false
	}
	switch el.Tag() {
	case "code":
		return document.CodeSpan(text), true
	case "i", "em":
		return document.Italic(text), true
	case "strong":
		return document.Strong(text), true
	default:
		c.sink.Report(Diagnostic{Kind: UnknownInlineTag, Tag: el.Tag(), Class: el.AttrOr("class", "")})
		return document.Run{}, false
	}
}

// link is the single construction path for anchors, in paragraphs and at
// block level alike. An empty value falls back to the href. When
// requireHref is set a missing href drops the run; otherwise the url is
// left empty. A run with neither url nor value is always dropped.
func (c *classifier) link(el htmltree.Node, value string, requireHref bool) (document.Run, bool) {
	href, ok := el.Attr("href")
	if (!ok && requireHref) || (href == "" && value == "") {
		c.missing(el, "href")
		return document.Run{}, false
	}
	return document.Link(href, value), true
}
