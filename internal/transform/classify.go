package transform

import (
	"strings"

	"github.com/hyperifyio/gohabr/internal/document"
	"github.com/hyperifyio/gohabr/internal/htmltree"
)

type handler func(c *classifier, n htmltree.Node) []document.Block

// handlers is the block-level dispatch table keyed by tag name. Populated
// in init because the handlers recurse into classify.
var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"img":        (*classifier).image,
		"figure":     (*classifier).figure,
		"p":          (*classifier).paragraph,
		"h2":         header(2),
		"h3":         header(3),
		"h4":         header(4),
		"pre":        (*classifier).pre,
		"code":       (*classifier).code,
		"blockquote": (*classifier).blockquote,
		"ul":         (*classifier).unorderedList,
		"ol":         (*classifier).orderedList,
		"a":          (*classifier).anchor,
		"i":          (*classifier).italic,
		"div":        (*classifier).div,
		"br":         (*classifier).lineBreak,
	}
}

func (c *classifier) classify(n htmltree.Node) []document.Block {
	if !n.IsElement() {
		return nil
	}
	h, ok := handlers[n.Tag()]
	if !ok {
		c.sink.Report(Diagnostic{
			Kind:   UnsupportedTag,
			Tag:    n.Tag(),
			Class:  n.AttrOr("class", ""),
			Markup: n.Render(),
		})
		return nil
	}
	return h(c, n)
}

func (c *classifier) missing(n htmltree.Node, attr string) {
	c.sink.Report(Diagnostic{Kind: MissingRequiredAttribute, Tag: n.Tag(), Attr: attr, Class: n.AttrOr("class", "")})
}

func (c *classifier) image(n htmltree.Node) []document.Block {
	src, ok := n.Attr("src")
	if !ok {
		c.missing(n, "src")
		return nil
	}
	return []document.Block{document.Image{URL: src}}
}

// figure unwraps captioned images; only the first child is considered.
func (c *classifier) figure(n htmltree.Node) []document.Block {
	first, ok := n.FirstChild()
	if !ok {
		return nil
	}
	return c.classify(first)
}

func (c *classifier) paragraph(n htmltree.Node) []document.Block {
	return []document.Block{document.Paragraph{Runs: c.inlineRuns(n)}}
}

func header(level uint8) handler {
	return func(_ *classifier, n htmltree.Node) []document.Block {
		return []document.Block{document.Header{Level: level, Text: joinedText(n)}}
	}
}

// pre keeps a leading text child verbatim and unwraps <pre><code>.
func (c *classifier) pre(n htmltree.Node) []document.Block {
	lang := n.AttrOr("class", "")
	if first, ok := n.FirstChild(); ok {
		if text, ok := first.Text(); ok {
			return []document.Block{document.Code{Lang: lang, Content: text}}
		}
		if first.IsElement() {
			return c.classify(first)
		}
	}
	return []document.Block{document.Code{Lang: lang, Content: rawText(n)}}
}

// code keeps raw whitespace rather than trimming and joining text nodes.
func (c *classifier) code(n htmltree.Node) []document.Block {
	return []document.Block{document.Code{Lang: n.AttrOr("class", ""), Content: rawText(n)}}
}

func (c *classifier) blockquote(n htmltree.Node) []document.Block {
	return []document.Block{document.Blockquote{Text: joinedText(n)}}
}

func (c *classifier) unorderedList(n htmltree.Node) []document.Block {
	return []document.Block{document.UnorderedList{Items: c.listItems(n)}}
}

func (c *classifier) orderedList(n htmltree.Node) []document.Block {
	return []document.Block{document.OrderedList{Items: c.listItems(n)}}
}

// anchor handles a link outside any paragraph. The visible value is the
// whole subtree's text; href may be absent as long as some text remains.
func (c *classifier) anchor(n htmltree.Node) []document.Block {
	run, ok := c.link(n, joinedText(n), false)
	if !ok {
		return nil
	}
	return []document.Block{document.Paragraph{Runs: []document.Run{run}}}
}

func (c *classifier) italic(n htmltree.Node) []document.Block {
	return []document.Block{document.Paragraph{Runs: []document.Run{document.Italic(joinedText(n))}}}
}

// div flattens its children. Stray non-blank text becomes a Text block.
func (c *classifier) div(n htmltree.Node) []document.Block {
	var out []document.Block
	for _, child := range n.Children() {
		if child.IsElement() {
			out = append(out, c.classify(child)...)
			continue
		}
		if text, ok := child.Text(); ok {
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, document.Text{Run: document.Common(text)})
			}
		}
	}
	return out
}

func (c *classifier) lineBreak(htmltree.Node) []document.Block {
	return []document.Block{document.LineBreak{}}
}
