package transform

import (
	"strings"

	"github.com/hyperifyio/gohabr/internal/document"
	"github.com/hyperifyio/gohabr/internal/htmltree"
)

// listItems returns one block per <li>, built from the item's first child
// only: text becomes a Text block, an element becomes a Paragraph of that
// element's inline runs. Empty items and non-element children of the list
// produce nothing; other elements placed directly in the list are reported.
func (c *classifier) listItems(n htmltree.Node) []document.Block {
	var items []document.Block
	for _, child := range n.Children() {
		if !child.IsElement() {
			continue
		}
		if child.Tag() != "li" {
			c.sink.Report(Diagnostic{
				Kind:   UnsupportedTag,
				Tag:    child.Tag(),
				Class:  child.AttrOr("class", ""),
				Markup: child.Render(),
			})
			continue
		}
		first, ok := child.FirstChild()
		if !ok {
			continue
		}
		if text, ok := first.Text(); ok {
			items = append(items, document.Text{Run: document.Common(strings.TrimSpace(text))})
			continue
		}
		if first.IsElement() {
			items = append(items, document.Paragraph{Runs: c.inlineRuns(first)})
		}
	}
	return items
}
