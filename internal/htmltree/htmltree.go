// Package htmltree parses HTML fragments leniently and exposes the result as
// read-only node views. Callers never see the underlying *html.Node, so the
// parsed tree cannot be mutated after Parse returns.
package htmltree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is a read-only view of a node in a parsed fragment. The zero Node
// refers to nothing; all accessors on it report absence.
type Node struct {
	n *html.Node
}

// Parse parses s as the content of a <body> element and returns a synthetic
// root element whose children are the fragment's top-level nodes.
// Malformed markup is repaired by the HTML5 parsing algorithm; an error is
// returned only if the input cannot be read.
func Parse(s string) (Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return Node{}, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return Node{n: root}, nil
}

// IsZero reports whether the view refers to no node.
func (v Node) IsZero() bool { return v.n == nil }

// IsElement reports whether the node is an element.
func (v Node) IsElement() bool { return v.n != nil && v.n.Type == html.ElementNode }

// IsText reports whether the node is a text node.
func (v Node) IsText() bool { return v.n != nil && v.n.Type == html.TextNode }

// Tag returns the lower-cased element name, or "" for non-elements.
func (v Node) Tag() string {
	if !v.IsElement() {
		return ""
	}
	return strings.ToLower(v.n.Data)
}

// Text returns the content of a text node.
func (v Node) Text() (string, bool) {
	if !v.IsText() {
		return "", false
	}
	return v.n.Data, true
}

// Attr returns the value of the named attribute on an element.
func (v Node) Attr(name string) (string, bool) {
	if !v.IsElement() {
		return "", false
	}
	for _, a := range v.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when it is absent.
func (v Node) AttrOr(name, def string) string {
	if s, ok := v.Attr(name); ok {
		return s
	}
	return def
}

// FirstChild returns the first child of the node, of any type.
func (v Node) FirstChild() (Node, bool) {
	if v.n == nil || v.n.FirstChild == nil {
		return Node{}, false
	}
	return Node{n: v.n.FirstChild}, true
}

// Children returns the node's children in document order, including text
// and comment nodes.
func (v Node) Children() []Node {
	if v.n == nil {
		return nil
	}
	var out []Node
	for c := v.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, Node{n: c})
	}
	return out
}

// Texts returns the contents of all descendant text nodes in document order.
func (v Node) Texts() []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if v.n != nil {
		walk(v.n)
	}
	return out
}

// Render serializes the node and its subtree back to HTML. It is meant for
// diagnostics; output is not guaranteed to match the input byte for byte.
func (v Node) Render() string {
	if v.n == nil {
		return ""
	}
	var b strings.Builder
	if err := html.Render(&b, v.n); err != nil {
		return ""
	}
	return b.String()
}
