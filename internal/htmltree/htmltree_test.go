package htmltree

import (
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, s string) Node {
	t.Helper()
	root, err := Parse(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func TestParse_TopLevelNodesBecomeRootChildren(t *testing.T) {
	root := mustParse(t, `<h2>Title</h2><p>body</p>`)
	kids := root.Children()
	if len(kids) != 2 {
		t.Fatalf("expected 2 children, got %d", len(kids))
	}
	if kids[0].Tag() != "h2" || kids[1].Tag() != "p" {
		t.Fatalf("unexpected tags: %q %q", kids[0].Tag(), kids[1].Tag())
	}
}

func TestParse_NoDocumentWrapper(t *testing.T) {
	root := mustParse(t, `<div>x</div>`)
	kids := root.Children()
	if len(kids) != 1 || kids[0].Tag() != "div" {
		t.Fatalf("expected a single div child, got %d", len(kids))
	}
}

func TestParse_LenientOnMalformedMarkup(t *testing.T) {
	root := mustParse(t, `<p>open <b>bold<p>second`)
	if len(root.Children()) == 0 {
		t.Fatalf("expected repaired tree")
	}
}

func TestNode_TextAndElementAccessors(t *testing.T) {
	root := mustParse(t, `<a HREF="http://x" class="c">hi</a>`)
	a, ok := root.FirstChild()
	if !ok {
		t.Fatalf("expected a child")
	}
	if !a.IsElement() || a.IsText() {
		t.Fatalf("expected element")
	}
	if href, ok := a.Attr("href"); !ok || href != "http://x" {
		t.Fatalf("href: %q %v", href, ok)
	}
	if _, ok := a.Attr("src"); ok {
		t.Fatalf("unexpected src attribute")
	}
	if got := a.AttrOr("id", "none"); got != "none" {
		t.Fatalf("AttrOr default: %q", got)
	}
	txt, ok := a.FirstChild()
	if !ok {
		t.Fatalf("expected text child")
	}
	s, ok := txt.Text()
	if !ok || s != "hi" {
		t.Fatalf("text: %q %v", s, ok)
	}
	if txt.Tag() != "" {
		t.Fatalf("text node must have no tag")
	}
	if _, ok := txt.FirstChild(); ok {
		t.Fatalf("text node has no children")
	}
}

func TestNode_Texts(t *testing.T) {
	root := mustParse(t, `<blockquote> one <i>two</i><!-- c --> three </blockquote>`)
	bq, _ := root.FirstChild()
	got := bq.Texts()
	want := []string{" one ", "two", " three "}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNode_Render(t *testing.T) {
	root := mustParse(t, `<video src="v.mp4">x</video>`)
	v, _ := root.FirstChild()
	out := v.Render()
	if !strings.Contains(out, "<video") || !strings.Contains(out, `src="v.mp4"`) {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestNode_ZeroValue(t *testing.T) {
	var n Node
	if !n.IsZero() || n.IsElement() || n.IsText() {
		t.Fatalf("zero node must report nothing")
	}
	if n.Children() != nil || n.Texts() != nil || n.Render() != "" {
		t.Fatalf("zero node must have no content")
	}
}
