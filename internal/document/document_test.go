package document

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLink_FallsBackToURL(t *testing.T) {
	r := Link("http://x", "")
	if r.Text != "http://x" || r.URL != "http://x" || r.Kind != KindLink {
		t.Fatalf("unexpected run: %+v", r)
	}
	r = Link("http://x", "click")
	if r.Text != "click" {
		t.Fatalf("expected visible value kept, got %q", r.Text)
	}
}

func TestRunKind_String(t *testing.T) {
	cases := map[RunKind]string{
		KindCommon: "common",
		KindCode:   "code",
		KindLink:   "link",
		KindItalic: "italic",
		KindStrong: "strong",
		RunKind(42): "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("kind %d: got %q want %q", k, got, want)
		}
	}
}

func TestValidate_AcceptsWellFormed(t *testing.T) {
	blocks := []Block{
		Header{Level: 2, Text: "Title"},
		Paragraph{Runs: []Run{Common("a "), Link("http://x", "x"), Strong("b")}},
		UnorderedList{Items: []Block{Text{Run: Common("A")}, Paragraph{Runs: []Run{Italic("B")}}}},
		OrderedList{},
		Code{Lang: "go", Content: "x := 1"},
		LineBreak{},
	}
	if err := Validate(blocks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsViolations(t *testing.T) {
	blocks := []Block{
		Header{Level: 1, Text: "bad"},
		Paragraph{Runs: []Run{{Kind: KindLink, URL: "http://x"}}},
		UnorderedList{Items: []Block{UnorderedList{}}},
		OrderedList{Items: []Block{Image{URL: "i.png"}}},
	}
	err := Validate(blocks)
	if err == nil {
		t.Fatalf("expected violations")
	}
	msg := err.Error()
	for _, want := range []string{"[0]: header level 1", "[1].runs[0]: link", "[2].items[0]: list item", "[3].items[0]: list item"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestMarshalBlocks_Shape(t *testing.T) {
	blocks := []Block{
		Header{Level: 3, Text: "H"},
		Paragraph{Runs: []Run{Common("see "), Link("http://x", "x")}},
		UnorderedList{Items: []Block{Text{Run: Common("A")}}},
		LineBreak{},
	}
	b, err := MarshalBlocks(blocks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(got))
	}
	wantTypes := []string{"header", "paragraph", "unordered_list", "line_break"}
	for i, w := range wantTypes {
		if got[i]["type"] != w {
			t.Fatalf("block %d: type %v, want %s", i, got[i]["type"], w)
		}
	}
	runs := got[1]["runs"].([]any)
	link := runs[1].(map[string]any)
	if link["kind"] != "link" || link["url"] != "http://x" || link["text"] != "x" {
		t.Fatalf("unexpected link encoding: %v", link)
	}
	items := got[2]["items"].([]any)
	run := items[0].(map[string]any)["run"].(map[string]any)
	if run["text"] != "A" {
		t.Fatalf("unexpected list item encoding: %v", run)
	}
}

func TestMarshalBlocks_RejectsNil(t *testing.T) {
	if _, err := MarshalBlocks([]Block{nil}); err == nil {
		t.Fatalf("expected error for nil block")
	}
}

func TestBlocks_MarshalJSONEmbedded(t *testing.T) {
	v := struct {
		Title  string `json:"title"`
		Blocks Blocks `json:"blocks"`
	}{Title: "t", Blocks: Blocks{Header{Level: 2, Text: "h"}, LineBreak{}}}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"t","blocks":[{"type":"header","level":2,"text":"h"},{"type":"line_break"}]}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
	if _, err := json.Marshal(struct{ B Blocks }{B: Blocks{nil}}); err == nil {
		t.Fatal("expected error for nil block")
	}
}
