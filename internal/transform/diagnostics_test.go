package transform

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogSink_WritesStructuredWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	_ = FromHTML(`<video class="player"></video>`, LogSink(logger))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("expected warn level, got %v", entry["level"])
	}
	if entry["kind"] != "unsupported_tag" || entry["tag"] != "video" || entry["class"] != "player" {
		t.Fatalf("unexpected fields: %v", entry)
	}
	if entry["markup"] == nil {
		t.Fatalf("expected markup field")
	}
}

func TestLogSink_RootShapeCarriesChildCount(t *testing.T) {
	var buf bytes.Buffer
	_ = FromHTML(`<p>a</p><p>b</p>`, LogSink(zerolog.New(&buf)))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["kind"] != "unexpected_root_shape" || entry["children"] != float64(2) {
		t.Fatalf("unexpected fields: %v", entry)
	}
}

func TestSinkFunc_And_NilSink(t *testing.T) {
	var kinds []Kind
	sink := SinkFunc(func(d Diagnostic) { kinds = append(kinds, d.Kind) })
	_ = FromHTML(`<div><img><h1>x</h1></div>`, sink)
	if len(kinds) != 2 || kinds[0] != MissingRequiredAttribute || kinds[1] != UnsupportedTag {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
	// A nil sink must be accepted everywhere.
	_ = FromHTML(`<div><img><h1>x</h1></div>`, nil)
	_ = Classify(firstElement(t, `<h1>x</h1>`), nil)
}

func TestKind_String(t *testing.T) {
	for k, want := range map[Kind]string{
		UnsupportedTag:           "unsupported_tag",
		UnknownInlineTag:         "unknown_inline_tag",
		MissingRequiredAttribute: "missing_required_attribute",
		UnexpectedRootShape:      "unexpected_root_shape",
		Kind(0):                  "unknown",
	} {
		if got := k.String(); got != want {
			t.Fatalf("%d: got %q want %q", k, got, want)
		}
	}
}
