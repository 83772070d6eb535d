package document

import (
	"encoding/json"
	"fmt"
)

// wireBlock is the tagged JSON shape of a Block.
type wireBlock struct {
	Type    string      `json:"type"`
	URL     string      `json:"url,omitempty"`
	Level   uint8       `json:"level,omitempty"`
	Text    string      `json:"text,omitempty"`
	Lang    string      `json:"lang,omitempty"`
	Content string      `json:"content,omitempty"`
	Runs    []wireRun   `json:"runs,omitempty"`
	Run     *wireRun    `json:"run,omitempty"`
	Items   []wireBlock `json:"items,omitempty"`
}

type wireRun struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// MarshalBlocks encodes blocks as a JSON array of objects discriminated by
// their "type" field.
func MarshalBlocks(blocks []Block) ([]byte, error) {
	out, err := toWireList(blocks)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(out, "", "  ")
}

func toWireList(blocks []Block) ([]wireBlock, error) {
	out := make([]wireBlock, 0, len(blocks))
	for _, b := range blocks {
		w, err := toWire(b)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func toWire(b Block) (wireBlock, error) {
	switch v := b.(type) {
	case Image:
		return wireBlock{Type: "image", URL: v.URL}, nil
	case Header:
		return wireBlock{Type: "header", Level: v.Level, Text: v.Text}, nil
	case Paragraph:
		runs := make([]wireRun, 0, len(v.Runs))
		for _, r := range v.Runs {
			runs = append(runs, toWireRun(r))
		}
		return wireBlock{Type: "paragraph", Runs: runs}, nil
	case Code:
		return wireBlock{Type: "code", Lang: v.Lang, Content: v.Content}, nil
	case Blockquote:
		return wireBlock{Type: "blockquote", Text: v.Text}, nil
	case Text:
		r := toWireRun(v.Run)
		return wireBlock{Type: "text", Run: &r}, nil
	case UnorderedList:
		items, err := toWireList(v.Items)
		return wireBlock{Type: "unordered_list", Items: items}, err
	case OrderedList:
		items, err := toWireList(v.Items)
		return wireBlock{Type: "ordered_list", Items: items}, err
	case LineBreak:
		return wireBlock{Type: "line_break"}, nil
	default:
		return wireBlock{}, fmt.Errorf("document: unknown block %T", b)
	}
}

func toWireRun(r Run) wireRun {
	return wireRun{Kind: r.Kind.String(), Text: r.Text, URL: r.URL}
}

// Blocks is a block sequence that encodes itself with MarshalBlocks' shape
// when embedded in other JSON values.
type Blocks []Block

// MarshalJSON implements json.Marshaler.
func (b Blocks) MarshalJSON() ([]byte, error) {
	out, err := toWireList(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
