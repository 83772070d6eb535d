// Package render writes documents and listings for the terminal and to PDF.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperifyio/gohabr/internal/document"
	"github.com/hyperifyio/gohabr/internal/habr"
)

// Text writes blocks as Markdown-flavoured text under an optional title.
func Text(w io.Writer, title string, blocks []document.Block) error {
	var b strings.Builder
	if title != "" {
		b.WriteString("# ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	for _, blk := range blocks {
		b.WriteString(block(blk))
		b.WriteString("\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func block(blk document.Block) string {
	switch v := blk.(type) {
	case document.Image:
		return "![](" + v.URL + ")"
	case document.Header:
		return strings.Repeat("#", int(v.Level)) + " " + v.Text
	case document.Paragraph:
		return runs(v.Runs)
	case document.Code:
		return "```" + v.Lang + "\n" + strings.TrimRight(v.Content, "\n") + "\n```"
	case document.Blockquote:
		return "> " + strings.ReplaceAll(v.Text, "\n", "\n> ")
	case document.Text:
		return run(v.Run)
	case document.UnorderedList:
		return list(v.Items, func(int) string { return "- " })
	case document.OrderedList:
		return list(v.Items, func(i int) string { return strconv.Itoa(i+1) + ". " })
	case document.LineBreak:
		return ""
	default:
		return fmt.Sprintf("<%T>", blk)
	}
}

func list(items []document.Block, marker func(int) string) string {
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, marker(i)+block(it))
	}
	return strings.Join(lines, "\n")
}

func runs(rs []document.Run) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteString(run(r))
	}
	return b.String()
}

func run(r document.Run) string {
	switch r.Kind {
	case document.KindCode:
		return "`" + r.Text + "`"
	case document.KindLink:
		return "[" + r.Text + "](" + r.URL + ")"
	case document.KindItalic:
		return "*" + r.Text + "*"
	case document.KindStrong:
		return "**" + r.Text + "**"
	default:
		return r.Text
	}
}

// Previews writes one article preview per paragraph.
func Previews(w io.Writer, items []habr.ArticlePreview, page, pages int) error {
	var b strings.Builder
	for _, p := range items {
		fmt.Fprintf(&b, "[%s] %s\n", p.ID, p.Title)
		meta := []string{p.PublishedAt}
		if p.Author != "" {
			meta = append(meta, "@"+p.Author)
		}
		if p.ReadingTime > 0 {
			meta = append(meta, fmt.Sprintf("%d min", p.ReadingTime))
		}
		if p.Complexity != "" {
			meta = append(meta, p.Complexity)
		}
		b.WriteString("  " + strings.Join(meta, " · ") + "\n")
		if len(p.Tags) > 0 {
			b.WriteString("  " + strings.Join(p.Tags, ", ") + "\n")
		}
		if p.Lead != "" {
			b.WriteString("  " + p.Lead + "\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "page %d/%d\n", page, pages)
	_, err := io.WriteString(w, b.String())
	return err
}

// Hubs writes one hub per line.
func Hubs(w io.Writer, hubs []habr.Hub, page, pages int) error {
	var b strings.Builder
	for _, h := range hubs {
		fmt.Fprintf(&b, "%-24s %s (%d subscribers, rating %.1f)\n", h.Alias, h.Title, h.Subscribers, h.Rating)
	}
	fmt.Fprintf(&b, "page %d/%d\n", page, pages)
	_, err := io.WriteString(w, b.String())
	return err
}

// Comments writes comment threads indented by depth.
func Comments(w io.Writer, threads []habr.Comment) error {
	var b strings.Builder
	for _, c := range threads {
		comment(&b, c, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func comment(b *strings.Builder, c habr.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s@%s %s [%+d]\n", indent, c.Author.Alias, c.PublishedAt, c.Score)
	for _, blk := range c.Blocks {
		s := block(blk)
		if s == "" {
			continue
		}
		b.WriteString(indent + "  " + strings.ReplaceAll(s, "\n", "\n"+indent+"  ") + "\n")
	}
	b.WriteString("\n")
	for _, child := range c.Children {
		comment(b, child, depth+1)
	}
}
