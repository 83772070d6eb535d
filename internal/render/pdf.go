package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/gohabr/internal/document"
)

// PDFOptions configures PDF output.
type PDFOptions struct {
	// FontFile is a UTF-8 TrueType font used for body text. Without it the
	// core Helvetica font is used, which only covers Latin-1.
	FontFile string
}

const (
	bodySize = 11.0
	lineH    = 5.0
)

type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	font string
}

// PDF renders blocks as an A4 document to out.
func PDF(out io.Writer, title string, blocks []document.Block, opts PDFOptions) error {
	w := newPDFWriter(opts)
	w.document(title, blocks)
	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return w.pdf.Output(out)
}

// PDFFile renders blocks to the file at path.
func PDFFile(path, title string, blocks []document.Block, opts PDFOptions) error {
	w := newPDFWriter(opts)
	w.document(title, blocks)
	if err := w.pdf.Error(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = w.pdf.Output(f)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newPDFWriter(opts PDFOptions) *pdfWriter {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w := &pdfWriter{pdf: pdf, font: "Helvetica"}
	if opts.FontFile != "" {
		// The same face stands in for every style.
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font("body", style, opts.FontFile)
		}
		w.font = "body"
	}
	pdf.SetFont(w.font, "", bodySize)
	pdf.AddPage()
	return w
}

func (w *pdfWriter) document(title string, blocks []document.Block) {
	if title != "" {
		w.pdf.SetFont(w.font, "B", 16)
		w.pdf.MultiCell(0, 8, title, "", "L", false)
		w.pdf.Ln(4)
		w.pdf.SetFont(w.font, "", bodySize)
	}
	for _, b := range blocks {
		w.block(b, 0)
	}
}

func (w *pdfWriter) block(b document.Block, indent float64) {
	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetX(left + indent)
	switch v := b.(type) {
	case document.Image:
		w.pdf.SetFont(w.font, "I", bodySize)
		w.pdf.WriteLinkString(lineH, "[image] "+v.URL, v.URL)
		w.pdf.SetFont(w.font, "", bodySize)
		w.pdf.Ln(lineH + 2)
	case document.Header:
		size := 15.0 - float64(v.Level)
		w.pdf.SetFont(w.font, "B", size)
		w.pdf.MultiCell(0, 7, v.Text, "", "L", false)
		w.pdf.SetFont(w.font, "", bodySize)
		w.pdf.Ln(2)
	case document.Paragraph:
		w.runs(v.Runs)
		w.pdf.Ln(lineH + 2)
	case document.Text:
		w.runs([]document.Run{v.Run})
		w.pdf.Ln(lineH + 2)
	case document.Code:
		w.pdf.SetFont("Courier", "", 9)
		w.pdf.SetFillColor(240, 240, 240)
		w.pdf.MultiCell(0, 4.5, strings.TrimRight(v.Content, "\n"), "", "L", true)
		w.pdf.SetFont(w.font, "", bodySize)
		w.pdf.Ln(2)
	case document.Blockquote:
		y := w.pdf.GetY()
		w.pdf.SetFont(w.font, "I", bodySize)
		w.pdf.SetX(left + indent + 4)
		w.pdf.MultiCell(0, lineH, v.Text, "", "L", false)
		w.pdf.SetFont(w.font, "", bodySize)
		w.pdf.SetLineWidth(0.5)
		w.pdf.Line(left+indent+1, y, left+indent+1, w.pdf.GetY())
		w.pdf.Ln(2)
	case document.UnorderedList:
		w.list(v.Items, indent, func(int) string { return "-" })
	case document.OrderedList:
		w.list(v.Items, indent, func(i int) string { return strconv.Itoa(i+1) + "." })
	case document.LineBreak:
		w.pdf.Ln(lineH)
	}
}

func (w *pdfWriter) list(items []document.Block, indent float64, marker func(int) string) {
	left, _, _, _ := w.pdf.GetMargins()
	for i, it := range items {
		w.pdf.SetX(left + indent)
		w.pdf.Write(lineH, marker(i)+" ")
		switch v := it.(type) {
		case document.Text:
			w.runs([]document.Run{v.Run})
		case document.Paragraph:
			w.runs(v.Runs)
		}
		w.pdf.Ln(lineH + 1)
	}
	w.pdf.Ln(1)
}

func (w *pdfWriter) runs(rs []document.Run) {
	for _, r := range rs {
		switch r.Kind {
		case document.KindCode:
			w.pdf.SetFont("Courier", "", bodySize-1)
			w.pdf.Write(lineH, r.Text)
		case document.KindLink:
			w.pdf.SetTextColor(20, 70, 200)
			w.pdf.WriteLinkString(lineH, r.Text, r.URL)
			w.pdf.SetTextColor(0, 0, 0)
		case document.KindItalic:
			w.pdf.SetFont(w.font, "I", bodySize)
			w.pdf.Write(lineH, r.Text)
		case document.KindStrong:
			w.pdf.SetFont(w.font, "B", bodySize)
			w.pdf.Write(lineH, r.Text)
		default:
			w.pdf.Write(lineH, r.Text)
		}
		w.pdf.SetFont(w.font, "", bodySize)
	}
}
