package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// A4 portrait in millimeters. The whole engine draws into this one fixed
// coordinate space.
const (
	PageWidth   = 210.0
	PageHeight  = 297.0
	MarginLeft  = 15.0
	MarginRight = 195.0
)

// Layout is the mutable drawing context for one page. It wraps the pdf
// canvas and is owned exclusively by a single generation call; it is
// never shared between concurrent generations.
type Layout struct {
	pdf *gofpdf.Fpdf
}

func newLayout() *Layout {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(MarginLeft, 10, PageWidth-MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)
	return &Layout{pdf: pdf}
}

// Text places a string with its baseline at (x, y).
func (l *Layout) Text(x, y, size float64, style, s string) {
	l.pdf.SetFont("Arial", style, size)
	l.pdf.Text(x, y, s)
}

// TextRight places a string so that it ends exactly at rightX, by
// measuring the rendered width of s and subtracting it. Monetary figures
// use this so their decimal points line up against the right margin.
func (l *Layout) TextRight(rightX, y, size float64, style, s string) {
	l.pdf.SetFont("Arial", style, size)
	w := l.pdf.GetStringWidth(s)
	l.pdf.Text(rightX-w, y, s)
}

// DottedRule draws a dotted horizontal line from x1 to x2 at height y.
func (l *Layout) DottedRule(x1, y, x2 float64) {
	l.pdf.SetDrawColor(120, 120, 120)
	l.pdf.SetDashPattern([]float64{0.7, 0.9}, 0)
	l.pdf.Line(x1, y, x2, y)
	l.pdf.SetDashPattern([]float64{}, 0)
	l.pdf.SetDrawColor(0, 0, 0)
}

// Checkbox draws a bordered square box, optionally with a cross inside.
func (l *Layout) Checkbox(x, y, size float64, checked bool) {
	l.pdf.SetLineWidth(0.3)
	l.pdf.Rect(x, y, size, size, "D")
	if checked {
		l.pdf.Line(x, y, x+size, y+size)
		l.pdf.Line(x, y+size, x+size, y)
	}
}

// LabelledField draws a bordered box with a small label above its top
// left corner, for values filled in by hand on the printed page.
func (l *Layout) LabelledField(x, y, w, h float64, label string) {
	l.pdf.SetFont("Arial", "", 6)
	l.pdf.Text(x+0.5, y-0.8, label)
	l.pdf.SetLineWidth(0.2)
	l.pdf.Rect(x, y, w, h, "D")
}

// Paragraph flows wrapped text inside a fixed width starting at (x, y).
func (l *Layout) Paragraph(x, y, w, size float64, style, s string) {
	l.pdf.SetFont("Arial", style, size)
	l.pdf.SetXY(x, y)
	l.pdf.MultiCell(w, size*0.5, s, "", "L", false)
}

// QRCode renders a machine-readable code for content as a square of the
// given size with its top left corner at (x, y).
func (l *Layout) QRCode(content string, x, y, size float64) error {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("QR code generation failed: %w", err)
	}
	name := "qr-" + content
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	l.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	l.pdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")
	return nil
}

// Watermark draws a diagonal low-contrast text across the page center.
func (l *Layout) Watermark(s string) {
	l.pdf.SetFont("Arial", "B", 52)
	l.pdf.SetTextColor(236, 236, 236)
	w := l.pdf.GetStringWidth(s)
	l.pdf.TransformBegin()
	l.pdf.TransformRotate(40, PageWidth/2, PageHeight/2)
	l.pdf.Text(PageWidth/2-w/2, PageHeight/2, s)
	l.pdf.TransformEnd()
	l.pdf.SetTextColor(0, 0, 0)
}

// Finalize closes the page and returns the finished document bytes.
func (l *Layout) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := l.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
