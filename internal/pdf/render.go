package pdf

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

// Letter is the content printed on one notice.
type Letter = model.LetterContent

// Renderer lays out notices with fixed Styles.
type Renderer struct {
	styles Styles
}

// NewRenderer проверяет шрифты и создаёт рендерер.
func NewRenderer(styles Styles) (*Renderer, error) {
	if err := styles.check(); err != nil {
		return nil, err
	}
	return &Renderer{styles: styles}, nil
}

// EmbedCode places the PNG code image as a size×size square at (x, y).
func EmbedCode(doc *fpdf.Fpdf, imagePath string, x, y, size float64) error {
	doc.ImageOptions(imagePath, x, y, size, size, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return doc.Error()
}

func (r *Renderer) newDoc() (*fpdf.Fpdf, func(string) string) {
	s := r.styles
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(s.Margin, s.Margin, s.Margin)
	doc.SetAutoPageBreak(true, s.Margin)

	if s.FontDir != "" {
		doc.AddUTF8Font(s.FontFamily, "", filepath.Join(s.FontDir, s.RegularFont))
		doc.AddUTF8Font(s.FontFamily, "B", filepath.Join(s.FontDir, s.BoldFont))
		return doc, func(text string) string { return text }
	}
	return doc, doc.UnicodeTranslatorFromDescriptor("")
}

// Render returns the PDF bytes of one notice. qrPath may be empty.
func (r *Renderer) Render(letter Letter, qrPath string) ([]byte, error) {
	s := r.styles
	doc, tr := r.newDoc()
	doc.SetFooterFunc(func() {
		doc.SetY(-s.Margin + 5)
		doc.SetFont(s.FontFamily, "", s.SmallSize)
		doc.SetTextColor(110, 110, 110)
		doc.CellFormat(0, 4, tr(s.Footer), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	width, _ := doc.GetPageSize()
	content := width - 2*s.Margin

	// шапка
	for i, line := range s.Letterhead {
		size := s.BodySize
		if i == 0 {
			size = s.TitleSize
		}
		doc.SetFont(s.FontFamily, "B", size)
		doc.CellFormat(0, s.Line+1, tr(line), "", 1, "R", false, 0, "")
	}
	doc.SetDrawColor(0, 70, 140)
	doc.Line(s.Margin, doc.GetY()+2, width-s.Margin, doc.GetY()+2)
	doc.Ln(8)

	doc.SetFont(s.FontFamily, "", s.BodySize)
	doc.CellFormat(0, s.Line, tr(letter.Date), "", 1, "L", false, 0, "")
	doc.Ln(s.Line)

	doc.SetFont(s.FontFamily, "B", s.BodySize)
	doc.CellFormat(0, s.Line, tr(letter.CustomerName), "", 1, "L", false, 0, "")
	doc.SetFont(s.FontFamily, "", s.BodySize)
	if letter.Assignee != "" {
		doc.CellFormat(0, s.Line, tr("Assignee: "+letter.Assignee), "", 1, "L", false, 0, "")
	}
	for _, line := range letter.Address {
		doc.CellFormat(0, s.Line, tr(line), "", 1, "L", false, 0, "")
	}
	doc.Ln(s.Line)

	doc.SetFont(s.FontFamily, "B", s.BodySize)
	doc.MultiCell(content, s.Line, tr(letter.Subject), "", "L", false)
	doc.Ln(s.Line / 2)

	doc.SetFont(s.FontFamily, "", s.BodySize)
	doc.CellFormat(0, s.Line, tr(letter.Salutation), "", 1, "L", false, 0, "")
	doc.Ln(s.Line / 2)
	doc.MultiCell(content, s.Line, tr(letter.BodyIntro), "", "J", false)
	doc.Ln(s.Line)

	r.detailsTable(doc, tr, letter.PolicyDetails, content)
	doc.Ln(s.Line)

	if qrPath != "" {
		top := doc.GetY()
		textWidth := content - s.QRSize - 6
		doc.MultiCell(textWidth, s.Line, tr("To settle the amount in arrears, simply scan the QR code with "+
			"your mobile banking application. The payment reference is your policy number."), "", "L", false)
		if err := EmbedCode(doc, qrPath, width-s.Margin-s.QRSize, top, s.QRSize); err != nil {
			return nil, fmt.Errorf("embed qr code: %w", err)
		}
		if doc.GetY() < top+s.QRSize {
			doc.SetY(top + s.QRSize)
		}
		doc.Ln(s.Line)
	}

	for _, line := range letter.Closing {
		doc.MultiCell(content, s.Line, tr(line), "", "L", false)
		doc.Ln(s.Line / 2)
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) detailsTable(doc *fpdf.Fpdf, tr func(string) string, d model.PolicyDetails, width float64) {
	s := r.styles
	header := []string{"Policy No", "Premium (MUR)", "Frequency", "Arrears (MUR)"}
	values := []string{d.PolicyNo, util.FormatMoney(d.Premium), d.Frequency, util.FormatMoney(d.ArrearsAmount)}
	if d.Instalments != "" {
		header = append(header, "Instalments")
		values = append(values, d.Instalments)
	}
	col := width / float64(len(header))

	doc.SetFont(s.FontFamily, "B", s.BodySize)
	doc.SetFillColor(225, 234, 245)
	for _, h := range header {
		doc.CellFormat(col, s.Line+2, tr(h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont(s.FontFamily, "", s.BodySize)
	for _, v := range values {
		doc.CellFormat(col, s.Line+2, tr(v), "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)
}
