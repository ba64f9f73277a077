package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedText - в строке есть символы, которых нет в cp1252 встроенных шрифтов PDF.
var ErrUnsupportedText = errors.New("символы не поддерживаются шрифтом pdf")

// checkEncodable возвращает ошибку, если line нельзя записать встроенным шрифтом без потерь.
func checkEncodable(line string) error {
	for _, r := range line {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedText, r)
		}
	}
	return nil
}

// PDFGenerator строит подтверждение в формате PDF.
type PDFGenerator struct{}

// Generate реализует Generator.
// Текст, который шрифт не может отобразить, дает ошибку, а не точки вместо букв.
func (PDFGenerator) Generate(doc Document) ([]byte, error) {
	for _, line := range append([]string{doc.Title}, doc.Lines...) {
		if err := checkEncodable(line); err != nil {
			return nil, err
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 18)
	pdf.Text(20, 20, tr(doc.Title))

	pdf.SetFont("Helvetica", "", 12)
	y := 40.0
	for _, line := range doc.Lines {
		pdf.Text(20, y, tr(line))
		y += 10
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("запись pdf: %w", err)
	}
	return buf.Bytes(), nil
}
