package document

import (
	_ "embed"
	"fmt"
	"io"

	"foodgram/domain"

	"github.com/phpdave11/gofpdf"
)

const fontFamily = "DejaVu"

// Ingredient names come from user data in any script, so the core PDF
// fonts (cp1252 only) cannot be used.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

type ShoppingListRenderer interface {
	Render(w io.Writer, items []domain.ShoppingListItem) error
}

type shoppingListPDF struct {
	compress bool
}

// NewShoppingListPDF renders the aggregated list as a one-column A4 PDF.
// Compression is switched off in tests so the text can be searched.
func NewShoppingListPDF(compress bool) ShoppingListRenderer {
	return &shoppingListPDF{compress: compress}
}

// Lines formats each item as "{n}. {name} - {total} {unit}." or yields the
// empty indicator when there is nothing to buy.
func Lines(items []domain.ShoppingListItem) []string {
	if len(items) == 0 {
		return []string{domain.ShoppingListEmpty}
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s - %d %s.", i+1, item.Name, item.TotalAmount, item.MeasurementUnit))
	}
	return lines
}

func (r *shoppingListPDF) Render(w io.Writer, items []domain.ShoppingListItem) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(domain.ShoppingListTitle, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 12, domain.ShoppingListTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 12)
	for _, line := range Lines(items) {
		pdf.MultiCell(0, 8, line, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render shopping list: %w", err)
	}
	return pdf.Output(w)
}
