// ==============================================================================
// PDF EXPORT - internal/export/pdf.go
// ==============================================================================
package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"verid/internal/domain"
	veriderrors "verid/pkg/errors"
)

// PDFWriter renders the canonical profile as a paginated report: one titled
// block per section, wrapped long text, bulleted rows for list data. It has
// no DOM or browser dependency and is reused by the auto-email step.
type PDFWriter struct{}

func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

// Render satisfies pipeline.PDFRenderer.
func (w *PDFWriter) Render(p *domain.CanonicalProfile, d *domain.Draft) ([]byte, error) {
	blocks := Flatten(p, d)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 18)
	doc.SetTitle("Verification Report", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Verification Report", "", 1, "C", false, 0, "")
	if d != nil && d.FullName != "" {
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 7, d.FullName, "", 1, "C", false, 0, "")
	}
	doc.Ln(4)

	for _, block := range blocks {
		writeBlock(doc, block)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, veriderrors.Wrap(err, "failed to render pdf")
	}
	return buf.Bytes(), nil
}

func writeBlock(doc *fpdf.Fpdf, block Block) {
	// Keep the section title together with at least one row.
	if doc.GetY() > 260 {
		doc.AddPage()
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.SetFillColor(235, 238, 245)
	doc.CellFormat(0, 8, block.Title, "", 1, "L", true, 0, "")
	doc.Ln(1)

	doc.SetFont("Helvetica", "", 10)
	for _, pair := range block.Pairs {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(55, 6, pair.Key, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		// MultiCell wraps long values and advances to the next line.
		doc.MultiCell(0, 6, pair.Value, "", "L", false)
	}

	if block.Table != nil && len(block.Table.Rows) > 0 {
		doc.Ln(1)
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(0, 6, block.Table.Title, "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		for _, row := range block.Table.Rows {
			doc.MultiCell(0, 6, "- "+rowLine(block.Table, row), "", "L", false)
		}
	}

	doc.Ln(3)
}

func rowLine(table *Table, row map[string]string) string {
	var buf bytes.Buffer
	for i, key := range table.Keys {
		value, ok := row[key]
		if !ok || value == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(" | ")
		}
		buf.WriteString(table.Columns[i])
		buf.WriteString(": ")
		buf.WriteString(value)
	}
	if buf.Len() == 0 {
		return NotAvailable
	}
	return buf.String()
}
