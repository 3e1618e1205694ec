// ==============================================================================
// SPREADSHEET EXPORT - internal/export/xlsx.go
// ==============================================================================
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"verid/internal/domain"
	veriderrors "verid/pkg/errors"
)

const summarySheet = "Profile Summary"

// ExcelWriter renders the canonical profile as a workbook: one summary sheet,
// one sheet per non-empty section, plus tabular sheets for list-shaped data.
type ExcelWriter struct{}

func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

func (w *ExcelWriter) Write(p *domain.CanonicalProfile, d *domain.Draft) ([]byte, error) {
	blocks := Flatten(p, d)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if err := writePairs(f, summarySheet, Summary(blocks)); err != nil {
		return nil, veriderrors.Wrap(err, "failed to write summary sheet")
	}

	for _, block := range blocks {
		if len(block.Pairs) > 0 {
			if _, err := f.NewSheet(block.Title); err != nil {
				return nil, veriderrors.Wrap(err, "failed to create sheet")
			}
			if err := writePairs(f, block.Title, block.Pairs); err != nil {
				return nil, veriderrors.Wrap(err, "failed to write sheet")
			}
		}
		if block.Table != nil {
			if err := writeTable(f, block.Table); err != nil {
				return nil, veriderrors.Wrap(err, "failed to write table sheet")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, veriderrors.Wrap(err, "failed to serialize workbook")
	}
	return buf.Bytes(), nil
}

func writePairs(f *excelize.File, sheet string, pairs []KV) error {
	if err := f.SetCellValue(sheet, "A1", "Field"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B1", "Value"); err != nil {
		return err
	}
	for i, pair := range pairs {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pair.Key); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(f *excelize.File, table *Table) error {
	if _, err := f.NewSheet(table.Title); err != nil {
		return err
	}
	for col, label := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(table.Title, cell, label); err != nil {
			return err
		}
	}
	for i, row := range table.Rows {
		for col, key := range table.Keys {
			value, ok := row[key]
			if !ok {
				value = NotAvailable
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(table.Title, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
