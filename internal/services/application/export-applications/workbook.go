// internal/services/application/export-applications/workbook.go
package exportapplications

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"hr-intake/internal/models"

	"github.com/xuri/excelize/v2"
)

// ErrCellTooLong reports a stored value a cell cannot hold without truncation.
var ErrCellTooLong = errors.New("value exceeds spreadsheet cell limit")

// WorkbookName and ArchiveName embed the UTC date of the export.
func WorkbookName(now time.Time) string {
	return workbookPrefix + now.UTC().Format(dateLayout) + ".xlsx"
}

func ArchiveName(now time.Time) string {
	return archivePrefix + now.UTC().Format(dateLayout) + ".zip"
}

// BuildWorkbook writes one sheet with a header row from models.Fields and one
// row per record in the given order. Zero records give a header-only sheet.
// A value longer than a cell allows fails the build instead of being cut.
func BuildWorkbook(sheet string, records []*models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(models.Fields))
	for i, field := range models.Fields {
		header[i] = field.Header

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, field.Width); err != nil {
			return nil, fmt.Errorf("set width %s: %w", col, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	for r, rec := range records {
		row := make([]interface{}, len(models.Fields))
		for i, field := range models.Fields {
			v := cellValue(rec.Value(field.Column))
			if text, ok := v.(string); ok && utf8.RuneCountInString(text) > excelize.TotalCellChars {
				return nil, fmt.Errorf("record %d %s: %w", rec.ID, field.Column, ErrCellTooLong)
			}
			row[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	default:
		return t
	}
}

// BuildArchive wraps content as the single entry name of a zip archive.
func BuildArchive(name string, content []byte, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return nil, fmt.Errorf("create zip entry: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		return nil, fmt.Errorf("write zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
