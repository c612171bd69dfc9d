package listing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", errs.NewInvalidFieldError("format", "must be pdf or xlsx")
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName is the download name for a listing export.
func (f Format) FileName(base string) string {
	if base == "" {
		base = "export"
	}
	return base + "." + string(f)
}

// ExportPage loads the requested page and writes its fetched rows with the visible
// columns. Only the current page is exported, never the full result set.
func (t *Table[T]) ExportPage(ctx context.Context, w io.Writer, format Format, q Query) error {
	if !t.Export.Enabled {
		return errs.NewForbiddenError(t.Name + " cannot be exported")
	}
	result, err := t.Load(ctx, q)
	if err != nil {
		return err
	}
	return Write(w, format, t.Export.FileName, exportColumns(t.VisibleColumns(q.Hidden)), result.Records())
}

// exportColumns drops columns without data, such as the action column.
func exportColumns[T any](columns []Column[T]) []Column[T] {
	out := make([]Column[T], 0, len(columns))
	for _, col := range columns {
		if col.Key == ActionColumn || col.Value == nil {
			continue
		}
		out = append(out, col)
	}
	return out
}

// Write serializes records as a table in the given format.
func Write[T any](w io.Writer, format Format, title string, columns []Column[T], records []T) error {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = col.Value(record)
		}
		rows[i] = row
	}

	switch format {
	case FormatPDF:
		return writePDF(w, title, header, rows)
	case FormatXLSX:
		return writeXLSX(w, header, rows)
	}
	return errs.NewInvalidFieldError("format", "must be pdf or xlsx")
}

const (
	pdfMargin     = 10.0
	pdfLineHeight = 7.0
)

func writePDF(w io.Writer, title string, header []string, rows [][]string) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	colWidth := pageWidth - 2*pdfMargin
	if len(header) > 0 {
		colWidth /= float64(len(header))
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range header {
		pdf.CellFormat(colWidth, pdfLineHeight, tr(fitText(pdf, h, colWidth)), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, pdfLineHeight, tr(fitText(pdf, cell, colWidth)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fitText shortens text with an ellipsis until it fits in width.
func fitText(pdf *fpdf.Fpdf, text string, width float64) string {
	text = strings.Join(strings.Fields(text), " ")
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

const sheetName = "Sheet1"

func writeXLSX(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &row)
}
