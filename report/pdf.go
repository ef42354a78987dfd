package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

// column widths in mm; landscape A4 leaves 277mm between margins
var pdfWidths = []float64{55, 35, 25, 25, 15, 25, 48, 48}

// WritePDF renders rep as a landscape A4 table with a page footer.
func WritePDF(w io.Writer, rep *Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(rep.Title, true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s  |  page %d/{nb}", rep.GeneratedAt.Format(TimeLayout), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(200, 200, 200)
		for i, col := range Columns {
			pdf.CellFormat(pdfWidths[i], 7, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(rep.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(rep.Period()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	header()
	if len(rep.Rows) == 0 {
		pdf.CellFormat(0, 7, "No item movements in this period.", "1", 1, "C", false, 0, "")
	}
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range rep.Rows {
		if pdf.GetY()+6 > pageH-bottom-12 {
			pdf.AddPage()
			header()
		}
		for i, cell := range row.Cells() {
			align := "L"
			if i >= 2 && i <= 4 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total items: %d", len(rep.Rows)), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
