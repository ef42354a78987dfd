package report

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
)

const sheetName = "Report"

func cellName(col, row int) string {
	return string(rune('A'+col)) + strconv.Itoa(row)
}

// WriteXLSX renders rep as a single-sheet workbook. Prices and ids are stored as numbers.
func WriteXLSX(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	f.SetCellValue(sheetName, "A1", rep.Title)
	f.SetCellValue(sheetName, "A2", rep.Period())
	const headerRow = 4
	for i, col := range Columns {
		f.SetCellValue(sheetName, cellName(i, headerRow), col)
	}
	for i, row := range rep.Rows {
		n := headerRow + 1 + i
		cells := row.Cells()
		f.SetCellValue(sheetName, cellName(0, n), row.ProductName)
		f.SetCellValue(sheetName, cellName(1, n), row.Category)
		f.SetCellValue(sheetName, cellName(2, n), row.SellPrice)
		f.SetCellValue(sheetName, cellName(3, n), row.BuyPrice)
		f.SetCellValue(sheetName, cellName(4, n), row.ItemID)
		f.SetCellValue(sheetName, cellName(5, n), row.Status)
		f.SetCellValue(sheetName, cellName(6, n), cells[6])
		f.SetCellValue(sheetName, cellName(7, n), cells[7])
	}
	f.SetColWidth(sheetName, "A", "B", 24)
	f.SetColWidth(sheetName, "G", "H", 24)
	return f.Write(w)
}
