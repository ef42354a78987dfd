// Package report renders inventory movement reports as PDF, CSV or XLSX documents.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is used for every timestamp shown in a report.
const TimeLayout = "02-January-2006 15:04"

// NoExit is printed for items that are still in stock.
const NoExit = "-"

// Columns are the report headers, in output order.
var Columns = []string{"Product", "Category", "Sell price", "Buy price", "Item", "Status", "Entry date", "Exit date"}

// Row is one item with its product attributes.
type Row struct {
	ProductName string
	Category    string
	SellPrice   float64
	BuyPrice    float64
	ItemID      uint
	Status      string
	EntryDate   time.Time
	ExitDate    *time.Time
}

// Cells returns the row formatted as report text, aligned with Columns.
func (r Row) Cells() []string {
	exit := NoExit
	if r.ExitDate != nil {
		exit = r.ExitDate.Format(TimeLayout)
	}
	return []string{
		r.ProductName,
		r.Category,
		Money(r.SellPrice),
		Money(r.BuyPrice),
		strconv.FormatUint(uint64(r.ItemID), 10),
		r.Status,
		r.EntryDate.Format(TimeLayout),
		exit,
	}
}

// Report is a titled set of rows covering [From, To].
type Report struct {
	Title       string
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	Rows        []Row
}

// Period renders the covered range for headings.
func (r *Report) Period() string {
	return r.From.Format(TimeLayout) + " - " + r.To.Format(TimeLayout)
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Format selects the output document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format; empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}

// Filename returns the attachment name for a report generated at t.
func (f Format) Filename(t time.Time) string {
	return "inventory-report-" + t.Format("20060102") + "." + string(f)
}

// Write renders rep in format f.
func Write(w io.Writer, rep *Report, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rep)
	case FormatXLSX:
		return WriteXLSX(w, rep)
	case FormatPDF, "":
		return WritePDF(w, rep)
	default:
		return fmt.Errorf("unsupported report format %q", f)
	}
}
