package report

import (
	"io"

	"github.com/gocarina/gocsv"
)

type csvRecord struct {
	Product   string `csv:"product"`
	Category  string `csv:"category"`
	SellPrice string `csv:"sell_price"`
	BuyPrice  string `csv:"buy_price"`
	ItemID    string `csv:"item_id"`
	Status    string `csv:"status"`
	EntryDate string `csv:"entry_date"`
	ExitDate  string `csv:"exit_date"`
}

// WriteCSV renders rep as CSV with a header line.
func WriteCSV(w io.Writer, rep *Report) error {
	records := make([]*csvRecord, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		c := row.Cells()
		records = append(records, &csvRecord{
			Product:   c[0],
			Category:  c[1],
			SellPrice: c[2],
			BuyPrice:  c[3],
			ItemID:    c[4],
			Status:    c[5],
			EntryDate: c[6],
			ExitDate:  c[7],
		})
	}
	out, err := gocsv.MarshalBytes(&records)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
