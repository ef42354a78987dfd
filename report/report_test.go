package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	entry := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	exit := entry.Add(26 * time.Hour)
	return &Report{
		Title:       "Inventory report",
		From:        entry.AddDate(0, 0, -90),
		To:          entry.AddDate(0, 0, 5),
		GeneratedAt: entry.AddDate(0, 0, 5),
		Rows: []Row{
			{ProductName: "Widget", Category: "tools", SellPrice: 10, BuyPrice: 6.5, ItemID: 1, Status: "sold", EntryDate: entry, ExitDate: &exit},
			{ProductName: "Kopi Susu", Category: "", SellPrice: 0.1, BuyPrice: 0, ItemID: 2, Status: "available", EntryDate: entry},
		},
	}
}

func TestRowCells(t *testing.T) {
	rep := sampleReport()
	cells := rep.Rows[0].Cells()
	require.Len(t, cells, len(Columns))
	assert.Equal(t, "10.00", cells[2])
	assert.Equal(t, "6.50", cells[3])
	assert.Equal(t, "02-May-2024 09:30", cells[6])
	assert.Equal(t, "03-May-2024 11:30", cells[7])
	assert.Equal(t, NoExit, rep.Rows[1].Cells()[7])
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatPDF, "pdf": FormatPDF, "CSV": FormatCSV, " xlsx ": FormatXLSX}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %s want %s", in, got, want)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("expected error for docx")
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "inventory-report-20240109.pdf", FormatPDF.Filename(at))
	assert.Equal(t, "inventory-report-20240109.xlsx", FormatXLSX.Filename(at))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "missing pdf magic")
}

func TestWritePDFEmptyAndLong(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, &Report{Title: "Empty"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	rep := sampleReport()
	for i := 0; i < 200; i++ {
		rep.Rows = append(rep.Rows, rep.Rows[1])
	}
	buf.Reset()
	require.NoError(t, WritePDF(&buf, rep))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "product,category,sell_price,buy_price,item_id,status,entry_date,exit_date", lines[0])
	assert.Equal(t, "Widget,tools,10.00,6.50,1,sold,02-May-2024 09:30,03-May-2024 11:30", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",-"))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestWriteDispatch(t *testing.T) {
	for _, f := range []Format{FormatPDF, FormatCSV, FormatXLSX} {
		var buf bytes.Buffer
		if err := Write(&buf, sampleReport(), f); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("write %s: empty output", f)
		}
	}
	assert.Error(t, Write(&bytes.Buffer{}, sampleReport(), Format("txt")))
}
