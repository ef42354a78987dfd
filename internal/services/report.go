package services

import (
	"context"
	"time"

	"github.com/diewo77/go-inventory/internal/models"
	"github.com/diewo77/go-inventory/report"
	"gorm.io/gorm"
)

// ReportWindow is how far back a report looks from its generation time.
const ReportWindow = 90 * 24 * time.Hour

// ReportTitle heads every generated report.
const ReportTitle = "Inventory Movement Report"

// ReportService assembles report rows from the item ledger.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Build collects every item that entered stock within ReportWindow before now,
// ordered by entry date then id.
func (s *ReportService) Build(ctx context.Context, now time.Time) (*report.Report, error) {
	now = now.UTC()
	from := now.Add(-ReportWindow)

	var items []models.Item
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("entry_date >= ? AND entry_date <= ?", from, now).
		Order("entry_date, id").
		Find(&items).Error
	if err != nil {
		return nil, storageErr("build report", err)
	}

	rep := &report.Report{
		Title:       ReportTitle,
		From:        from,
		To:          now,
		GeneratedAt: now,
		Rows:        make([]report.Row, 0, len(items)),
	}
	for _, it := range items {
		row := report.Row{
			ItemID:    it.ID,
			Status:    string(it.Status),
			EntryDate: it.EntryDate,
			ExitDate:  it.ExitDate,
		}
		if it.Product != nil {
			row.ProductName = it.Product.Name
			row.Category = it.Product.Category
			row.SellPrice = it.Product.SellPrice
			row.BuyPrice = it.Product.BuyPrice
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}
