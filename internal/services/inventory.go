package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-inventory/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MaxQuantity bounds a single stock movement.
const MaxQuantity = 10000

// InventoryService owns products and the lifecycle of their items.
type InventoryService struct {
	db    *gorm.DB
	locks sync.Map // product id -> *sync.Mutex
	now   func() time.Time
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// NewStock describes a stock entry: a product identity plus how many units arrived.
type NewStock struct {
	Name         string
	Category     string
	Quantity     int
	SellPrice    float64
	BuyPrice     float64
	SalesReceipt *string
}

// ProductUpdate carries the fields to overwrite. A nil field is left unchanged;
// a non-nil field is applied even when it holds a zero value.
type ProductUpdate struct {
	Name      *string
	Category  *string
	SellPrice *float64
	BuyPrice  *float64
}

// IsEmpty reports whether no field is present.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.SellPrice == nil && u.BuyPrice == nil
}

// ReduceRequest moves up to Quantity available items of a product to Status.
type ReduceRequest struct {
	ProductID       uint
	Quantity        int
	Status          models.ItemStatus
	PurchaseReceipt *string
}

// ItemFilter narrows an item listing. Zero values disable a criterion.
type ItemFilter struct {
	Status models.ItemStatus
	From   *time.Time
	To     *time.Time
}

func validatePrice(field string, v float64) error {
	if v < 0 {
		return invalid(field, "must_be_non_negative")
	}
	return nil
}

func validateQuantity(q int) error {
	if q < 0 {
		return invalid("quantity", "must_be_non_negative")
	}
	if q > MaxQuantity {
		return invalid("quantity", "too_large")
	}
	return nil
}

// AddProduct records a stock entry. When a product with the same name, category,
// sell price and buy price exists the new items are attached to it, otherwise the
// product is created first.
func (s *InventoryService) AddProduct(ctx context.Context, in NewStock) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return nil, invalid("name", "required")
	}
	if len(in.Name) > 100 {
		return nil, invalid("name", "too_long")
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := validatePrice("sell_price", in.SellPrice); err != nil {
		return nil, err
	}
	if err := validatePrice("buy_price", in.BuyPrice); err != nil {
		return nil, err
	}

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("name = ? AND category = ? AND sell_price = ? AND buy_price = ?",
			in.Name, in.Category, in.SellPrice, in.BuyPrice).
			Order("id").Limit(1).Find(&product)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			product = models.Product{
				Name:      in.Name,
				Category:  in.Category,
				SellPrice: in.SellPrice,
				BuyPrice:  in.BuyPrice,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}
		if in.Quantity == 0 {
			return nil
		}
		now := s.now()
		items := make([]models.Item, in.Quantity)
		for i := range items {
			items[i] = models.Item{
				ProductID:    product.ID,
				EntryDate:    now,
				Status:       models.ItemStatusAvailable,
				SalesReceipt: in.SalesReceipt,
			}
		}
		return tx.CreateInBatches(items, 200).Error
	})
	if err != nil {
		return nil, storageErr("add product", err)
	}
	if err := s.fillCounts(ctx, []*models.Product{&product}); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns every product, or only those of category when it is non-empty.
func (s *InventoryService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Order("id")
	if category = strings.TrimSpace(category); category != "" {
		q = q.Where("category = ?", category)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, storageErr("list products", err)
	}
	ptrs := make([]*models.Product, len(products))
	for i := range products {
		ptrs[i] = &products[i]
	}
	if err := s.fillCounts(ctx, ptrs); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories returns the distinct non-empty categories in alphabetical order.
func (s *InventoryService) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ?", "").
		Distinct().
		Order("category").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	return cats, nil
}

// GetProduct returns the product with its available item count, or ErrNotFound.
func (s *InventoryService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get product", err)
	}
	if err := s.fillCounts(ctx, []*models.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct applies the present fields of u to the product.
func (s *InventoryService) UpdateProduct(ctx context.Context, id uint, u ProductUpdate) (*models.Product, error) {
	updates := map[string]any{}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, invalid("name", "required")
		}
		if len(name) > 100 {
			return nil, invalid("name", "too_long")
		}
		updates["name"] = name
	}
	if u.Category != nil {
		updates["category"] = strings.TrimSpace(*u.Category)
	}
	if u.SellPrice != nil {
		if err := validatePrice("sell_price", *u.SellPrice); err != nil {
			return nil, err
		}
		updates["sell_price"] = *u.SellPrice
	}
	if u.BuyPrice != nil {
		if err := validatePrice("buy_price", *u.BuyPrice); err != nil {
			return nil, err
		}
		updates["buy_price"] = *u.BuyPrice
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&p).Updates(updates).Error
	})
	if err != nil {
		return nil, storageErr("update product", err)
	}
	if err := s.fillCounts(ctx, []*models.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes the product and all of its items. It reports whether the
// product existed; deleting a missing product is not an error.
func (s *InventoryService) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	var existed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		existed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, storageErr("delete product", err)
	}
	s.locks.Delete(id)
	return existed, nil
}

// ReduceItems claims up to req.Quantity available items in entry order and marks
// them with req.Status and an exit date. The purchase receipt is recorded only for
// sales. Fewer available items than requested is not an error; the number of items
// actually moved is returned. Any non-blank status is accepted except "available",
// which would not move stock and fails with a ValidationError on the status field.
func (s *InventoryService) ReduceItems(ctx context.Context, req ReduceRequest) (int64, error) {
	status := models.ItemStatus(strings.TrimSpace(string(req.Status)))
	if req.ProductID == 0 {
		return 0, invalid("product_id", "required")
	}
	if err := validateQuantity(req.Quantity); err != nil {
		return 0, err
	}
	if status == "" {
		return 0, invalid("status", "required")
	}
	if status == models.ItemStatusAvailable {
		return 0, invalid("status", "must_leave_available")
	}
	if len(status) > 100 {
		return 0, invalid("status", "too_long")
	}

	mu := s.lockFor(req.ProductID)
	mu.Lock()
	defer mu.Unlock()

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", req.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if req.Quantity == 0 {
			return nil
		}
		var ids []uint
		if err := tx.Model(&models.Item{}).
			Where("product_id = ? AND status = ?", req.ProductID, models.ItemStatusAvailable).
			Order("id").Limit(req.Quantity).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		updates := map[string]any{
			"status":    string(status),
			"exit_date": s.now(),
		}
		if status == models.ItemStatusSold {
			updates["purchase_receipt"] = req.PurchaseReceipt
		}
		res := tx.Model(&models.Item{}).
			Where("id IN ? AND status = ?", ids, models.ItemStatusAvailable).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, storageErr("reduce items", err)
	}
	return affected, nil
}

// ListItems returns the items of a product matching filter, oldest first.
// The To bound includes the whole day it falls on.
func (s *InventoryService) ListItems(ctx context.Context, productID uint, filter ItemFilter) ([]models.Item, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, storageErr("list items", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	q := s.db.WithContext(ctx).Where("product_id = ?", productID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("entry_date >= ?", startOfDay(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("entry_date < ?", startOfDay(*filter.To).AddDate(0, 0, 1))
	}
	var items []models.Item
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, storageErr("list items", err)
	}
	return items, nil
}

// AvailableCount returns how many items of the product are still available.
func (s *InventoryService) AvailableCount(ctx context.Context, productID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("product_id = ? AND status = ?", productID, models.ItemStatusAvailable).
		Count(&n).Error
	if err != nil {
		return 0, storageErr("count items", err)
	}
	return n, nil
}

func (s *InventoryService) fillCounts(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	var rows []struct {
		ProductID uint
		Total     int64
	}
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Select("product_id, COUNT(*) AS total").
		Where("status = ? AND product_id IN ?", models.ItemStatusAvailable, ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return storageErr("count items", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ProductID] = r.Total
	}
	for _, p := range products {
		p.ItemCount = counts[p.ID]
	}
	return nil
}

func (s *InventoryService) lockFor(productID uint) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(productID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
