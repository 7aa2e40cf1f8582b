// internal/domain/order/repository.go
package order

import (
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/domain/market"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"gorm.io/gorm"
)

// gormStore is the postgres-backed Store implementation
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed order store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// CreateWithItems persists the order and its item snapshots in one
// transaction.
func (s *gormStore) CreateWithItems(o *Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		items := o.Items
		o.Items = nil

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		o.Items = items
		return nil
	})
}

func (s *gormStore) FindByID(id uint) (*Order, error) {
	var o Order
	result := s.preloaded().First(&o, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

func (s *gormStore) List(req *ListRequest) ([]Order, int64, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}
	if req.MarketID > 0 {
		query = query.Where("market_id = ?", req.MarketID)
	}
	if req.DelivererID > 0 {
		query = query.Where("deliverer_id = ?", req.DelivererID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Size
	err := s.preloadList(query).
		Order("created_at DESC").
		Offset(offset).
		Limit(req.Size).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

func (s *gormStore) Update(id uint, updates map[string]interface{}) error {
	return s.db.Model(&Order{}).Where("id = ?", id).Updates(updates).Error
}

func (s *gormStore) preloaded() *gorm.DB {
	return s.preloadList(s.db)
}

func (s *gormStore) preloadList(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items").
		Preload("Items.Product").
		Preload("User").
		Preload("Market").
		Preload("Deliverer").
		Preload("Coupon").
		Preload("DeliveryAddress")
}

// gormReferences checks referenced entities against the database
type gormReferences struct {
	db *gorm.DB
}

// NewReferences creates a gorm-backed References implementation
func NewReferences(db *gorm.DB) References {
	return &gormReferences{db: db}
}

func (r *gormReferences) UserExists(id uint) (bool, error) {
	return r.exists(&user.User{}, id)
}

func (r *gormReferences) MarketExists(id uint) (bool, error) {
	return r.exists(&market.Market{}, id)
}

func (r *gormReferences) AddressExists(id uint) (bool, error) {
	return r.exists(&user.Address{}, id)
}

func (r *gormReferences) MissingProducts(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	err := r.db.Model(&product.Product{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check products: %w", err)
	}

	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}

	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *gormReferences) exists(model interface{}, id uint) (bool, error) {
	var count int64
	if err := r.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}
