// internal/domain/coupon/repository.go
package coupon

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// gormStore is the postgres-backed Store implementation
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed coupon store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByCode(code string) (*Coupon, error) {
	var c Coupon
	result := s.db.Where("code = ?", NormalizeCode(code)).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", result.Error)
	}
	return &c, nil
}

func (s *gormStore) FindByID(id uint) (*Coupon, error) {
	var c Coupon
	result := s.db.First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", result.Error)
	}
	return &c, nil
}

func (s *gormStore) List(marketID *uint, page, limit int) ([]Coupon, int64, error) {
	var coupons []Coupon
	var total int64

	query := s.db.Model(&Coupon{})
	if marketID != nil {
		query = query.Where("market_id = ?", *marketID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve coupons: %w", err)
	}

	return coupons, total, nil
}

func (s *gormStore) Create(c *Coupon) error {
	return s.db.Create(c).Error
}

func (s *gormStore) Update(id uint, updates map[string]interface{}) error {
	return s.db.Model(&Coupon{}).Where("id = ?", id).Updates(updates).Error
}

func (s *gormStore) Delete(id uint) error {
	return s.db.Delete(&Coupon{}, id).Error
}

// IncrementUsage consumes one usage slot. The guard on usage_limit makes
// validation and increment a single indivisible step, so concurrent
// redemptions cannot push used_count past the limit.
func (s *gormStore) IncrementUsage(id uint) (bool, error) {
	result := s.db.Model(&Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))

	if result.Error != nil {
		return false, fmt.Errorf("failed to increment coupon usage: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
