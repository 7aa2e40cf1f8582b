// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"gorm.io/gorm"
)

// DiscountType represents how a coupon discounts an order
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Coupon represents a promotional code. The code is always stored
// upper-cased so lookups are case-insensitive.
type Coupon struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Type          DiscountType   `gorm:"not null;size:20" json:"type"`
	Value         float64        `gorm:"not null" json:"value"`
	MinOrderValue *float64       `json:"min_order_value,omitempty"`
	MaxDiscount   *float64       `json:"max_discount,omitempty"`
	UsageLimit    *int           `json:"usage_limit,omitempty"`
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	ValidFrom     time.Time      `gorm:"not null" json:"valid_from"`
	ValidUntil    *time.Time     `json:"valid_until,omitempty"`
	MarketID      *uint          `gorm:"index" json:"market_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}
