// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/market"
	"gorm.io/gorm"
)

// Product represents a product sold by a market
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	MarketID    uint           `gorm:"not null;index" json:"market_id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Unit        string         `gorm:"size:20;default:'un'" json:"unit"` // un, kg, g, l, ml
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Market *market.Market `gorm:"foreignKey:MarketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"market,omitempty"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}
