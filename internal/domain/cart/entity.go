// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// Cart represents a user's in-progress selection of items for a single
// market. At most one cart exists per (user, market) pair; a cart with
// zero items is deleted, never retained, so carts are hard-deleted.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_carts_user_market" json:"user_id"`
	MarketID  uint       `gorm:"not null;uniqueIndex:idx_carts_user_market" json:"market_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem represents one product inside a cart. Adding an already
// present product increments its quantity instead of duplicating the
// row, enforced by the unique (cart_id, product_id) index.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides the table name for Cart
func (Cart) TableName() string {
	return "carts"
}

// TableName overrides the table name for CartItem
func (CartItem) TableName() string {
	return "cart_items"
}
