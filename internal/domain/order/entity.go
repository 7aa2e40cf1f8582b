// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/domain/market"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusConfirmed        Status = "CONFIRMED"
	StatusPreparing        Status = "PREPARING"
	StatusReadyForDelivery Status = "READY_FOR_DELIVERY"
	StatusOutForDelivery   Status = "OUT_FOR_DELIVERY"
	StatusDelivered        Status = "DELIVERED"
	StatusCancelled        Status = "CANCELLED"
)

// Valid reports whether s is a known status value
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReadyForDelivery,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentPix        PaymentMethod = "PIX"
)

// Order is an immutable record of a finalized purchase. Totals and item
// prices are frozen at creation; later product price changes never
// affect historical orders.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	MarketID      uint          `gorm:"not null;index" json:"market_id"`
	AddressID     uint          `gorm:"not null" json:"address_id"`
	DelivererID   *uint         `gorm:"index" json:"deliverer_id,omitempty"`
	CouponID      *uint         `json:"coupon_id,omitempty"`
	PaymentMethod PaymentMethod `gorm:"not null;size:20" json:"payment_method"`
	Status        Status        `gorm:"not null;default:'PENDING'" json:"status"`
	Total         float64       `gorm:"not null" json:"total"`
	Discount      float64       `gorm:"default:0" json:"discount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items           []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	User            *user.User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Market          *market.Market `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	Deliverer       *user.User     `gorm:"foreignKey:DelivererID" json:"deliverer,omitempty"`
	Coupon          *coupon.Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
	DeliveryAddress *user.Address  `gorm:"foreignKey:AddressID" json:"delivery_address,omitempty"`
}

// OrderItem is a frozen (product, quantity, price) snapshot owned
// exclusively by its order. Price is copied at order time and never
// recomputed.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
