// internal/domain/coupon/service.go
package coupon

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// Store is the data access contract for coupons.
type Store interface {
	FindByCode(code string) (*Coupon, error)
	FindByID(id uint) (*Coupon, error)
	List(marketID *uint, page, limit int) ([]Coupon, int64, error)
	Create(c *Coupon) error
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error

	// IncrementUsage bumps used_count by one in a single conditional
	// update and reports whether a usage slot was actually taken.
	// used_count can never exceed usage_limit, even under concurrent
	// redemptions of the same code.
	IncrementUsage(id uint) (bool, error)
}

// Service evaluates and administers coupons
type Service struct {
	store Store
}

// NewService creates a new coupon service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// DiscountResult is the outcome of applying a coupon to an order value
type DiscountResult struct {
	Coupon     *Coupon `json:"coupon"`
	Discount   float64 `json:"discount"`
	FinalValue float64 `json:"final_value"`
}

// CreateCouponRequest represents coupon creation data
type CreateCouponRequest struct {
	Code          string       `json:"code" binding:"required"`
	Type          DiscountType `json:"type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value         float64      `json:"value" binding:"required,gt=0"`
	MinOrderValue *float64     `json:"min_order_value" binding:"omitempty,gte=0"`
	MaxDiscount   *float64     `json:"max_discount" binding:"omitempty,gt=0"`
	UsageLimit    *int         `json:"usage_limit" binding:"omitempty,gt=0"`
	ValidFrom     *time.Time   `json:"valid_from"`
	ValidUntil    *time.Time   `json:"valid_until"`
	MarketID      *uint        `json:"market_id"`
}

// UpdateCouponRequest represents coupon update data
type UpdateCouponRequest struct {
	Value         *float64   `json:"value" binding:"omitempty,gt=0"`
	MinOrderValue *float64   `json:"min_order_value" binding:"omitempty,gte=0"`
	MaxDiscount   *float64   `json:"max_discount" binding:"omitempty,gt=0"`
	UsageLimit    *int       `json:"usage_limit" binding:"omitempty,gt=0"`
	IsActive      *bool      `json:"is_active"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
}

// ValidateCoupon checks a code against an order value and market and
// returns the coupon record. Checks run in a fixed order; the first
// failing check wins.
func (s *Service) ValidateCoupon(code string, orderValue float64, marketID *uint) (*Coupon, error) {
	c, err := s.store.FindByCode(NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Cupom não encontrado")
	}

	now := time.Now().UTC()

	if !c.IsActive {
		return nil, apperr.Validation("Cupom inativo")
	}

	if c.ValidFrom.After(now) {
		return nil, apperr.Validation("Cupom ainda não está em vigor")
	}

	if c.ValidUntil != nil && c.ValidUntil.Before(now) {
		return nil, apperr.Validation("Cupom expirado")
	}

	if c.MinOrderValue != nil && orderValue < *c.MinOrderValue {
		return nil, apperr.Validation(fmt.Sprintf(
			"O valor mínimo do pedido para este cupom é R$ %.2f", *c.MinOrderValue))
	}

	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return nil, apperr.Validation("Cupom esgotado")
	}

	if marketID != nil && c.MarketID != nil && *c.MarketID != *marketID {
		return nil, apperr.Validation("Cupom não é válido para este mercado")
	}

	return c, nil
}

// CalculateDiscount computes the discount a coupon grants on an order
// value. The discount never exceeds the order value and is rounded to
// cents, half away from zero.
func (s *Service) CalculateDiscount(c *Coupon, orderValue float64) *DiscountResult {
	var discount float64

	switch c.Type {
	case DiscountPercentage:
		discount = orderValue * c.Value / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.Value
	}

	if discount > orderValue {
		discount = orderValue
	}
	discount = RoundCents(discount)

	return &DiscountResult{
		Coupon:     c,
		Discount:   discount,
		FinalValue: orderValue - discount,
	}
}

// ApplyCouponToOrder validates a coupon, computes its discount and
// consumes one usage slot. A failed validation never touches the usage
// count; a failed increment (all slots taken concurrently) surfaces as
// exhaustion.
func (s *Service) ApplyCouponToOrder(code string, orderValue float64, marketID *uint) (*DiscountResult, error) {
	c, err := s.ValidateCoupon(code, orderValue, marketID)
	if err != nil {
		return nil, err
	}

	result := s.CalculateDiscount(c, orderValue)

	ok, err := s.store.IncrementUsage(c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record coupon usage: %w", err)
	}
	if !ok {
		return nil, apperr.Validation("Cupom esgotado")
	}
	c.UsedCount++

	return result, nil
}

// GetCoupon retrieves a coupon by ID
func (s *Service) GetCoupon(id uint) (*Coupon, error) {
	c, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Cupom não encontrado")
	}
	return c, nil
}

// GetCoupons lists coupons, optionally restricted to a market
func (s *Service) GetCoupons(marketID *uint, page, limit int) ([]Coupon, int64, error) {
	return s.store.List(marketID, page, limit)
}

// CreateCoupon creates a new coupon
func (s *Service) CreateCoupon(req *CreateCouponRequest) (*Coupon, error) {
	validFrom := time.Now().UTC()
	if req.ValidFrom != nil {
		validFrom = req.ValidFrom.UTC()
	}

	if req.ValidUntil != nil && req.ValidUntil.Before(validFrom) {
		return nil, apperr.Validation("A data final de validade deve ser posterior à inicial")
	}

	c := Coupon{
		Code:          NormalizeCode(req.Code),
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
		ValidFrom:     validFrom,
		ValidUntil:    req.ValidUntil,
		MarketID:      req.MarketID,
	}

	if existing, err := s.store.FindByCode(c.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Validation("Já existe um cupom com este código")
	}

	if err := s.store.Create(&c); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return &c, nil
}

// UpdateCoupon updates an existing coupon
func (s *Service) UpdateCoupon(id uint, req *UpdateCouponRequest) (*Coupon, error) {
	if _, err := s.GetCoupon(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.MinOrderValue != nil {
		updates["min_order_value"] = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		updates["max_discount"] = *req.MaxDiscount
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = req.ValidFrom.UTC()
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = req.ValidUntil.UTC()
	}

	if len(updates) > 0 {
		if err := s.store.Update(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}

	return s.GetCoupon(id)
}

// DeleteCoupon removes a coupon
func (s *Service) DeleteCoupon(id uint) error {
	if _, err := s.GetCoupon(id); err != nil {
		return err
	}
	return s.store.Delete(id)
}

// NormalizeCode upper-cases and trims a coupon code for storage and lookup
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RoundCents rounds a currency value to two decimal places, half away
// from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
