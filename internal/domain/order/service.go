// internal/domain/order/service.go
package order

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// Store is the data access contract for orders. CreateWithItems must
// persist the order and its item snapshots in one transaction: an item
// is never observable without its parent order, and vice versa.
type Store interface {
	CreateWithItems(o *Order) error
	FindByID(id uint) (*Order, error)
	List(req *ListRequest) ([]Order, int64, error)
	Update(id uint, updates map[string]interface{}) error
}

// References checks that entities referenced by an order request exist.
type References interface {
	UserExists(id uint) (bool, error)
	MarketExists(id uint) (bool, error)
	AddressExists(id uint) (bool, error)
	// MissingProducts returns the subset of ids with no product row.
	MissingProducts(ids []uint) ([]uint, error)
}

// CouponApplier validates and consumes a coupon for an order value.
type CouponApplier interface {
	ApplyCouponToOrder(code string, orderValue float64, marketID *uint) (*coupon.DiscountResult, error)
}

// CartCleaner removes a user's cart for a market after checkout.
type CartCleaner interface {
	ClearUserMarketCart(userID, marketID uint) error
}

// Service converts validated order requests into persisted orders
type Service struct {
	store   Store
	refs    References
	coupons CouponApplier
	carts   CartCleaner
}

// NewService creates a new order service
func NewService(store Store, refs References, coupons CouponApplier, carts CartCleaner) *Service {
	return &Service{
		store:   store,
		refs:    refs,
		coupons: coupons,
		carts:   carts,
	}
}

// OrderItemRequest is one line item of an order request. Price is the
// value quoted to the buyer at checkout and is persisted as-is.
type OrderItemRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price" binding:"gte=0"`
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	MarketID      uint               `json:"market_id" binding:"required"`
	AddressID     uint               `json:"address_id" binding:"required"`
	PaymentMethod PaymentMethod      `json:"payment_method" binding:"required,oneof=CASH CREDIT_CARD DEBIT_CARD PIX"`
	CouponCode    string             `json:"coupon_code"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents an order patch. Status transitions are
// deliberately not validated against the lifecycle sequence; admins may
// set any value.
type UpdateOrderRequest struct {
	Status      *Status `json:"status"`
	DelivererID *uint   `json:"deliverer_id"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page        int    `form:"page,default=1"`
	Size        int    `form:"size,default=20"`
	Status      Status `form:"status"`
	UserID      uint   `form:"user_id"`
	MarketID    uint   `form:"market_id"`
	DelivererID uint   `form:"deliverer_id"`
}

// ListResponse represents orders with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateOrder validates an order request, applies at most one coupon
// and persists the order with its item snapshots atomically. The
// originating cart is cleared afterwards as best-effort cleanup; its
// failure never rolls back the order.
func (s *Service) CreateOrder(userID uint, req *CreateOrderRequest) (*Order, error) {
	// Existence checks before anything is computed
	if ok, err := s.refs.UserExists(userID); err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	} else if !ok {
		return nil, apperr.NotFound("Usuário não encontrado")
	}

	if ok, err := s.refs.MarketExists(req.MarketID); err != nil {
		return nil, fmt.Errorf("failed to check market: %w", err)
	} else if !ok {
		return nil, apperr.NotFound("Mercado não encontrado")
	}

	if ok, err := s.refs.AddressExists(req.AddressID); err != nil {
		return nil, fmt.Errorf("failed to check address: %w", err)
	} else if !ok {
		return nil, apperr.NotFound("Endereço não encontrado")
	}

	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	missing, err := s.refs.MissingProducts(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check products: %w", err)
	}
	if len(missing) > 0 {
		return nil, apperr.NotFound(fmt.Sprintf("Produto %d não encontrado", missing[0]))
	}

	// Totals from the caller-supplied prices quoted at checkout
	var rawTotal float64
	for _, item := range req.Items {
		rawTotal += item.Price * float64(item.Quantity)
	}
	rawTotal = coupon.RoundCents(rawTotal)

	total := rawTotal
	var discount float64
	var couponID *uint

	if req.CouponCode != "" {
		result, err := s.coupons.ApplyCouponToOrder(req.CouponCode, rawTotal, &req.MarketID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				return nil, fmt.Errorf("erro ao aplicar cupom: %w", err)
			}
			return nil, apperr.Validation("Erro ao aplicar cupom: " + apperr.Message(err))
		}
		total = result.FinalValue
		discount = result.Discount
		couponID = &result.Coupon.ID
	}

	o := Order{
		UserID:        userID,
		MarketID:      req.MarketID,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Status:        StatusPending,
		Total:         total,
		Discount:      discount,
		CouponID:      couponID,
		Items:         make([]OrderItem, len(req.Items)),
	}
	for i, item := range req.Items {
		o.Items[i] = OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := s.store.CreateWithItems(&o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Best-effort cleanup; the order stands even if this fails
	if err := s.carts.ClearUserMarketCart(userID, req.MarketID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"order_id":  o.ID,
			"user_id":   userID,
			"market_id": req.MarketID,
		}).Warn("failed to clear cart after order creation")
	}

	return s.GetOrder(o.ID)
}

// GetOrders retrieves orders, newest first, with optional equality
// filters and pagination.
func (s *Service) GetOrders(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size < 1 {
		req.Size = 20
	}

	orders, total, err := s.store.List(req)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Size:       req.Size,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	o, err := s.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if o == nil {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	return o, nil
}

// UpdateOrder applies a status and/or deliverer patch unconditionally
func (s *Service) UpdateOrder(id uint, req *UpdateOrderRequest) (*Order, error) {
	if _, err := s.GetOrder(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.Validation("Status inválido")
		}
		updates["status"] = *req.Status
	}
	if req.DelivererID != nil {
		updates["deliverer_id"] = *req.DelivererID
	}

	if len(updates) > 0 {
		if err := s.store.Update(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
	}

	return s.GetOrder(id)
}

// AssignDeliverer sets the deliverer and forces the order out for
// delivery, regardless of the current status.
func (s *Service) AssignDeliverer(id, delivererID uint) (*Order, error) {
	if _, err := s.GetOrder(id); err != nil {
		return nil, err
	}

	if ok, err := s.refs.UserExists(delivererID); err != nil {
		return nil, fmt.Errorf("failed to check deliverer: %w", err)
	} else if !ok {
		return nil, apperr.NotFound("Entregador não encontrado")
	}

	updates := map[string]interface{}{
		"deliverer_id": delivererID,
		"status":       StatusOutForDelivery,
	}
	if err := s.store.Update(id, updates); err != nil {
		return nil, fmt.Errorf("failed to assign deliverer: %w", err)
	}

	return s.GetOrder(id)
}
