// internal/domain/cart/service.go
package cart

import (
	"fmt"
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// Store is the data access contract for carts. Implementations must
// make each mutation atomic: FindOrCreate and MergeItem run inside a
// single transaction so concurrent requests cannot duplicate carts or
// items.
type Store interface {
	FindOrCreate(userID, marketID uint) (*Cart, error)
	FindByID(cartID uint) (*Cart, error)
	FindByUser(userID uint) ([]Cart, error)
	FindByUserAndMarket(userID, marketID uint) (*Cart, error)
	FindItem(itemID uint) (*CartItem, error)
	MergeItem(cartID, productID uint, quantity int) error
	SetItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) error
	DeleteCart(cartID uint) error
	PruneIfEmpty(cartID uint) (bool, error)
}

// ProductFinder resolves product references for cart operations.
type ProductFinder interface {
	FindByID(id uint) (*product.Product, error)
	FindByIDs(ids []uint) ([]product.Product, error)
}

// Service maintains per-market carts for users
type Service struct {
	store    Store
	products ProductFinder
}

// NewService creates a new cart service
func NewService(store Store, products ProductFinder) *Service {
	return &Service{
		store:    store,
		products: products,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AddItemsRequest represents the batch add to cart request
type AddItemsRequest struct {
	Items []AddItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemView represents a cart item with its product and live price
type CartItemView struct {
	ID        uint             `json:"id"`
	ProductID uint             `json:"product_id"`
	Product   *product.Product `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	Price     float64          `json:"price"`
	Subtotal  float64          `json:"subtotal"`
}

// CartView represents a cart with items and computed totals. TotalValue
// follows current product prices, unlike order totals which freeze at
// creation.
type CartView struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	MarketID   uint           `json:"market_id"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalValue float64        `json:"total_value"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// EnsureCartForMarket returns the user's cart for a market, creating it
// if absent. Idempotent.
func (s *Service) EnsureCartForMarket(userID, marketID uint) (*CartView, error) {
	c, err := s.store.FindOrCreate(userID, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure cart: %w", err)
	}
	return s.refreshView(c.ID)
}

// GetCarts retrieves all carts for a user, one per market
func (s *Service) GetCarts(userID uint) ([]CartView, error) {
	carts, err := s.store.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve carts: %w", err)
	}

	views := make([]CartView, len(carts))
	for i := range carts {
		views[i] = buildView(&carts[i])
	}
	return views, nil
}

// GetCart retrieves a single cart owned by the user
func (s *Service) GetCart(userID, cartID uint) (*CartView, error) {
	c, err := s.ownedCart(userID, cartID)
	if err != nil {
		return nil, err
	}
	view := buildView(c)
	return &view, nil
}

// AddItem adds a product to the cart of the product's market, merging
// quantities when the product is already present. Returns the refreshed
// cart.
func (s *Service) AddItem(userID uint, req *AddItemRequest) (*CartView, error) {
	p, err := s.products.FindByID(req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.FindOrCreate(userID, p.MarketID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure cart: %w", err)
	}

	if err := s.store.MergeItem(c.ID, p.ID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	return s.refreshView(c.ID)
}

// AddMultipleItems adds a batch of products, routing each to the cart
// of its product's market. Every product is validated before any cart
// is touched; a missing product aborts the whole call.
func (s *Service) AddMultipleItems(userID uint, req *AddItemsRequest) ([]CartView, error) {
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	found, err := s.products.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*product.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	for _, item := range req.Items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, apperr.NotFound(fmt.Sprintf("Produto %d não encontrado", item.ProductID))
		}
	}

	// Group items by market, preserving request order of markets
	marketOrder := make([]uint, 0)
	byMarket := make(map[uint][]AddItemRequest)
	for _, item := range req.Items {
		marketID := byID[item.ProductID].MarketID
		if _, ok := byMarket[marketID]; !ok {
			marketOrder = append(marketOrder, marketID)
		}
		byMarket[marketID] = append(byMarket[marketID], item)
	}

	views := make([]CartView, 0, len(marketOrder))
	for _, marketID := range marketOrder {
		c, err := s.store.FindOrCreate(userID, marketID)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure cart: %w", err)
		}

		for _, item := range byMarket[marketID] {
			if err := s.store.MergeItem(c.ID, item.ProductID, item.Quantity); err != nil {
				return nil, fmt.Errorf("failed to add item to cart: %w", err)
			}
		}

		view, err := s.refreshView(c.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

// UpdateItemQuantity sets the quantity of a cart item owned by the user
func (s *Service) UpdateItemQuantity(userID, itemID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, apperr.Validation("Quantidade deve ser maior que zero")
	}

	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetItemQuantity(item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	return s.refreshView(item.CartID)
}

// RemoveItem deletes a cart item and prunes the cart when it becomes
// empty. Returns the refreshed cart, or nil when the cart was pruned.
func (s *Service) RemoveItem(userID, itemID uint) (*CartView, error) {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteItem(item.ID); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	pruned, err := s.store.PruneIfEmpty(item.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to prune cart: %w", err)
	}
	if pruned {
		return nil, nil
	}

	return s.refreshView(item.CartID)
}

// ClearCart removes every item from a cart and deletes the now-empty
// cart.
func (s *Service) ClearCart(userID, cartID uint) error {
	c, err := s.ownedCart(userID, cartID)
	if err != nil {
		return err
	}

	if err := s.store.ClearItems(c.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if _, err := s.store.PruneIfEmpty(c.ID); err != nil {
		return fmt.Errorf("failed to prune cart: %w", err)
	}

	return nil
}

// DeleteCart removes a cart and its items outright
func (s *Service) DeleteCart(userID, cartID uint) error {
	c, err := s.ownedCart(userID, cartID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCart(c.ID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

// ClearUserMarketCart deletes the user's cart for a market if one
// exists. Used as post-order cleanup; a missing cart is not an error.
func (s *Service) ClearUserMarketCart(userID, marketID uint) error {
	c, err := s.store.FindByUserAndMarket(userID, marketID)
	if err != nil {
		return fmt.Errorf("failed to locate cart: %w", err)
	}
	if c == nil {
		return nil
	}

	if err := s.store.DeleteCart(c.ID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

// ownedCart loads a cart and checks it belongs to the user
func (s *Service) ownedCart(userID, cartID uint) (*Cart, error) {
	c, err := s.store.FindByID(cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil {
		return nil, apperr.NotFound("Carrinho não encontrado")
	}
	if c.UserID != userID {
		return nil, apperr.Forbidden("Acesso negado")
	}
	return c, nil
}

// ownedItem loads a cart item and checks its cart belongs to the user
func (s *Service) ownedItem(userID, itemID uint) (*CartItem, error) {
	item, err := s.store.FindItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("Item do carrinho não encontrado")
	}

	c, err := s.store.FindByID(item.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil {
		return nil, apperr.NotFound("Carrinho não encontrado")
	}
	if c.UserID != userID {
		return nil, apperr.Forbidden("Acesso negado")
	}

	return item, nil
}

func (s *Service) refreshView(cartID uint) (*CartView, error) {
	c, err := s.store.FindByID(cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil {
		return nil, apperr.NotFound("Carrinho não encontrado")
	}
	view := buildView(c)
	return &view, nil
}

// buildView computes the cart view with totals from live product prices
func buildView(c *Cart) CartView {
	view := CartView{
		ID:        c.ID,
		UserID:    c.UserID,
		MarketID:  c.MarketID,
		Items:     make([]CartItemView, len(c.Items)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	for i, item := range c.Items {
		var price float64
		if item.Product != nil {
			price = item.Product.Price
		}

		view.Items[i] = CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   item.Product,
			Quantity:  item.Quantity,
			Price:     price,
			Subtotal:  price * float64(item.Quantity),
		}

		view.TotalItems += item.Quantity
		view.TotalValue += price * float64(item.Quantity)
	}

	return view
}
