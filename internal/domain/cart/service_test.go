package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	carts      map[uint]*Cart
	items      map[uint]*CartItem
	products   map[uint]*product.Product
	nextCartID uint
	nextItemID uint
}

func newFakeStore(products map[uint]*product.Product) *fakeStore {
	return &fakeStore{
		carts:      map[uint]*Cart{},
		items:      map[uint]*CartItem{},
		products:   products,
		nextCartID: 1,
		nextItemID: 1,
	}
}

func (f *fakeStore) FindOrCreate(userID, marketID uint) (*Cart, error) {
	for _, c := range f.carts {
		if c.UserID == userID && c.MarketID == marketID {
			return f.snapshot(c.ID), nil
		}
	}
	c := &Cart{ID: f.nextCartID, UserID: userID, MarketID: marketID}
	f.nextCartID++
	f.carts[c.ID] = c
	return f.snapshot(c.ID), nil
}

func (f *fakeStore) FindByID(cartID uint) (*Cart, error) {
	if _, ok := f.carts[cartID]; !ok {
		return nil, nil
	}
	return f.snapshot(cartID), nil
}

func (f *fakeStore) FindByUser(userID uint) ([]Cart, error) {
	var out []Cart
	for id, c := range f.carts {
		if c.UserID == userID {
			out = append(out, *f.snapshot(id))
		}
	}
	return out, nil
}

func (f *fakeStore) FindByUserAndMarket(userID, marketID uint) (*Cart, error) {
	for id, c := range f.carts {
		if c.UserID == userID && c.MarketID == marketID {
			return f.snapshot(id), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindItem(itemID uint) (*CartItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) MergeItem(cartID, productID uint, quantity int) error {
	for _, item := range f.items {
		if item.CartID == cartID && item.ProductID == productID {
			item.Quantity += quantity
			return nil
		}
	}
	item := &CartItem{ID: f.nextItemID, CartID: cartID, ProductID: productID, Quantity: quantity}
	f.nextItemID++
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) SetItemQuantity(itemID uint, quantity int) error {
	f.items[itemID].Quantity = quantity
	return nil
}

func (f *fakeStore) DeleteItem(itemID uint) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeStore) ClearItems(cartID uint) error {
	for id, item := range f.items {
		if item.CartID == cartID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeStore) DeleteCart(cartID uint) error {
	if err := f.ClearItems(cartID); err != nil {
		return err
	}
	delete(f.carts, cartID)
	return nil
}

func (f *fakeStore) PruneIfEmpty(cartID uint) (bool, error) {
	for _, item := range f.items {
		if item.CartID == cartID {
			return false, nil
		}
	}
	delete(f.carts, cartID)
	return true, nil
}

// snapshot rebuilds a cart with its items and product relations, the
// way the real store preloads them
func (f *fakeStore) snapshot(cartID uint) *Cart {
	c := *f.carts[cartID]
	c.Items = nil
	for _, item := range f.items {
		if item.CartID != cartID {
			continue
		}
		cp := *item
		cp.Product = f.products[item.ProductID]
		c.Items = append(c.Items, cp)
	}
	return &c
}

// fakeFinder resolves products from the shared map
type fakeFinder struct {
	products map[uint]*product.Product
}

func (f *fakeFinder) FindByID(id uint) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("Produto não encontrado")
	}
	return p, nil
}

func (f *fakeFinder) FindByIDs(ids []uint) ([]product.Product, error) {
	var out []product.Product
	seen := map[uint]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeStore, map[uint]*product.Product) {
	products := map[uint]*product.Product{
		1: {ID: 1, MarketID: 10, Name: "Arroz", Price: 24.90, IsActive: true},
		2: {ID: 2, MarketID: 10, Name: "Feijão", Price: 8.50, IsActive: true},
		3: {ID: 3, MarketID: 20, Name: "Café", Price: 18.90, IsActive: true},
	}
	store := newFakeStore(products)
	return NewService(store, &fakeFinder{products: products}), store, products
}

func TestAddItemCreatesCartForProductMarket(t *testing.T) {
	svc, _, _ := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, uint(7), view.UserID)
	assert.Equal(t, uint(10), view.MarketID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.InDelta(t, 49.80, view.TotalValue, 1e-9)
}

func TestAddItemMergesQuantities(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)

	// One item row, summed quantity, still one cart
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Len(t, store.carts, 1)
}

func TestAddItemPartitionsCartsByMarket(t *testing.T) {
	svc, store, _ := newTestService()

	first, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	second, err := svc.AddItem(7, &AddItemRequest{ProductID: 3, Quantity: 1})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, uint(10), first.MarketID)
	assert.Equal(t, uint(20), second.MarketID)
	assert.Len(t, store.carts, 2)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.AddItem(7, &AddItemRequest{ProductID: 99, Quantity: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, store.carts)
}

func TestAddMultipleItemsGroupsByMarket(t *testing.T) {
	svc, _, _ := newTestService()

	views, err := svc.AddMultipleItems(7, &AddItemsRequest{Items: []AddItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 3, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}})
	require.NoError(t, err)

	// Two carts, in order of first appearance of each market
	require.Len(t, views, 2)
	assert.Equal(t, uint(10), views[0].MarketID)
	assert.Len(t, views[0].Items, 2)
	assert.Equal(t, uint(20), views[1].MarketID)
	assert.Len(t, views[1].Items, 1)
}

func TestAddMultipleItemsAbortsOnMissingProduct(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.AddMultipleItems(7, &AddItemsRequest{Items: []AddItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Produto 99 não encontrado", apperr.Message(err))

	// Nothing was written before the validation failure
	assert.Empty(t, store.carts)
	assert.Empty(t, store.items)
}

func TestUpdateItemQuantity(t *testing.T) {
	svc, _, _ := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItemQuantity(7, itemID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, view.Items[0].Quantity)

	_, err = svc.UpdateItemQuantity(7, itemID, 0)
	require.Error(t, err)
	assert.Equal(t, "Quantidade deve ser maior que zero", apperr.Message(err))
}

func TestRemoveItemPrunesEmptyCart(t *testing.T) {
	svc, store, _ := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	result, err := svc.RemoveItem(7, view.Items[0].ID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, store.carts)
}

func TestRemoveItemKeepsNonEmptyCart(t *testing.T) {
	svc, _, _ := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	view, err = svc.AddItem(7, &AddItemRequest{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	result, err := svc.RemoveItem(7, view.Items[0].ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Items, 1)
}

func TestCartOwnership(t *testing.T) {
	svc, _, _ := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	// Someone else's cart
	_, err = svc.GetCart(8, view.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))
	assert.Equal(t, "Acesso negado", apperr.Message(err))

	_, err = svc.UpdateItemQuantity(8, view.Items[0].ID, 3)
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	// Nonexistent cart is not-found, not forbidden
	_, err = svc.GetCart(7, 999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCartTotalsFollowCurrentPrices(t *testing.T) {
	svc, _, products := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.InDelta(t, 49.80, view.TotalValue, 1e-9)

	// Price changes are reflected on the next read
	products[1].Price = 30.00
	view, err = svc.GetCart(7, view.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60.00, view.TotalValue, 1e-9)
}

func TestClearCart(t *testing.T) {
	svc, store, _ := newTestService()

	view, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(7, view.ID))
	assert.Empty(t, store.items)
	assert.Empty(t, store.carts)
}

func TestClearUserMarketCart(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.AddItem(7, &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.ClearUserMarketCart(7, 10))
	assert.Empty(t, store.carts)

	// Absent cart is a no-op
	require.NoError(t, svc.ClearUserMarketCart(7, 10))
}

func TestEnsureCartForMarketIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()

	first, err := svc.EnsureCartForMarket(7, 10)
	require.NoError(t, err)
	second, err := svc.EnsureCartForMarket(7, 10)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.carts, 1)
}
