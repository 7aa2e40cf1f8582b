package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	orders map[uint]*Order
	nextID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[uint]*Order{}, nextID: 1}
}

func (f *fakeStore) CreateWithItems(o *Order) error {
	o.ID = f.nextID
	f.nextID++
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(id uint) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) List(req *ListRequest) ([]Order, int64, error) {
	var out []Order
	for _, o := range f.orders {
		if req.Status != "" && o.Status != req.Status {
			continue
		}
		if req.UserID != 0 && o.UserID != req.UserID {
			continue
		}
		if req.MarketID != 0 && o.MarketID != req.MarketID {
			continue
		}
		if req.DelivererID != 0 && (o.DelivererID == nil || *o.DelivererID != req.DelivererID) {
			continue
		}
		out = append(out, *o)
	}
	total := int64(len(out))

	start := (req.Page - 1) * req.Size
	if start > len(out) {
		start = len(out)
	}
	end := start + req.Size
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakeStore) Update(id uint, updates map[string]interface{}) error {
	o := f.orders[id]
	if v, ok := updates["status"]; ok {
		o.Status = v.(Status)
	}
	if v, ok := updates["deliverer_id"]; ok {
		did := v.(uint)
		o.DelivererID = &did
	}
	return nil
}

// fakeRefs reports which referenced entities exist
type fakeRefs struct {
	users     map[uint]bool
	markets   map[uint]bool
	addresses map[uint]bool
	products  map[uint]bool
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		users:     map[uint]bool{7: true, 30: true},
		markets:   map[uint]bool{10: true},
		addresses: map[uint]bool{5: true},
		products:  map[uint]bool{1: true, 2: true},
	}
}

func (f *fakeRefs) UserExists(id uint) (bool, error)    { return f.users[id], nil }
func (f *fakeRefs) MarketExists(id uint) (bool, error)  { return f.markets[id], nil }
func (f *fakeRefs) AddressExists(id uint) (bool, error) { return f.addresses[id], nil }

func (f *fakeRefs) MissingProducts(ids []uint) ([]uint, error) {
	var missing []uint
	for _, id := range ids {
		if !f.products[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// fakeCoupons applies a fixed outcome per code
type fakeCoupons struct {
	results map[string]*coupon.DiscountResult
	errs    map[string]error
	applied []string
}

func (f *fakeCoupons) ApplyCouponToOrder(code string, orderValue float64, marketID *uint) (*coupon.DiscountResult, error) {
	f.applied = append(f.applied, code)
	if err, ok := f.errs[code]; ok {
		return nil, err
	}
	if result, ok := f.results[code]; ok {
		return result, nil
	}
	return nil, apperr.NotFound("Cupom não encontrado")
}

// fakeCarts records cleanup calls
type fakeCarts struct {
	cleared [][2]uint
	err     error
}

func (f *fakeCarts) ClearUserMarketCart(userID, marketID uint) error {
	f.cleared = append(f.cleared, [2]uint{userID, marketID})
	return f.err
}

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		MarketID:      10,
		AddressID:     5,
		PaymentMethod: PaymentPix,
		Items: []OrderItemRequest{
			{ProductID: 1, Quantity: 2, Price: 10.00},
			{ProductID: 2, Quantity: 1, Price: 5.00},
		},
	}
}

func newTestService() (*Service, *fakeStore, *fakeRefs, *fakeCoupons, *fakeCarts) {
	store := newFakeStore()
	refs := newFakeRefs()
	coupons := &fakeCoupons{results: map[string]*coupon.DiscountResult{}, errs: map[string]error{}}
	carts := &fakeCarts{}
	return NewService(store, refs, coupons, carts), store, refs, coupons, carts
}

func TestCreateOrder(t *testing.T) {
	svc, store, _, _, carts := newTestService()

	o, err := svc.CreateOrder(7, validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.InDelta(t, 25.00, o.Total, 1e-9)
	assert.Zero(t, o.Discount)
	assert.Nil(t, o.CouponID)
	require.Len(t, o.Items, 2)

	// Item prices are frozen exactly as quoted
	assert.InDelta(t, 10.00, o.Items[0].Price, 1e-9)
	assert.InDelta(t, 5.00, o.Items[1].Price, 1e-9)

	// The market's cart was cleaned up
	assert.Equal(t, [][2]uint{{7, 10}}, carts.cleared)
	assert.Len(t, store.orders, 1)
}

func TestCreateOrderWithCoupon(t *testing.T) {
	svc, _, _, coupons, _ := newTestService()

	c := &coupon.Coupon{ID: 3, Code: "SAVE10"}
	coupons.results["SAVE10"] = &coupon.DiscountResult{Coupon: c, Discount: 2.50, FinalValue: 22.50}

	req := validRequest()
	req.CouponCode = "SAVE10"

	o, err := svc.CreateOrder(7, req)
	require.NoError(t, err)

	assert.InDelta(t, 22.50, o.Total, 1e-9)
	assert.InDelta(t, 2.50, o.Discount, 1e-9)
	require.NotNil(t, o.CouponID)
	assert.Equal(t, uint(3), *o.CouponID)
	assert.Equal(t, []string{"SAVE10"}, coupons.applied)
}

func TestCreateOrderCouponRejection(t *testing.T) {
	svc, store, _, coupons, _ := newTestService()
	coupons.errs["FIM"] = apperr.Validation("Cupom esgotado")

	req := validRequest()
	req.CouponCode = "FIM"

	_, err := svc.CreateOrder(7, req)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "Erro ao aplicar cupom: Cupom esgotado", apperr.Message(err))
	assert.Empty(t, store.orders)
}

func TestCreateOrderCouponInternalError(t *testing.T) {
	svc, store, _, coupons, _ := newTestService()
	coupons.errs["QUEBRA"] = errors.New("connection reset")

	req := validRequest()
	req.CouponCode = "QUEBRA"

	_, err := svc.CreateOrder(7, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, store.orders)
}

func TestCreateOrderMissingReferences(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		mutate  func(*CreateOrderRequest)
		wantMsg string
	}{
		{
			name:    "unknown user",
			userID:  99,
			mutate:  func(r *CreateOrderRequest) {},
			wantMsg: "Usuário não encontrado",
		},
		{
			name:    "unknown market",
			userID:  7,
			mutate:  func(r *CreateOrderRequest) { r.MarketID = 99 },
			wantMsg: "Mercado não encontrado",
		},
		{
			name:    "unknown address",
			userID:  7,
			mutate:  func(r *CreateOrderRequest) { r.AddressID = 99 },
			wantMsg: "Endereço não encontrado",
		},
		{
			name:    "unknown product",
			userID:  7,
			mutate:  func(r *CreateOrderRequest) { r.Items[1].ProductID = 99 },
			wantMsg: "Produto 99 não encontrado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _, _, _ := newTestService()
			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateOrder(tt.userID, req)
			require.Error(t, err)
			assert.True(t, apperr.IsNotFound(err))
			assert.Equal(t, tt.wantMsg, apperr.Message(err))
			assert.Empty(t, store.orders)
		})
	}
}

func TestCreateOrderSurvivesCartCleanupFailure(t *testing.T) {
	svc, store, _, _, carts := newTestService()
	carts.err = errors.New("cart store down")

	o, err := svc.CreateOrder(7, validRequest())
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Len(t, store.orders, 1)
}

func TestGetOrder(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	o, err := svc.CreateOrder(7, validRequest())
	require.NoError(t, err)

	got, err := svc.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.GetOrder(999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Pedido não encontrado", apperr.Message(err))
}

func TestGetOrdersPagination(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateOrder(7, validRequest())
		require.NoError(t, err)
	}

	resp, err := svc.GetOrders(&ListRequest{Page: 1, Size: 2, UserID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)

	resp, err = svc.GetOrders(&ListRequest{Page: 3, Size: 2, UserID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 1)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestUpdateOrder(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	o, err := svc.CreateOrder(7, validRequest())
	require.NoError(t, err)

	status := StatusConfirmed
	updated, err := svc.UpdateOrder(o.ID, &UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	// Any lifecycle value is accepted, including going backwards
	status = StatusPending
	updated, err = svc.UpdateOrder(o.ID, &UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)

	bogus := Status("ENVIADO")
	_, err = svc.UpdateOrder(o.ID, &UpdateOrderRequest{Status: &bogus})
	require.Error(t, err)
	assert.Equal(t, "Status inválido", apperr.Message(err))
}

func TestAssignDeliverer(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	o, err := svc.CreateOrder(7, validRequest())
	require.NoError(t, err)

	updated, err := svc.AssignDeliverer(o.ID, 30)
	require.NoError(t, err)
	require.NotNil(t, updated.DelivererID)
	assert.Equal(t, uint(30), *updated.DelivererID)
	assert.Equal(t, StatusOutForDelivery, updated.Status)

	_, err = svc.AssignDeliverer(o.ID, 99)
	require.Error(t, err)
	assert.Equal(t, "Entregador não encontrado", apperr.Message(err))
}
