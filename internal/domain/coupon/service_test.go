package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	coupons map[uint]*Coupon
	nextID  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{coupons: map[uint]*Coupon{}, nextID: 1}
}

func (f *fakeStore) FindByCode(code string) (*Coupon, error) {
	for _, c := range f.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByID(id uint) (*Coupon, error) {
	c, ok := f.coupons[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) List(marketID *uint, page, limit int) ([]Coupon, int64, error) {
	var out []Coupon
	for _, c := range f.coupons {
		if marketID != nil && (c.MarketID == nil || *c.MarketID != *marketID) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) Create(c *Coupon) error {
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.coupons[c.ID] = &cp
	return nil
}

func (f *fakeStore) Update(id uint, updates map[string]interface{}) error {
	c := f.coupons[id]
	if v, ok := updates["value"]; ok {
		c.Value = v.(float64)
	}
	if v, ok := updates["is_active"]; ok {
		c.IsActive = v.(bool)
	}
	if v, ok := updates["usage_limit"]; ok {
		limit := v.(int)
		c.UsageLimit = &limit
	}
	return nil
}

func (f *fakeStore) Delete(id uint) error {
	delete(f.coupons, id)
	return nil
}

func (f *fakeStore) IncrementUsage(id uint) (bool, error) {
	c, ok := f.coupons[id]
	if !ok {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func seedCoupon(t *testing.T, store *fakeStore, c Coupon) *Coupon {
	t.Helper()
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Now().UTC().Add(-time.Hour)
	}
	require.NoError(t, store.Create(&c))
	return store.coupons[c.ID]
}

func TestValidateCoupon(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)
	minOrder := 50.0
	marketOne := uint(1)
	marketTwo := uint(2)
	zeroLimit := 0

	tests := []struct {
		name       string
		coupon     *Coupon
		code       string
		orderValue float64
		marketID   *uint
		wantErr    string
		notFound   bool
	}{
		{
			name:     "unknown code",
			code:     "NADA",
			wantErr:  "Cupom não encontrado",
			notFound: true,
		},
		{
			name:    "inactive",
			coupon:  &Coupon{Code: "OFF", Type: DiscountFixed, Value: 5, IsActive: false},
			code:    "OFF",
			wantErr: "Cupom inativo",
		},
		{
			name:    "not yet valid",
			coupon:  &Coupon{Code: "FUTURO", Type: DiscountFixed, Value: 5, IsActive: true, ValidFrom: future},
			code:    "FUTURO",
			wantErr: "Cupom ainda não está em vigor",
		},
		{
			name:    "expired",
			coupon:  &Coupon{Code: "VELHO", Type: DiscountFixed, Value: 5, IsActive: true, ValidUntil: &past},
			code:    "VELHO",
			wantErr: "Cupom expirado",
		},
		{
			name:       "below minimum order",
			coupon:     &Coupon{Code: "MIN50", Type: DiscountFixed, Value: 5, IsActive: true, MinOrderValue: &minOrder},
			code:       "MIN50",
			orderValue: 49.99,
			wantErr:    "O valor mínimo do pedido para este cupom é R$ 50.00",
		},
		{
			name:    "exhausted",
			coupon:  &Coupon{Code: "FIM", Type: DiscountFixed, Value: 5, IsActive: true, UsageLimit: &zeroLimit},
			code:    "FIM",
			wantErr: "Cupom esgotado",
		},
		{
			name:     "wrong market",
			coupon:   &Coupon{Code: "LOCAL", Type: DiscountFixed, Value: 5, IsActive: true, MarketID: &marketOne},
			code:     "LOCAL",
			marketID: &marketTwo,
			wantErr:  "Cupom não é válido para este mercado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			if tt.coupon != nil {
				seedCoupon(t, store, *tt.coupon)
			}
			svc := NewService(store)

			orderValue := tt.orderValue
			if orderValue == 0 {
				orderValue = 100
			}

			_, err := svc.ValidateCoupon(tt.code, orderValue, tt.marketID)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, apperr.Message(err))
			if tt.notFound {
				assert.True(t, apperr.IsNotFound(err))
			} else {
				assert.True(t, apperr.IsValidation(err))
			}
		})
	}
}

func TestValidateCouponSuccess(t *testing.T) {
	store := newFakeStore()
	marketOne := uint(1)
	seedCoupon(t, store, Coupon{Code: "SAVE10", Type: DiscountPercentage, Value: 10, IsActive: true, MarketID: &marketOne})
	svc := NewService(store)

	// Codes are matched case-insensitively with surrounding whitespace trimmed
	c, err := svc.ValidateCoupon("  save10 ", 100, &marketOne)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)

	// A coupon without market restriction applies anywhere
	seedCoupon(t, store, Coupon{Code: "GERAL", Type: DiscountFixed, Value: 5, IsActive: true})
	marketTwo := uint(2)
	_, err = svc.ValidateCoupon("GERAL", 100, &marketTwo)
	assert.NoError(t, err)
}

func TestCalculateDiscount(t *testing.T) {
	svc := NewService(newFakeStore())
	maxDiscount := 30.0

	tests := []struct {
		name         string
		coupon       Coupon
		orderValue   float64
		wantDiscount float64
		wantFinal    float64
	}{
		{
			name:         "percentage",
			coupon:       Coupon{Type: DiscountPercentage, Value: 10},
			orderValue:   25.00,
			wantDiscount: 2.50,
			wantFinal:    22.50,
		},
		{
			name:         "percentage rounds half away from zero",
			coupon:       Coupon{Type: DiscountPercentage, Value: 10},
			orderValue:   19.95,
			wantDiscount: 2.00,
			wantFinal:    17.95,
		},
		{
			name:         "percentage capped at max discount",
			coupon:       Coupon{Type: DiscountPercentage, Value: 50, MaxDiscount: &maxDiscount},
			orderValue:   100.00,
			wantDiscount: 30.00,
			wantFinal:    70.00,
		},
		{
			name:         "fixed",
			coupon:       Coupon{Type: DiscountFixed, Value: 5},
			orderValue:   40.00,
			wantDiscount: 5.00,
			wantFinal:    35.00,
		},
		{
			name:         "fixed never exceeds order value",
			coupon:       Coupon{Type: DiscountFixed, Value: 50},
			orderValue:   30.00,
			wantDiscount: 30.00,
			wantFinal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.CalculateDiscount(&tt.coupon, tt.orderValue)
			assert.InDelta(t, tt.wantDiscount, result.Discount, 1e-9)
			assert.InDelta(t, tt.wantFinal, result.FinalValue, 1e-9)
		})
	}
}

func TestApplyCouponToOrder(t *testing.T) {
	store := newFakeStore()
	limit := 2
	c := seedCoupon(t, store, Coupon{Code: "SAVE10", Type: DiscountPercentage, Value: 10, IsActive: true, UsageLimit: &limit})
	svc := NewService(store)

	result, err := svc.ApplyCouponToOrder("SAVE10", 25.00, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.50, result.Discount, 1e-9)
	assert.InDelta(t, 22.50, result.FinalValue, 1e-9)
	assert.Equal(t, 1, c.UsedCount)

	_, err = svc.ApplyCouponToOrder("SAVE10", 25.00, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.UsedCount)

	// Third application exceeds the limit
	_, err = svc.ApplyCouponToOrder("SAVE10", 25.00, nil)
	require.Error(t, err)
	assert.Equal(t, "Cupom esgotado", apperr.Message(err))
	assert.Equal(t, 2, c.UsedCount)
}

func TestApplyCouponToOrderValidationDoesNotConsumeUsage(t *testing.T) {
	store := newFakeStore()
	minOrder := 50.0
	c := seedCoupon(t, store, Coupon{Code: "MIN50", Type: DiscountFixed, Value: 5, IsActive: true, MinOrderValue: &minOrder})
	svc := NewService(store)

	_, err := svc.ApplyCouponToOrder("MIN50", 10.00, nil)
	require.Error(t, err)
	assert.Equal(t, 0, c.UsedCount)
}

func TestCreateCoupon(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	c, err := svc.CreateCoupon(&CreateCouponRequest{
		Code:  " save10 ",
		Type:  DiscountPercentage,
		Value: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
	assert.True(t, c.IsActive)

	// Duplicate code, even differently cased
	_, err = svc.CreateCoupon(&CreateCouponRequest{
		Code:  "Save10",
		Type:  DiscountFixed,
		Value: 5,
	})
	require.Error(t, err)
	assert.Equal(t, "Já existe um cupom com este código", apperr.Message(err))
}

func TestCreateCouponRejectsInvertedDates(t *testing.T) {
	svc := NewService(newFakeStore())

	from := time.Now().UTC().Add(24 * time.Hour)
	until := time.Now().UTC().Add(time.Hour)

	_, err := svc.CreateCoupon(&CreateCouponRequest{
		Code:       "DATAS",
		Type:       DiscountFixed,
		Value:      5,
		ValidFrom:  &from,
		ValidUntil: &until,
	})
	require.Error(t, err)
	assert.Equal(t, "A data final de validade deve ser posterior à inicial", apperr.Message(err))
}

func TestUpdateAndDeleteCoupon(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	c := seedCoupon(t, store, Coupon{Code: "EDIT", Type: DiscountFixed, Value: 5, IsActive: true})

	inactive := false
	newValue := 7.5
	updated, err := svc.UpdateCoupon(c.ID, &UpdateCouponRequest{Value: &newValue, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 7.5, updated.Value)
	assert.False(t, updated.IsActive)

	require.NoError(t, svc.DeleteCoupon(c.ID))

	_, err = svc.GetCoupon(c.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRoundCents(t *testing.T) {
	assert.InDelta(t, 2.00, RoundCents(1.995), 1e-9)
	assert.InDelta(t, 1.99, RoundCents(1.994), 1e-9)
	assert.InDelta(t, -2.00, RoundCents(-1.995), 1e-9)
}
