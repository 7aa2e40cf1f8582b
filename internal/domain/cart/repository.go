// internal/domain/cart/repository.go
package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// gormStore is the postgres-backed Store implementation
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed cart store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindOrCreate(userID, marketID uint) (*Cart, error) {
	var c Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where(Cart{UserID: userID, MarketID: marketID}).
			FirstOrCreate(&c).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find or create cart: %w", err)
	}
	return &c, nil
}

func (s *gormStore) FindByID(cartID uint) (*Cart, error) {
	var c Cart
	result := s.db.Preload("Items").Preload("Items.Product").First(&c, cartID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", result.Error)
	}
	return &c, nil
}

func (s *gormStore) FindByUser(userID uint) ([]Cart, error) {
	var carts []Cart
	err := s.db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&carts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve carts: %w", err)
	}
	return carts, nil
}

func (s *gormStore) FindByUserAndMarket(userID, marketID uint) (*Cart, error) {
	var c Cart
	result := s.db.Where("user_id = ? AND market_id = ?", userID, marketID).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", result.Error)
	}
	return &c, nil
}

func (s *gormStore) FindItem(itemID uint) (*CartItem, error) {
	var item CartItem
	result := s.db.First(&item, itemID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", result.Error)
	}
	return &item, nil
}

// MergeItem adds quantity to an existing (cart, product) row or creates
// it, inside one transaction. The increment is an SQL expression so two
// concurrent merges cannot lose an update.
func (s *gormStore) MergeItem(cartID, productID uint, quantity int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing CartItem
		result := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&existing)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			item := CartItem{
				CartID:    cartID,
				ProductID: productID,
				Quantity:  quantity,
			}
			return tx.Create(&item).Error
		}
		if result.Error != nil {
			return result.Error
		}

		return tx.Model(&CartItem{}).
			Where("id = ?", existing.ID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error
	})
}

func (s *gormStore) SetItemQuantity(itemID uint, quantity int) error {
	return s.db.Model(&CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (s *gormStore) DeleteItem(itemID uint) error {
	return s.db.Delete(&CartItem{}, itemID).Error
}

func (s *gormStore) ClearItems(cartID uint) error {
	return s.db.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
}

func (s *gormStore) DeleteCart(cartID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Cart{}, cartID).Error
	})
}

// PruneIfEmpty deletes the cart when it holds no items, in one
// transaction so a concurrent add cannot be swallowed by the prune.
func (s *gormStore) PruneIfEmpty(cartID uint) (bool, error) {
	pruned := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Delete(&Cart{}, cartID).Error; err != nil {
			return err
		}
		pruned = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to prune cart: %w", err)
	}
	return pruned, nil
}
