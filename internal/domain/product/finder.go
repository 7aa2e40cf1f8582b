// internal/domain/product/finder.go
package product

import (
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Finder is a read-only product lookup used by the cart and order services.
type Finder struct {
	db *gorm.DB
}

// NewFinder creates a new product finder
func NewFinder(db *gorm.DB) *Finder {
	return &Finder{db: db}
}

// FindByID retrieves a single product
func (f *Finder) FindByID(id uint) (*Product, error) {
	var p Product
	result := f.db.First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("Produto %d não encontrado", id))
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &p, nil
}

// FindByIDs retrieves a batch of products. Missing IDs are simply absent
// from the result; callers decide whether that is an error.
func (f *Finder) FindByIDs(ids []uint) ([]Product, error) {
	var products []Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := f.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}
