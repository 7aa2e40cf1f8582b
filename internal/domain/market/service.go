// internal/domain/market/service.go
package market

import (
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles market business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new market service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateMarketRequest represents market creation data
type CreateMarketRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// UpdateMarketRequest represents market update data
type UpdateMarketRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	IsActive    *bool   `json:"is_active"`
}

// GetMarkets retrieves all active markets
func (s *Service) GetMarkets() ([]Market, error) {
	var markets []Market
	if err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve markets: %w", err)
	}
	return markets, nil
}

// GetMarket retrieves a market by ID
func (s *Service) GetMarket(id uint) (*Market, error) {
	var m Market
	result := s.db.First(&m, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Mercado não encontrado")
		}
		return nil, fmt.Errorf("failed to retrieve market: %w", result.Error)
	}
	return &m, nil
}

// CreateMarket creates a new market
func (s *Service) CreateMarket(req *CreateMarketRequest) (*Market, error) {
	m := Market{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		IsActive:    true,
	}

	if err := s.db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}

	return &m, nil
}

// UpdateMarket updates an existing market
func (s *Service) UpdateMarket(id uint, req *UpdateMarketRequest) (*Market, error) {
	m, err := s.GetMarket(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(m).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update market: %w", err)
		}
	}

	return s.GetMarket(id)
}

// DeleteMarket soft-deletes a market
func (s *Service) DeleteMarket(id uint) error {
	if _, err := s.GetMarket(id); err != nil {
		return err
	}

	if err := s.db.Delete(&Market{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete market: %w", err)
	}

	return nil
}
