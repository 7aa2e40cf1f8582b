// internal/interfaces/http/handlers/market.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/market"
	"gorm.io/gorm"
)

// MarketHandler handles market endpoints
type MarketHandler struct {
	marketService *market.Service
	config        *config.Config
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(db *gorm.DB, cfg *config.Config) *MarketHandler {
	return &MarketHandler{
		marketService: market.NewService(db, cfg),
		config:        cfg,
	}
}

// GetMarkets handles GET /markets
func (h *MarketHandler) GetMarkets(c *gin.Context) {
	markets, err := h.marketService.GetMarkets()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mercados recuperados com sucesso",
		"data":    markets,
	})
}

// GetMarket handles GET /markets/:id
func (h *MarketHandler) GetMarket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.marketService.GetMarket(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mercado recuperado com sucesso",
		"data":    m,
	})
}

// CreateMarket handles POST /admin/markets
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	var req market.CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	m, err := h.marketService.CreateMarket(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Mercado criado com sucesso",
		"data":    m,
	})
}

// UpdateMarket handles PUT /admin/markets/:id
func (h *MarketHandler) UpdateMarket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req market.UpdateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	m, err := h.marketService.UpdateMarket(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mercado atualizado com sucesso",
		"data":    m,
	})
}

// DeleteMarket handles DELETE /admin/markets/:id
func (h *MarketHandler) DeleteMarket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.marketService.DeleteMarket(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mercado removido com sucesso",
	})
}
