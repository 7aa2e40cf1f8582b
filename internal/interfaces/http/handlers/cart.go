// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(cart.NewStore(db), product.NewFinder(db)),
		config:      cfg,
	}
}

// GetCarts handles GET /carts, one cart per market
func (h *CartHandler) GetCarts(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	carts, err := h.cartService.GetCarts(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Carrinhos recuperados com sucesso",
		"data":    carts,
	})
}

// GetCart handles GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cartView, err := h.cartService.GetCart(userID, cartID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Carrinho recuperado com sucesso",
		"data":    cartView,
	})
}

// AddItem handles POST /carts/items. The target cart is derived from the
// product's market.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	cartView, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item adicionado ao carrinho com sucesso",
		"data":    cartView,
	})
}

// AddMultipleItems handles POST /carts/items/batch. Items are grouped
// into one cart per market.
func (h *CartHandler) AddMultipleItems(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req cart.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	carts, err := h.cartService.AddMultipleItems(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Itens adicionados ao carrinho com sucesso",
		"data":    carts,
	})
}

// UpdateItem handles PUT /carts/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	cartView, err := h.cartService.UpdateItemQuantity(userID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item do carrinho atualizado com sucesso",
		"data":    cartView,
	})
}

// RemoveItem handles DELETE /carts/items/:id. When the last item is
// removed the cart itself goes away and data comes back null.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cartView, err := h.cartService.RemoveItem(userID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removido do carrinho com sucesso",
		"data":    cartView,
	})
}

// ClearCart handles DELETE /carts/:id/items
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(userID, cartID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Carrinho esvaziado com sucesso",
	})
}

// DeleteCart handles DELETE /carts/:id
func (h *CartHandler) DeleteCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.DeleteCart(userID, cartID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Carrinho removido com sucesso",
	})
}
