// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config) *OrderHandler {
	couponService := coupon.NewService(coupon.NewStore(db))
	cartService := cart.NewService(cart.NewStore(db), product.NewFinder(db))

	return &OrderHandler{
		orderService: order.NewService(order.NewStore(db), order.NewReferences(db), couponService, cartService),
		pdfService:   pdf.NewService(cfg),
		config:       cfg,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.CreateOrder(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pedido criado com sucesso",
		"data":    o,
	})
}

// GetMyOrders handles GET /orders, scoped to the authenticated user
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Parâmetros de consulta inválidos",
		})
		return
	}
	req.UserID = userID
	req.DelivererID = 0

	resp, err := h.orderService.GetOrders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pedidos recuperados com sucesso",
		"data":    resp,
	})
}

// GetOrder handles GET /orders/:id. Only the owner, the assigned
// deliverer or an admin may see an order.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.canAccessOrder(c, o) {
		respondError(c, apperr.Forbidden("Acesso negado"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pedido recuperado com sucesso",
		"data":    o,
	})
}

// GetOrderReceipt handles GET /orders/:id/receipt and streams a PDF
func (h *OrderHandler) GetOrderReceipt(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.canAccessOrder(c, o) {
		respondError(c, apperr.Forbidden("Acesso negado"))
		return
	}

	buf, err := h.pdfService.GenerateReceipt(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Erro ao gerar recibo",
		})
		return
	}

	filename := fmt.Sprintf("recibo-pedido-%d.pdf", o.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// GetDeliveries handles GET /deliveries, scoped to the authenticated
// deliverer
func (h *OrderHandler) GetDeliveries(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Parâmetros de consulta inválidos",
		})
		return
	}
	req.UserID = 0
	req.DelivererID = userID

	resp, err := h.orderService.GetOrders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Entregas recuperadas com sucesso",
		"data":    resp,
	})
}

// AdminListOrders handles GET /admin/orders with arbitrary filters
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Parâmetros de consulta inválidos",
		})
		return
	}

	resp, err := h.orderService.GetOrders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pedidos recuperados com sucesso",
		"data":    resp,
	})
}

// UpdateOrder handles PUT /admin/orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req order.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.UpdateOrder(orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pedido atualizado com sucesso",
		"data":    o,
	})
}

// AssignDeliverer handles PUT /admin/orders/:id/deliverer
func (h *OrderHandler) AssignDeliverer(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		DelivererID uint `json:"deliverer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.AssignDeliverer(orderID, req.DelivererID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Entregador atribuído com sucesso",
		"data":    o,
	})
}

func (h *OrderHandler) canAccessOrder(c *gin.Context, o *order.Order) bool {
	if middleware.IsAdminFromContext(c) {
		return true
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if o.UserID == userID {
		return true
	}
	return o.DelivererID != nil && *o.DelivererID == userID
}
