// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	couponService *coupon.Service
	config        *config.Config
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(db *gorm.DB, cfg *config.Config) *CouponHandler {
	return &CouponHandler{
		couponService: coupon.NewService(coupon.NewStore(db)),
		config:        cfg,
	}
}

// ValidateCouponRequest represents a coupon validation request
type ValidateCouponRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderValue float64 `json:"order_value" binding:"required,gt=0"`
	MarketID   *uint   `json:"market_id"`
}

// ValidateCoupon handles POST /coupons/validate. Validation failures
// come back as 400 with valid=false rather than an error payload so
// clients can surface the reason directly.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	cp, err := h.couponService.ValidateCoupon(req.Code, req.OrderValue, req.MarketID)
	if err != nil {
		if apperr.IsNotFound(err) || apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"valid":   false,
				"message": apperr.Message(err),
			})
			return
		}
		respondError(c, err)
		return
	}

	result := h.couponService.CalculateDiscount(cp, req.OrderValue)

	c.JSON(http.StatusOK, gin.H{
		"valid":       true,
		"coupon":      result.Coupon,
		"discount":    result.Discount,
		"final_value": result.FinalValue,
	})
}

// ListCoupons handles GET /admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var marketID *uint
	if param := c.Query("market_id"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Parâmetro inválido: market_id",
			})
			return
		}
		mid := uint(id)
		marketID = &mid
	}

	coupons, total, err := h.couponService.GetCoupons(marketID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cupons recuperados com sucesso",
		"data": gin.H{
			"coupons": coupons,
			"total":   total,
			"page":    page,
			"limit":   limit,
		},
	})
}

// GetCoupon handles GET /admin/coupons/:id
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cp, err := h.couponService.GetCoupon(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cupom recuperado com sucesso",
		"data":    cp,
	})
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req coupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	cp, err := h.couponService.CreateCoupon(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cupom criado com sucesso",
		"data":    cp,
	})
}

// UpdateCoupon handles PUT /admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req coupon.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dados da requisição inválidos",
			"details": err.Error(),
		})
		return
	}

	cp, err := h.couponService.UpdateCoupon(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cupom atualizado com sucesso",
		"data":    cp,
	})
}

// DeleteCoupon handles DELETE /admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.DeleteCoupon(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cupom removido com sucesso",
	})
}
