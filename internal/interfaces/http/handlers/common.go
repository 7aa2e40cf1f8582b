// internal/interfaces/http/handlers/common.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// respondError maps a service error onto an HTTP status and JSON body
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{
		"error": apperr.Message(err),
	})
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Parâmetro inválido: " + name,
		})
		return 0, false
	}
	return uint(id), true
}
