package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, Status(NotFound("x")))
	assert.Equal(t, http.StatusForbidden, Status(Forbidden("x")))
	assert.Equal(t, http.StatusBadRequest, Status(Validation("x")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, Status(Internal("x", errors.New("boom"))))
}

func TestMessageHidesInternalDetails(t *testing.T) {
	assert.Equal(t, "Cupom não encontrado", Message(NotFound("Cupom não encontrado")))
	assert.Equal(t, "Erro interno do servidor", Message(errors.New("pq: connection refused")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("contexto: %w", NotFound("Pedido não encontrado"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, Status(err))
	assert.Equal(t, "Pedido não encontrado", Message(err))
}
