package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMapToStatusAndCode(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{Invalid("bad"), http.StatusBadRequest, "INVALID_REQUEST"},
		{NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{Unauthorized("who"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{Conflict("dup"), http.StatusConflict, "CONFLICT"},
		{InsufficientStock("empty"), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("untyped"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
		assert.Equal(t, tc.code, Code(tc.err), tc.err.Error())
	}
}

func TestWrappedErrorsKeepKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("placing order: %w", Internal("transaction échouée", cause))

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsTyped(err))
	assert.False(t, IsTyped(cause))
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	assert.Equal(t, "Erreur interne du serveur", PublicMessage(Internal("secret", errors.New("pq: password"))))
	assert.Equal(t, "Erreur interne du serveur", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Produit introuvable", PublicMessage(NotFound("Produit introuvable")))

	err := InsufficientStock("Stock insuffisant").WithDetails(map[string]interface{}{"available": 1})
	assert.Equal(t, 1, PublicDetails(err)["available"])
	assert.Nil(t, PublicDetails(Internal("x", nil)))
}

func TestResponseBody(t *testing.T) {
	status, body := Response(Invalid("Adresse incomplète").WithDetails(map[string]interface{}{"missing_fields": []string{"zip"}}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Adresse incomplète", body["error"])
	assert.Equal(t, "INVALID_REQUEST", body["code"])
	assert.Contains(t, body, "details")

	status, body = Response(errors.New("pq: relation does not exist"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Erreur interne du serveur", body["error"])
	assert.NotContains(t, body, "details")
}
