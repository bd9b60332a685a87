package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad request", BadRequest("name is required"), http.StatusBadRequest, "name is required"},
		{"forbidden", Forbidden("not your client"), http.StatusForbidden, "not your client"},
		{"wrapped app error", fmt.Errorf("service: %w", Conflict("slot taken")), http.StatusConflict, "slot taken"},
		{"repository not found", fmt.Errorf("plan p1: %w", ErrNotFound), http.StatusNotFound, "Resource not found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := respond(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	_, body := respond(t, Internal("Failed to load plan", errors.New("mongo: connection refused")))
	assert.Equal(t, "Failed to load plan", body.Message)
	assert.Empty(t, body.Details)
}

func TestRespondErrorShowsClientCause(t *testing.T) {
	_, body := respond(t, NotFound("Plan not found", errors.New("plan p9")))
	assert.Equal(t, "plan p9", body.Details)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(Unauthorized("no")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
