package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTypedConstructors(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")

	connErr := NewConnectionError("neptune:8182", cause)
	assert.True(t, IsConnection(connErr))
	assert.False(t, IsQuery(connErr))
	assert.Equal(t, http.StatusBadGateway, connErr.HTTPStatus)
	assert.ErrorIs(t, connErr, cause)

	queryErr := NewQueryError("HTTP Error 500: boom")
	assert.True(t, IsQuery(queryErr))
	assert.Equal(t, "HTTP Error 500: boom", Payload(queryErr))

	cfgErr := NewConfigUnavailableError("/app/gremlin/query1", cause)
	assert.True(t, IsConfigUnavailable(cfgErr))
	assert.Contains(t, cfgErr.Error(), "/app/gremlin/query1")
}

func TestPayload(t *testing.T) {
	assert.Equal(t, "", Payload(nil))
	assert.Equal(t, "plain", Payload(stderrors.New("plain")))

	wrapped := fmt.Errorf("execute: %w", NewConnectionError("host", stderrors.New("eof")))
	assert.Equal(t, "connection to 'host' failed: eof", Payload(wrapped))
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query", nil)

		h.Handle(rec, req, NewValidationError("question is required"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, "VALIDATION", body.Type)
		assert.Equal(t, "question is required", body.Message)
	})

	t.Run("generic error hides message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		h.Handle(rec, req, stderrors.New("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret detail")
	})
}

func TestErrorHandler_MiddlewareRecoversPanic(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "panic: kaboom")
}
