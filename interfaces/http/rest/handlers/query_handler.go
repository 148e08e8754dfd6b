package handlers

import (
	"net/http"

	"go.uber.org/zap"

	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
	"github.com/yogishpa/graph-samples/pkg/utils"
)

// QueryHandler handles direct graph query requests
type QueryHandler struct {
	chat       ChatService
	errHandler *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(chat ChatService, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		chat:       chat,
		errHandler: errHandler,
		logger:     logger,
	}
}

// RunQueryRequest represents the request body for a raw query
type RunQueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// RunQueryResponse carries normalized query results
type RunQueryResponse struct {
	Results any `json:"results"`
}

// RunQuery handles POST /query
func (h *QueryHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	var req RunQueryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	results, err := h.chat.RunQuery(r.Context(), req.Query)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, RunQueryResponse{Results: results})
}

// TestConnection handles GET /connection-test. A failed connection is
// reported in the body with 503 so probes can tell it apart.
func (h *QueryHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	status := h.chat.TestConnection(r.Context())
	code := http.StatusOK
	if !status.OK {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, h.logger, code, status)
}

// ExploreSchema handles GET /schema
func (h *QueryHandler) ExploreSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"sections": h.chat.ExploreSchema(r.Context()),
	})
}
