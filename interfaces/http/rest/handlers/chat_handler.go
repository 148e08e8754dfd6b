package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/services"
	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/pkg/auth"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
	"github.com/yogishpa/graph-samples/pkg/utils"
)

// ChatService is the chat surface the handlers drive
type ChatService interface {
	Ask(ctx context.Context, sessionID, question string) (*services.ChatReply, error)
	RunQuery(ctx context.Context, query string) (any, error)
	TestConnection(ctx context.Context) services.ConnectionStatus
	ExploreSchema(ctx context.Context) []services.SchemaSection
	History(ctx context.Context, sessionID string) ([]entities.Turn, error)
}

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chat       ChatService
	errHandler *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatService, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:       chat,
		errHandler: errHandler,
		logger:     logger,
	}
}

// AskRequest represents the request body for a chat question
type AskRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Question  string `json:"question" validate:"required,max=2000"`
}

// HistoryResponse lists the turns of one session
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Turns     []entities.Turn `json:"turns"`
}

// Ask handles POST /chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		h.logger.Debug("Chat question", zap.String("userID", claims.UserID))
	}

	reply, err := h.chat.Ask(r.Context(), req.SessionID, req.Question)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, reply)
}

// History handles GET /chat/{sessionID}/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.chat.History(r.Context(), sessionID)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	if turns == nil {
		turns = []entities.Turn{}
	}
	respondJSON(w, h.logger, http.StatusOK, HistoryResponse{SessionID: sessionID, Turns: turns})
}
