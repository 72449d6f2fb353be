package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/Joana-OrderBot/internal/application/archive"
	"github.com/turtacn/Joana-OrderBot/internal/application/conversation"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// ConversationHandler exposes the dialogue over JSON.
type ConversationHandler struct {
	svc    conversation.Service
	orders archive.Service
	logger logging.Logger
}

func NewConversationHandler(svc conversation.Service, orders archive.Service, logger logging.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, orders: orders, logger: logger}
}

type TurnRequest struct {
	Text string `json:"text"`
}

// Turn handles POST /api/v1/sessions/{sessionID}/turns.
func (h *ConversationHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeAppError(w, h.logger, errors.InvalidParam("text is required"))
		return
	}

	res, err := h.svc.HandleTurn(r.Context(), &conversation.TurnInput{
		SessionID: chi.URLParam(r, "sessionID"),
		Text:      req.Text,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetSession handles GET /api/v1/sessions/{sessionID}.
func (h *ConversationHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ResetSession handles DELETE /api/v1/sessions/{sessionID}.
func (h *ConversationHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders handles GET /api/v1/sessions/{sessionID}/orders.
func (h *ConversationHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.orders.ListSessionOrders(r.Context(), chi.URLParam(r, "sessionID"), limit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder handles GET /api/v1/orders/{orderID}.
func (h *ConversationHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
