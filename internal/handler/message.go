package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/middleware"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/service"
)

// MessageHandler handles direct messages.
type MessageHandler struct {
	service *service.MessageService
	errorMapper
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc *service.MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{service: svc, errorMapper: errorMapper{log: log}}
}

// HandleSend handles POST /message/send requests.
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Send(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// HandleInbox handles GET /message/inbox requests.
func (h *MessageHandler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	messages, err := h.service.Inbox(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "failed to load messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// HandleRoom handles GET /message/room requests.
func (h *MessageHandler) HandleRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	messages, err := h.service.Room(r.Context(), userID, r.URL.Query().Get("partnerId"))
	if err != nil {
		h.writeError(w, r, err, "failed to load conversation")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
