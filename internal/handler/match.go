package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/middleware"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/service"
)

// MatchHandler handles likes and the like inbox.
type MatchHandler struct {
	service *service.MatchService
	errorMapper
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(svc *service.MatchService, log *zap.Logger) *MatchHandler {
	return &MatchHandler{service: svc, errorMapper: errorMapper{log: log}}
}

// HandleSend handles POST /like/send requests.
func (h *MatchHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.SendLikeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SendLike(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to send like")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleInbox handles GET /like/inbox requests.
func (h *MatchHandler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Inbox(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "failed to load likes")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRespond handles PATCH /like/inbox requests.
func (h *MatchHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.RespondMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	match, err := h.service.Respond(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to update like")
		return
	}

	writeJSON(w, http.StatusOK, model.MatchResponse{Match: match})
}
