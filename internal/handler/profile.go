package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/middleware"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/service"
)

// ProfileHandler handles profile editing and candidate search.
type ProfileHandler struct {
	service *service.ProfileService
	errorMapper
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, errorMapper: errorMapper{log: log}}
}

// HandleUpdate handles POST /profile/update requests.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err, "profile update failed")
		return
	}

	writeJSON(w, http.StatusOK, model.ProfileResponse{Profile: profile})
}

// HandleSearch handles GET /search requests.
func (h *ProfileHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.SearchFilter{
		Gender:        strings.TrimSpace(q.Get("gender")),
		Location:      strings.TrimSpace(q.Get("location")),
		ExcludeUserID: strings.TrimSpace(q.Get("excludeUserId")),
	}

	var err error
	if filter.AgeMin, err = intParam(q.Get("ageMin")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("ageMin must be an integer"))
		return
	}
	if filter.AgeMax, err = intParam(q.Get("ageMax")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("ageMax must be an integer"))
		return
	}

	results, err := h.service.Search(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// intParam parses an optional integer query value. Empty means unset.
func intParam(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
