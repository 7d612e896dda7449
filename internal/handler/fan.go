package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"starclicker-rest-api/internal/service"
	"starclicker-rest-api/pkg/apierror"
	"starclicker-rest-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// FanHandler handles fan-related HTTP requests.
type FanHandler struct {
	economy *service.EconomyService
	query   *service.QueryService
}

// NewFanHandler creates a new fan handler.
func NewFanHandler(economy *service.EconomyService, query *service.QueryService) *FanHandler {
	return &FanHandler{economy: economy, query: query}
}

// ListAvailable handles GET /api/v1/fans/available
func (h *FanHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	fans, err := h.query.ListAvailableFans(r.Context())
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.OK(w, fans)
}

// acquireRequest is the body of POST /api/v1/fans/{fan_id}/acquire.
type acquireRequest struct {
	PlayerID int64 `json:"player_id"`
}

// Acquire handles POST /api/v1/fans/{fan_id}/acquire
func (h *FanHandler) Acquire(w http.ResponseWriter, r *http.Request) {
	fanID, err := strconv.ParseInt(chi.URLParam(r, "fan_id"), 10, 64)
	if err != nil || fanID <= 0 {
		response.Error(w, apierror.BadRequest("fan_id must be a positive integer"))
		return
	}

	var req acquireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if req.PlayerID <= 0 {
		response.Error(w, apierror.BadRequest("player_id must be a positive integer"))
		return
	}

	result, err := h.economy.AcquireFan(r.Context(), req.PlayerID, fanID)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.OK(w, result)
}
