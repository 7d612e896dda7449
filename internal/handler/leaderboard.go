package handler

import (
	"net/http"
	"strconv"

	"starclicker-rest-api/internal/service"
	"starclicker-rest-api/pkg/apierror"
	"starclicker-rest-api/pkg/response"
)

// LeaderboardHandler serves the balance leaderboard.
type LeaderboardHandler struct {
	query *service.QueryService
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(query *service.QueryService) *LeaderboardHandler {
	return &LeaderboardHandler{query: query}
}

// Get handles GET /api/v1/leaderboard?limit=N
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(w, apierror.BadRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	board, err := h.query.Leaderboard(r.Context(), limit)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.OK(w, board)
}
