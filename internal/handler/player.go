package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"starclicker-rest-api/internal/model"
	"starclicker-rest-api/internal/service"
	"starclicker-rest-api/pkg/apierror"
	"starclicker-rest-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// PlayerHandler handles player-related HTTP requests.
type PlayerHandler struct {
	economy *service.EconomyService
	query   *service.QueryService
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(economy *service.EconomyService, query *service.QueryService) *PlayerHandler {
	return &PlayerHandler{economy: economy, query: query}
}

// playerIDParam parses the {player_id} URL parameter.
func playerIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "player_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("player_id must be a positive integer")
	}
	return id, nil
}

// registerRequest is the body of POST /api/v1/players.
type registerRequest struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if req.ID <= 0 {
		response.Error(w, apierror.BadRequest("id must be a positive integer"))
		return
	}

	player, created, err := h.economy.EnsurePlayer(r.Context(), model.Player{
		ID:        req.ID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	if created {
		response.Created(w, player)
		return
	}
	response.OK(w, player)
}

// GetPlayer handles GET /api/v1/players/{player_id}
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := playerIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	view, err := h.query.GetPlayer(r.Context(), playerID)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.OK(w, view)
}

// SyncState handles PATCH /api/v1/players/{player_id}
//
// The body is a partial overwrite restricted to balance and
// owned_fan_ids; clients use it to reconcile locally accrued income.
func (h *PlayerHandler) SyncState(w http.ResponseWriter, r *http.Request) {
	playerID, err := playerIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var patch model.PlayerPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid patch body"))
		return
	}

	if err := h.economy.SyncPlayerState(r.Context(), playerID, patch); err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.OK(w, map[string]interface{}{"status": "success"})
}
