package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starclicker-rest-api/internal/handler"
	"starclicker-rest-api/internal/repository"
	"starclicker-rest-api/internal/router"
	"starclicker-rest-api/internal/service"
)

// envelope mirrors the standard response wrapper so tests can unwrap data
// and error payloads uniformly.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newTestServer wires the full HTTP stack over a seeded in-memory store:
// 5 fans at price 100 / income 10, the 4-product catalog, no cache.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo := repository.NewMemoryEconomyRepository()
	fans, products := service.DefaultSeed(100, 10)
	require.NoError(t, repo.SeedDefaults(context.Background(), fans, products))

	economy := service.NewEconomyService(repo, service.EconomyOptions{StartingBalance: 1000, StrictSync: true})
	query := service.NewQueryService(repo, service.QueryOptions{DefaultLeaderboardLimit: 10})

	r := router.New(router.Config{
		Handler:            handler.New(),
		PlayerHandler:      handler.NewPlayerHandler(economy, query),
		FanHandler:         handler.NewFanHandler(economy, query),
		ProductHandler:     handler.NewProductHandler(economy, query),
		LeaderboardHandler: handler.NewLeaderboardHandler(query),
		AdminHandler:       handler.NewAdminHandler(repo, "memory"),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registerPlayer(t *testing.T, srv *httptest.Server, id int64, username string) {
	t.Helper()
	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/players", map[string]interface{}{
		"id":       id,
		"username": username,
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)
}

func TestRegisterPlayer(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/players", map[string]interface{}{
		"id":         42,
		"username":   "alice",
		"first_name": "Alice",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var player struct {
		ID      int64 `json:"id"`
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &player))
	assert.Equal(t, int64(42), player.ID)
	assert.Equal(t, int64(1000), player.Balance)

	// Registering the same id again returns 200 with the existing row.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/players", map[string]interface{}{
		"id":       42,
		"username": "alice",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestRegisterPlayerRejectsBadID(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/players", map[string]interface{}{
		"id": -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestGetPlayerNotFound(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/players/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestAcquireFanFlow(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")
	registerPlayer(t, srv, 2, "bob")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/fans/1/acquire", map[string]interface{}{
		"player_id": 1,
	})
	require.Equal(t, http.StatusOK, status)

	var result struct {
		NewBalance int64 `json:"new_balance"`
		Fan        struct {
			ID    int64 `json:"id"`
			Price int64 `json:"price"`
		} `json:"fan"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(900), result.NewBalance)
	assert.Equal(t, int64(1), result.Fan.ID)
	assert.Equal(t, int64(150), result.Fan.Price)

	// Same fan by another player is a conflict.
	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/fans/1/acquire", map[string]interface{}{
		"player_id": 2,
	})
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// The acquired fan left the available pool.
	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/fans/available", nil)
	require.Equal(t, http.StatusOK, status)
	var fans []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fans))
	assert.Len(t, fans, 4)
	for _, f := range fans {
		assert.NotEqual(t, int64(1), f.ID)
	}

	// The owner's snapshot lists the fan.
	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/players/1", nil)
	require.Equal(t, http.StatusOK, status)
	var view struct {
		Balance int64 `json:"balance"`
		Fans    []struct {
			ID int64 `json:"id"`
		} `json:"fans"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, int64(900), view.Balance)
	require.Len(t, view.Fans, 1)
	assert.Equal(t, int64(1), view.Fans[0].ID)
}

func TestAcquireFanInsufficientBalance(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")

	// Drain the balance below the cheapest fan price.
	balance := int64(10)
	status, _ := doJSON(t, srv, http.MethodPatch, "/api/v1/players/1", map[string]interface{}{
		"balance": balance,
	})
	require.Equal(t, http.StatusOK, status)

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/fans/1/acquire", map[string]interface{}{
		"player_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
}

func TestPurchaseProduct(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")

	// Product 2 is the Silver Coin at 50.
	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/products/2/purchase", map[string]interface{}{
		"player_id": 1,
	})
	require.Equal(t, http.StatusOK, status)

	var result struct {
		NewBalance int64 `json:"new_balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(950), result.NewBalance)
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, status)

	var products []struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 4)
	assert.Equal(t, "Gold Coin", products[0].Name)
	assert.Equal(t, int64(100), products[0].Price)
}

func TestSyncStateRejectsUnknownFields(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")

	status, env := doJSON(t, srv, http.MethodPatch, "/api/v1/players/1", map[string]interface{}{
		"balance":  500,
		"username": "mallory",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestSyncStateStrictValidation(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")

	status, env := doJSON(t, srv, http.MethodPatch, "/api/v1/players/1", map[string]interface{}{
		"owned_fan_ids": []int64{999},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestLeaderboard(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")
	registerPlayer(t, srv, 2, "bob")
	registerPlayer(t, srv, 3, "carol")

	// Give bob a lead.
	status, _ := doJSON(t, srv, http.MethodPatch, "/api/v1/players/2", map[string]interface{}{
		"balance": 5000,
	})
	require.Equal(t, http.StatusOK, status)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, status)

	var board []struct {
		ID      int64 `json:"id"`
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board, 3)
	assert.Equal(t, int64(2), board[0].ID)
	// alice and carol tie at 1000 and order by id.
	assert.Equal(t, int64(1), board[1].ID)
	assert.Equal(t, int64(3), board[2].ID)

	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/leaderboard?limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Len(t, board, 1)
}

func TestLeaderboardRejectsBadLimit(t *testing.T) {
	srv := newTestServer(t)

	for _, limit := range []string{"abc", "0", "-3"} {
		status, env := doJSON(t, srv, http.MethodGet, "/api/v1/leaderboard?limit="+limit, nil)
		assert.Equal(t, http.StatusBadRequest, status, fmt.Sprintf("limit=%s", limit))
		require.NotNil(t, env.Error)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/status", "/api/v1/health", "/api/v1/ready"} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAdminStats(t *testing.T) {
	srv := newTestServer(t)
	registerPlayer(t, srv, 1, "alice")

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, status)

	var stats struct {
		DBType  string                 `json:"db_type"`
		Economy map[string]interface{} `json:"economy"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "memory", stats.DBType)
	assert.EqualValues(t, 1, stats.Economy["total_players"])
}
