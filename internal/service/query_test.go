package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starclicker-rest-api/internal/cache"
	"starclicker-rest-api/internal/model"
	"starclicker-rest-api/internal/repository"
)

func newTestQuery(t *testing.T) (*QueryService, *repository.MemoryEconomyRepository) {
	t.Helper()
	repo := repository.NewMemoryEconomyRepository()
	svc := NewQueryService(repo, QueryOptions{DefaultLeaderboardLimit: 10})
	require.NotNil(t, svc)
	return svc, repo
}

func TestGetPlayerView(t *testing.T) {
	svc, repo := newTestQuery(t)
	ctx := context.Background()
	seedPlayer(t, repo, 1, 850)

	owner := int64(1)
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 3, OwnerID: &owner, Name: "Sara", Price: 150, Income: 10}))
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 4, Name: "Emma", Price: 100, Income: 10}))

	view, err := svc.GetPlayer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(850), view.Balance)
	require.Len(t, view.Fans, 1)
	assert.Equal(t, int64(3), view.Fans[0].ID)
	assert.Equal(t, "Sara", view.Fans[0].Name)
}

func TestGetPlayerViewNotFound(t *testing.T) {
	svc, _ := newTestQuery(t)

	_, err := svc.GetPlayer(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestListAvailableFansExcludesOwned(t *testing.T) {
	svc, repo := newTestQuery(t)
	ctx := context.Background()

	owner := int64(1)
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 1, OwnerID: &owner, Name: "John", Price: 150, Income: 10}))
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 2, Name: "Mike", Price: 100, Income: 10}))
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 3, Name: "Sara", Price: 100, Income: 10}))

	fans, err := svc.ListAvailableFans(ctx)
	require.NoError(t, err)
	require.Len(t, fans, 2)
	assert.Equal(t, int64(2), fans[0].ID)
	assert.Equal(t, int64(3), fans[1].ID)
}

func TestLeaderboardOrderingAndLimit(t *testing.T) {
	svc, repo := newTestQuery(t)
	ctx := context.Background()

	balances := map[int64]int64{1: 500, 2: 2000, 3: 1000, 4: 1000, 5: 100}
	for id, balance := range balances {
		seedPlayer(t, repo, id, balance)
	}

	board, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 5)
	assert.Equal(t, int64(2), board[0].ID)
	// Equal balances tie-break by ascending id.
	assert.Equal(t, int64(3), board[1].ID)
	assert.Equal(t, int64(4), board[2].ID)
	assert.Equal(t, int64(1), board[3].ID)
	assert.Equal(t, int64(5), board[4].ID)

	top2, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top2, 2)
	assert.Equal(t, int64(2), top2[0].ID)
	assert.Equal(t, int64(3), top2[1].ID)
}

func TestLeaderboardCachesDefaultBoard(t *testing.T) {
	repo := repository.NewMemoryEconomyRepository()
	svc := NewQueryService(repo, QueryOptions{
		Cache:                   cache.NewMemoryCache(),
		LeaderboardTTL:          time.Minute,
		DefaultLeaderboardLimit: 10,
	})
	ctx := context.Background()
	seedPlayer(t, repo, 1, 500)

	board, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 1)

	// A later write is invisible until the cache entry expires.
	seedPlayer(t, repo, 2, 9000)
	board, err = svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, board, 1)

	// Explicit limits bypass the cache and see fresh state.
	fresh, err := svc.Leaderboard(ctx, 5)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, int64(2), fresh[0].ID)
}

func TestListProductsCached(t *testing.T) {
	repo := repository.NewMemoryEconomyRepository()
	svc := NewQueryService(repo, QueryOptions{
		Cache:      cache.NewMemoryCache(),
		CatalogTTL: time.Minute,
	})
	ctx := context.Background()

	require.NoError(t, repo.SeedDefaults(ctx, nil, []model.Product{
		{Name: "Gold Coin", Price: 100},
		{Name: "Silver Coin", Price: 50},
	}))

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gold Coin", products[0].Name)

	// Second read is served from cache and returns the same catalog.
	again, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, again)
}
