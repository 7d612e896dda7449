package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starclicker-rest-api/internal/model"
)

func newSQLiteRepo(t *testing.T) *SQLiteEconomyRepository {
	t.Helper()

	repo, err := NewSQLiteEconomyRepository(filepath.Join(t.TempDir(), "economy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLitePlayerRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	player := &model.Player{
		ID:          42,
		Username:    "alice",
		FirstName:   "Alice",
		Balance:     1000,
		OwnedFanIDs: []int64{},
	}
	require.NoError(t, repo.CreatePlayer(ctx, player))

	got, err := repo.GetPlayer(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, int64(1000), got.Balance)
	assert.Empty(t, got.OwnedFanIDs)

	got.Balance = 700
	got.OwnedFanIDs = []int64{3, 1}
	require.NoError(t, repo.SavePlayer(ctx, got))

	got, err = repo.GetPlayer(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.Balance)
	// Acquisition order survives the round trip.
	assert.Equal(t, []int64{3, 1}, got.OwnedFanIDs)
}

func TestSQLiteGetPlayerNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)

	_, err := repo.GetPlayer(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteFanOwnership(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 1, Name: "John", Price: 100, Income: 10}))
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 2, Name: "Mike", Price: 100, Income: 10}))

	available, err := repo.ListFans(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	owner := int64(42)
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 1, OwnerID: &owner, Name: "John", Price: 150, Income: 10}))

	available, err = repo.ListFans(ctx, nil)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, int64(2), available[0].ID)

	owned, err := repo.ListFans(ctx, &owner)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, int64(1), owned[0].ID)
	assert.Equal(t, int64(150), owned[0].Price)
}

func TestSQLiteSavePlayerAndFan(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	player := &model.Player{ID: 1, Username: "alice", Balance: 900, OwnedFanIDs: []int64{5}}
	owner := int64(1)
	fan := &model.Fan{ID: 5, OwnerID: &owner, Name: "Tom", Price: 150, Income: 10}

	require.NoError(t, repo.SavePlayerAndFan(ctx, player, fan))

	gotPlayer, err := repo.GetPlayer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, gotPlayer.OwnedFanIDs)

	gotFan, err := repo.GetFan(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, gotFan.OwnerID)
	assert.Equal(t, int64(1), *gotFan.OwnerID)
}

func TestSQLiteLeaderboardOrdering(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	balances := map[int64]int64{1: 500, 2: 2000, 3: 1000, 4: 1000}
	for id, balance := range balances {
		require.NoError(t, repo.SavePlayer(ctx, &model.Player{ID: id, Balance: balance, OwnedFanIDs: []int64{}}))
	}

	players, err := repo.ListPlayersByBalanceDesc(ctx, 10)
	require.NoError(t, err)
	require.Len(t, players, 4)
	assert.Equal(t, int64(2), players[0].ID)
	assert.Equal(t, int64(3), players[1].ID)
	assert.Equal(t, int64(4), players[2].ID)
	assert.Equal(t, int64(1), players[3].ID)

	top2, err := repo.ListPlayersByBalanceDesc(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top2, 2)
	assert.Equal(t, int64(2), top2[0].ID)
}

func TestSQLiteSeedDefaultsOnlyOnce(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	fans := []model.Fan{{Name: "John", Price: 100, Income: 10}}
	products := []model.Product{{Name: "Gold Coin", Price: 100}}
	require.NoError(t, repo.SeedDefaults(ctx, fans, products))
	require.NoError(t, repo.SeedDefaults(ctx, fans, products))

	allFans, err := repo.ListFans(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, allFans, 1)

	allProducts, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, allProducts, 1)
	assert.Equal(t, "Gold Coin", allProducts[0].Name)
}

func TestSQLiteStats(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SavePlayer(ctx, &model.Player{ID: 1, Balance: 700, OwnedFanIDs: []int64{}}))
	require.NoError(t, repo.SavePlayer(ctx, &model.Player{ID: 2, Balance: 300, OwnedFanIDs: []int64{}}))
	owner := int64(1)
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 1, OwnerID: &owner, Name: "John", Price: 150, Income: 10}))
	require.NoError(t, repo.SaveFan(ctx, &model.Fan{ID: 2, Name: "Mike", Price: 100, Income: 10}))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total_players"])
	assert.Equal(t, int64(1), stats["fans_owned"])
	assert.Equal(t, int64(1), stats["fans_available"])
	assert.Equal(t, int64(1000), stats["currency_in_circulation"])
}
