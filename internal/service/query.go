package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"starclicker-rest-api/internal/cache"
	"starclicker-rest-api/internal/model"
	"starclicker-rest-api/internal/repository"
)

const (
	leaderboardCacheKey = "leaderboard"
	catalogCacheKey     = "products"
)

// QueryService is the read-only surface of the economy. It never takes the
// mutation lock: each call observes whatever state the store returns for a
// single read, which is all the consistency the API promises for reads.
type QueryService struct {
	repo  repository.EconomyRepository
	cache cache.Cache

	leaderboardTTL time.Duration
	catalogTTL     time.Duration
	defaultLimit   int
}

// QueryOptions configures read caching and defaults.
type QueryOptions struct {
	// Cache is optional; nil disables read caching entirely.
	Cache          cache.Cache
	LeaderboardTTL time.Duration
	CatalogTTL     time.Duration
	// DefaultLeaderboardLimit is used when a caller passes limit <= 0.
	DefaultLeaderboardLimit int
}

// NewQueryService creates the query surface on top of a repository.
// Returns nil if repo is nil (required dependency).
func NewQueryService(repo repository.EconomyRepository, opts QueryOptions) *QueryService {
	if repo == nil {
		return nil
	}
	limit := opts.DefaultLeaderboardLimit
	if limit <= 0 {
		limit = 10
	}
	return &QueryService{
		repo:           repo,
		cache:          opts.Cache,
		leaderboardTTL: opts.LeaderboardTTL,
		catalogTTL:     opts.CatalogTTL,
		defaultLimit:   limit,
	}
}

// GetPlayer returns the player snapshot: profile fields plus the
// materialized summaries of every fan they own.
func (s *QueryService) GetPlayer(ctx context.Context, playerID int64) (*model.PlayerView, error) {
	player, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, storeErr(err)
	}

	fans, err := s.repo.ListFans(ctx, &playerID)
	if err != nil {
		return nil, storeErr(err)
	}

	view := &model.PlayerView{
		ID:        player.ID,
		Username:  player.Username,
		FirstName: player.FirstName,
		LastName:  player.LastName,
		PhotoURL:  player.PhotoURL,
		Balance:   player.Balance,
		Fans:      make([]model.FanSummary, 0, len(fans)),
	}
	for _, f := range fans {
		view.Fans = append(view.Fans, f.Summary())
	}
	return view, nil
}

// ListAvailableFans returns the unowned acquisition pool.
func (s *QueryService) ListAvailableFans(ctx context.Context) ([]model.FanSummary, error) {
	fans, err := s.repo.ListFans(ctx, nil)
	if err != nil {
		return nil, storeErr(err)
	}

	summaries := make([]model.FanSummary, 0, len(fans))
	for _, f := range fans {
		summaries = append(summaries, f.Summary())
	}
	return summaries, nil
}

// ListProducts returns the product catalog. The catalog is immutable after
// seeding, so it is served from cache when one is configured.
func (s *QueryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache == nil || s.catalogTTL <= 0 {
		products, err := s.repo.ListProducts(ctx)
		if err != nil {
			return nil, storeErr(err)
		}
		return products, nil
	}

	data, err := s.cache.GetOrSet(ctx, catalogCacheKey, s.catalogTTL, func() ([]byte, error) {
		products, err := s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(products)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Leaderboard returns up to limit players ordered by balance descending,
// ties broken by ascending id. A non-positive limit uses the configured
// default; only the default-sized board is cached, explicit limits read
// the store directly.
func (s *QueryService) Leaderboard(ctx context.Context, limit int) ([]model.PlayerSummary, error) {
	if limit > 0 || s.cache == nil || s.leaderboardTTL <= 0 {
		if limit <= 0 {
			limit = s.defaultLimit
		}
		return s.loadLeaderboard(ctx, limit)
	}

	data, err := s.cache.GetOrSet(ctx, leaderboardCacheKey, s.leaderboardTTL, func() ([]byte, error) {
		board, err := s.loadLeaderboard(ctx, s.defaultLimit)
		if err != nil {
			return nil, err
		}
		return json.Marshal(board)
	})
	if err != nil {
		return nil, err
	}

	var board []model.PlayerSummary
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// loadLeaderboard reads the board straight from the store.
func (s *QueryService) loadLeaderboard(ctx context.Context, limit int) ([]model.PlayerSummary, error) {
	players, err := s.repo.ListPlayersByBalanceDesc(ctx, limit)
	if err != nil {
		return nil, storeErr(err)
	}

	board := make([]model.PlayerSummary, 0, len(players))
	for _, p := range players {
		board = append(board, model.PlayerSummary{
			ID:        p.ID,
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			PhotoURL:  p.PhotoURL,
			Balance:   p.Balance,
		})
	}
	return board, nil
}
