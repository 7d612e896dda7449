package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"starclicker-rest-api/internal/model"
	"starclicker-rest-api/internal/pricing"
	"starclicker-rest-api/internal/repository"
)

// Business errors reported by the economy services. Handlers translate
// these into API error kinds.
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrFanNotFound       = errors.New("fan not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientFunds = errors.New("not enough balance")
	ErrFanAlreadyOwned   = errors.New("fan already owned")
	ErrInvalidPatch      = errors.New("invalid patch")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// storeErr wraps an unexpected persistence failure so callers see one
// opaque kind regardless of backend.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// EconomyService is the serialized transaction core of the economy. A
// single mutex makes all mutating operations mutually exclusive across
// all players, so a read-check-write sequence can never interleave with
// another one: no lost updates, no double-spend, no double-assignment.
type EconomyService struct {
	repo repository.EconomyRepository
	mu   sync.Mutex

	startingBalance int64
	strictSync      bool
}

// EconomyOptions configures the economy rules.
type EconomyOptions struct {
	// StartingBalance is granted to every newly registered player.
	StartingBalance int64
	// StrictSync makes SyncPlayerState reject negative balances and
	// unknown fan ids instead of writing client state through verbatim.
	StrictSync bool
}

// NewEconomyService creates the transaction core on top of a repository.
// Returns nil if repo is nil (required dependency).
func NewEconomyService(repo repository.EconomyRepository, opts EconomyOptions) *EconomyService {
	if repo == nil {
		return nil
	}
	return &EconomyService{
		repo:            repo,
		startingBalance: opts.StartingBalance,
		strictSync:      opts.StrictSync,
	}
}

// AcquireResult is the outcome of a successful fan acquisition.
type AcquireResult struct {
	NewBalance int64             `json:"new_balance"`
	Fan        model.AcquiredFan `json:"fan"`
}

// PurchaseResult is the outcome of a successful product purchase.
type PurchaseResult struct {
	NewBalance int64 `json:"new_balance"`
}

// EnsurePlayer registers a player on first contact. An existing player is
// returned unchanged; a new one starts with the configured balance and no
// fans. The returned bool reports whether a row was created.
func (s *EconomyService) EnsurePlayer(ctx context.Context, p model.Player) (*model.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetPlayer(ctx, p.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, storeErr(err)
	}

	p.Balance = s.startingBalance
	p.OwnedFanIDs = []int64{}
	if err := s.repo.CreatePlayer(ctx, &p); err != nil {
		return nil, false, storeErr(err)
	}

	log.Printf("[EconomyService] Registered player id=%d balance=%d", p.ID, p.Balance)
	return &p, true, nil
}

// AcquireFan transfers an unowned fan to the player, deducting the current
// price from their balance and escalating the fan's price for the next
// acquisition. The whole read-check-write runs under the global mutation
// lock and commits through a single store transaction.
func (s *EconomyService) AcquireFan(ctx context.Context, playerID, fanID int64) (*AcquireResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, storeErr(err)
	}

	fan, err := s.repo.GetFan(ctx, fanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, storeErr(err)
	}

	if fan.IsOwned() {
		return nil, ErrFanAlreadyOwned
	}
	if player.Balance < fan.Price {
		return nil, ErrInsufficientFunds
	}

	paid := fan.Price
	player.Balance -= paid
	player.AppendFan(fanID)
	fan.OwnerID = &playerID
	fan.Price = pricing.Escalate(paid)

	if err := s.repo.SavePlayerAndFan(ctx, player, fan); err != nil {
		return nil, storeErr(err)
	}

	log.Printf("[EconomyService] Player %d acquired fan %d for %d (balance %d, next price %d)",
		playerID, fanID, paid, player.Balance, fan.Price)

	return &AcquireResult{
		NewBalance: player.Balance,
		Fan: model.AcquiredFan{
			ID:     fan.ID,
			Price:  fan.Price,
			Income: fan.Income,
		},
	}, nil
}

// PurchaseProduct deducts the product's catalog price from the player's
// balance. Applying the product's effect is the client's job; the
// server-side purchase is purely a balance transaction.
func (s *EconomyService) PurchaseProduct(ctx context.Context, playerID, productID int64) (*PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, storeErr(err)
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, storeErr(err)
	}

	if player.Balance < product.Price {
		return nil, ErrInsufficientFunds
	}

	player.Balance -= product.Price
	if err := s.repo.SavePlayer(ctx, player); err != nil {
		return nil, storeErr(err)
	}

	log.Printf("[EconomyService] Player %d purchased product %d for %d (balance %d)",
		playerID, productID, product.Price, player.Balance)

	return &PurchaseResult{NewBalance: player.Balance}, nil
}

// SyncPlayerState overwrites the player's balance and/or owned-fan list
// with client-reconciled values. Clients accrue passive income locally and
// push the result back through this call.
func (s *EconomyService) SyncPlayerState(ctx context.Context, playerID int64, patch model.PlayerPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalidPatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return storeErr(err)
	}

	if s.strictSync {
		if err := s.validatePatch(ctx, patch); err != nil {
			return err
		}
	}

	if patch.Balance != nil {
		player.Balance = *patch.Balance
	}
	if patch.OwnedFanIDs != nil {
		player.OwnedFanIDs = append([]int64{}, (*patch.OwnedFanIDs)...)
	}

	if err := s.repo.SavePlayer(ctx, player); err != nil {
		return storeErr(err)
	}
	return nil
}

// validatePatch enforces the strict-sync rules: non-negative balance,
// known fan ids, no duplicates.
func (s *EconomyService) validatePatch(ctx context.Context, patch model.PlayerPatch) error {
	if patch.Balance != nil && *patch.Balance < 0 {
		return fmt.Errorf("%w: balance must not be negative", ErrInvalidPatch)
	}
	if patch.OwnedFanIDs == nil {
		return nil
	}

	seen := make(map[int64]bool, len(*patch.OwnedFanIDs))
	for _, fanID := range *patch.OwnedFanIDs {
		if seen[fanID] {
			return fmt.Errorf("%w: duplicate fan id %d", ErrInvalidPatch, fanID)
		}
		seen[fanID] = true

		if _, err := s.repo.GetFan(ctx, fanID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: unknown fan id %d", ErrInvalidPatch, fanID)
			}
			return storeErr(err)
		}
	}
	return nil
}
