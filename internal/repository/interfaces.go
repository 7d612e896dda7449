package repository

import (
	"context"
	"errors"

	"starclicker-rest-api/internal/model"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// EconomyRepository defines data access for the three economy entities.
// The store owns all entity state; callers re-read what they need on
// every operation and hold no copies across calls.
type EconomyRepository interface {
	// GetPlayer loads a player by id. Returns ErrNotFound if absent.
	GetPlayer(ctx context.Context, id int64) (*model.Player, error)

	// CreatePlayer inserts a new player row with the fields as given.
	CreatePlayer(ctx context.Context, p *model.Player) error

	// SavePlayer upserts the full player row.
	SavePlayer(ctx context.Context, p *model.Player) error

	// GetFan loads a fan by id. Returns ErrNotFound if absent.
	GetFan(ctx context.Context, id int64) (*model.Fan, error)

	// SaveFan upserts the full fan row.
	SaveFan(ctx context.Context, f *model.Fan) error

	// SavePlayerAndFan writes both rows in a single store transaction so
	// an acquisition commits all-or-nothing.
	SavePlayerAndFan(ctx context.Context, p *model.Player, f *model.Fan) error

	// ListFans returns fans filtered by owner. A nil ownerID selects the
	// unowned pool (owner_id IS NULL).
	ListFans(ctx context.Context, ownerID *int64) ([]model.Fan, error)

	// GetProduct loads a catalog product by id. Returns ErrNotFound if absent.
	GetProduct(ctx context.Context, id int64) (*model.Product, error)

	// ListProducts returns the full product catalog.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// ListPlayersByBalanceDesc returns up to limit players ordered by
	// balance descending, ties broken by ascending id.
	ListPlayersByBalanceDesc(ctx context.Context, limit int) ([]model.Player, error)

	// SeedDefaults inserts the given fans and products only when the
	// corresponding tables are still empty.
	SeedDefaults(ctx context.Context, fans []model.Fan, products []model.Product) error

	// Stats returns statistics about the economy database.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
