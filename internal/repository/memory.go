package repository

import (
	"context"
	"sort"
	"sync"

	"starclicker-rest-api/internal/model"
)

// MemoryEconomyRepository is an in-memory implementation of
// EconomyRepository. Used in tests and for throwaway local runs; state is
// lost on shutdown.
type MemoryEconomyRepository struct {
	mu       sync.RWMutex
	players  map[int64]model.Player
	fans     map[int64]model.Fan
	products map[int64]model.Product

	nextFanID     int64
	nextProductID int64
}

// NewMemoryEconomyRepository creates an empty in-memory repository.
func NewMemoryEconomyRepository() *MemoryEconomyRepository {
	return &MemoryEconomyRepository{
		players:  make(map[int64]model.Player),
		fans:     make(map[int64]model.Fan),
		products: make(map[int64]model.Product),
	}
}

// GetPlayer loads a player by id.
func (r *MemoryEconomyRepository) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.OwnedFanIDs = append([]int64{}, p.OwnedFanIDs...)
	return &p, nil
}

// CreatePlayer inserts a new player row.
func (r *MemoryEconomyRepository) CreatePlayer(ctx context.Context, p *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = clonePlayer(p)
	return nil
}

// SavePlayer upserts the full player row.
func (r *MemoryEconomyRepository) SavePlayer(ctx context.Context, p *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = clonePlayer(p)
	return nil
}

// GetFan loads a fan by id.
func (r *MemoryEconomyRepository) GetFan(ctx context.Context, id int64) (*model.Fan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.fans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

// SaveFan upserts the full fan row.
func (r *MemoryEconomyRepository) SaveFan(ctx context.Context, f *model.Fan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fans[f.ID] = *f
	return nil
}

// SavePlayerAndFan writes both rows atomically under the store lock.
func (r *MemoryEconomyRepository) SavePlayerAndFan(ctx context.Context, p *model.Player, f *model.Fan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = clonePlayer(p)
	r.fans[f.ID] = *f
	return nil
}

// ListFans returns fans filtered by owner. A nil ownerID selects the unowned pool.
func (r *MemoryEconomyRepository) ListFans(ctx context.Context, ownerID *int64) ([]model.Fan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fans := []model.Fan{}
	for _, f := range r.fans {
		if ownerID == nil {
			if f.OwnerID == nil {
				fans = append(fans, f)
			}
		} else if f.OwnerID != nil && *f.OwnerID == *ownerID {
			fans = append(fans, f)
		}
	}
	sort.Slice(fans, func(i, j int) bool { return fans[i].ID < fans[j].ID })
	return fans, nil
}

// GetProduct loads a catalog product by id.
func (r *MemoryEconomyRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// ListProducts returns the full product catalog.
func (r *MemoryEconomyRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []model.Product{}
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// ListPlayersByBalanceDesc returns up to limit players ordered by balance.
func (r *MemoryEconomyRepository) ListPlayersByBalanceDesc(ctx context.Context, limit int) ([]model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := []model.Player{}
	for _, p := range r.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Balance != players[j].Balance {
			return players[i].Balance > players[j].Balance
		}
		return players[i].ID < players[j].ID
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// SeedDefaults inserts fans and products only when the store is still empty.
func (r *MemoryEconomyRepository) SeedDefaults(ctx context.Context, fans []model.Fan, products []model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.fans) == 0 {
		for _, f := range fans {
			r.nextFanID++
			f.ID = r.nextFanID
			r.fans[f.ID] = f
		}
	}
	if len(r.products) == 0 {
		for _, p := range products {
			r.nextProductID++
			p.ID = r.nextProductID
			r.products[p.ID] = p
		}
	}
	return nil
}

// Stats returns statistics about the in-memory store.
func (r *MemoryEconomyRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned, available int64
	for _, f := range r.fans {
		if f.OwnerID != nil {
			owned++
		} else {
			available++
		}
	}
	var circulation int64
	for _, p := range r.players {
		circulation += p.Balance
	}

	return map[string]interface{}{
		"total_players":           int64(len(r.players)),
		"fans_owned":              owned,
		"fans_available":          available,
		"total_products":          int64(len(r.products)),
		"currency_in_circulation": circulation,
	}, nil
}

// Close is a no-op for the in-memory store.
func (r *MemoryEconomyRepository) Close() error {
	return nil
}

// clonePlayer deep-copies the owned-fan list so callers cannot alias
// stored state.
func clonePlayer(p *model.Player) model.Player {
	copied := *p
	copied.OwnedFanIDs = append([]int64{}, p.OwnedFanIDs...)
	return copied
}

// Ensure MemoryEconomyRepository implements EconomyRepository
var _ EconomyRepository = (*MemoryEconomyRepository)(nil)
