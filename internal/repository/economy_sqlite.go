package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"starclicker-rest-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteEconomyRepository implements EconomyRepository using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteEconomyRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteEconomyRepository creates a new SQLite economy repository.
// dbPath is the path to the SQLite database file (e.g., "./data/economy.db")
func NewSQLiteEconomyRepository(dbPath string) (*SQLiteEconomyRepository, error) {
	// Open with WAL mode and other optimizations
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteEconomyRepository] Initialized with database: %s", dbPath)
	return &SQLiteEconomyRepository{db: db}, nil
}

// createSQLiteTables creates the players, fans and products tables.
func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		balance INTEGER NOT NULL DEFAULT 1000,
		owned_fan_ids TEXT NOT NULL DEFAULT '[]'
	);
	CREATE TABLE IF NOT EXISTS fans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER,
		name TEXT NOT NULL,
		photo_url TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL DEFAULT 100,
		income INTEGER NOT NULL DEFAULT 10,
		FOREIGN KEY (owner_id) REFERENCES players (id)
	);
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_fans_owner ON fans(owner_id);
	CREATE INDEX IF NOT EXISTS idx_players_balance ON players(balance);
	`
	_, err := db.Exec(query)
	return err
}

// GetPlayer loads a player by id.
func (r *SQLiteEconomyRepository) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, username, first_name, last_name, photo_url, balance, owned_fan_ids
		FROM players WHERE id = ?`

	var p model.Player
	var rawFanIDs string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.PhotoURL, &p.Balance, &rawFanIDs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if p.OwnedFanIDs, err = decodeFanIDs(rawFanIDs); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlayer inserts a new player row.
func (r *SQLiteEconomyRepository) CreatePlayer(ctx context.Context, p *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rawFanIDs, err := encodeFanIDs(p.OwnedFanIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO players (id, username, first_name, last_name, photo_url, balance, owned_fan_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.PhotoURL, p.Balance, rawFanIDs)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// SavePlayer upserts the full player row.
func (r *SQLiteEconomyRepository) SavePlayer(ctx context.Context, p *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sqliteSavePlayer(ctx, r.db, p)
}

// sqliteSavePlayer writes a player row using either the pool or an open transaction.
func sqliteSavePlayer(ctx context.Context, ex execer, p *model.Player) error {
	rawFanIDs, err := encodeFanIDs(p.OwnedFanIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO players (id, username, first_name, last_name, photo_url, balance, owned_fan_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			photo_url = excluded.photo_url,
			balance = excluded.balance,
			owned_fan_ids = excluded.owned_fan_ids`

	_, err = ex.ExecContext(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.PhotoURL, p.Balance, rawFanIDs)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// GetFan loads a fan by id.
func (r *SQLiteEconomyRepository) GetFan(ctx context.Context, id int64) (*model.Fan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, owner_id, name, photo_url, price, income FROM fans WHERE id = ?`

	var f model.Fan
	var ownerID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &ownerID, &f.Name, &f.PhotoURL, &f.Price, &f.Income)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fan: %w", err)
	}

	if ownerID.Valid {
		f.OwnerID = &ownerID.Int64
	}
	return &f, nil
}

// SaveFan upserts the full fan row.
func (r *SQLiteEconomyRepository) SaveFan(ctx context.Context, f *model.Fan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sqliteSaveFan(ctx, r.db, f)
}

// sqliteSaveFan writes a fan row using either the pool or an open transaction.
func sqliteSaveFan(ctx context.Context, ex execer, f *model.Fan) error {
	query := `
		INSERT INTO fans (id, owner_id, name, photo_url, price, income)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			photo_url = excluded.photo_url,
			price = excluded.price,
			income = excluded.income`

	_, err := ex.ExecContext(ctx, query,
		f.ID, ownerIDValue(f.OwnerID), f.Name, f.PhotoURL, f.Price, f.Income)
	if err != nil {
		return fmt.Errorf("failed to save fan: %w", err)
	}
	return nil
}

// SavePlayerAndFan writes both rows in a single transaction.
func (r *SQLiteEconomyRepository) SavePlayerAndFan(ctx context.Context, p *model.Player, f *model.Fan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := sqliteSavePlayer(ctx, tx, p); err != nil {
		return err
	}
	if err := sqliteSaveFan(ctx, tx, f); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListFans returns fans filtered by owner. A nil ownerID selects the unowned pool.
func (r *SQLiteEconomyRepository) ListFans(ctx context.Context, ownerID *int64) ([]model.Fan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, owner_id, name, photo_url, price, income FROM fans WHERE owner_id IS NULL ORDER BY id`
	args := []interface{}{}
	if ownerID != nil {
		query = `SELECT id, owner_id, name, photo_url, price, income FROM fans WHERE owner_id = ? ORDER BY id`
		args = append(args, *ownerID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fans: %w", err)
	}
	defer rows.Close()

	return scanFans(rows)
}

// GetProduct loads a catalog product by id.
func (r *SQLiteEconomyRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, name, price, image_url, description FROM products WHERE id = ?`

	var p model.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// ListProducts returns the full product catalog.
func (r *SQLiteEconomyRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, image_url, description FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListPlayersByBalanceDesc returns up to limit players ordered by balance.
func (r *SQLiteEconomyRepository) ListPlayersByBalanceDesc(ctx context.Context, limit int) ([]model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, username, first_name, last_name, photo_url, balance, owned_fan_ids
		FROM players ORDER BY balance DESC, id ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// SeedDefaults inserts fans and products only into still-empty tables.
func (r *SQLiteEconomyRepository) SeedDefaults(ctx context.Context, fans []model.Fan, products []model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var fanCount int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM fans`).Scan(&fanCount); err != nil {
		return fmt.Errorf("failed to count fans: %w", err)
	}
	if fanCount == 0 {
		for _, f := range fans {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO fans (owner_id, name, photo_url, price, income) VALUES (?, ?, ?, ?, ?)`,
				ownerIDValue(f.OwnerID), f.Name, f.PhotoURL, f.Price, f.Income)
			if err != nil {
				return fmt.Errorf("failed to seed fan %s: %w", f.Name, err)
			}
		}
	}

	var productCount int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&productCount); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount == 0 {
		for _, p := range products {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO products (name, price, image_url, description) VALUES (?, ?, ?, ?)`,
				p.Name, p.Price, p.ImageURL, p.Description)
			if err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if fanCount == 0 || productCount == 0 {
		log.Printf("[SQLiteEconomyRepository] Seeded defaults (fans: %d, products: %d)", len(fans), len(products))
	}
	return nil
}

// Stats returns statistics about the economy database.
func (r *SQLiteEconomyRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]interface{})

	var players, fansOwned, fansAvailable, products int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&players); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fans WHERE owner_id IS NOT NULL`).Scan(&fansOwned); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fans WHERE owner_id IS NULL`).Scan(&fansAvailable); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&products); err != nil {
		return nil, err
	}
	stats["total_players"] = players
	stats["fans_owned"] = fansOwned
	stats["fans_available"] = fansAvailable
	stats["total_products"] = products

	var totalBalance sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT SUM(balance) FROM players`).Scan(&totalBalance); err == nil && totalBalance.Valid {
		stats["currency_in_circulation"] = totalBalance.Int64
	}

	// Database file size (approximate from page count)
	var pageCount, pageSize int64
	r.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	r.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
	stats["db_size_bytes"] = pageCount * pageSize

	return stats, nil
}

// Close closes the database connection.
func (r *SQLiteEconomyRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteEconomyRepository implements EconomyRepository
var _ EconomyRepository = (*SQLiteEconomyRepository)(nil)
