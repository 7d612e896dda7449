package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"starclicker-rest-api/internal/model"
)

// MySQLEconomyRepository implements EconomyRepository using MySQL.
// The caller owns the *sql.DB and its pool settings.
type MySQLEconomyRepository struct {
	db *sql.DB
}

// NewMySQLEconomyRepository creates a new MySQL economy repository.
func NewMySQLEconomyRepository(db *sql.DB) (*MySQLEconomyRepository, error) {
	if err := createMySQLTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	log.Printf("[MySQLEconomyRepository] Initialized")
	return &MySQLEconomyRepository{db: db}, nil
}

// createMySQLTables creates the players, fans and products tables.
// MySQL rejects multiple statements in one Exec, so each runs on its own.
func createMySQLTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL DEFAULT '',
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			photo_url TEXT,
			balance BIGINT NOT NULL DEFAULT 1000,
			owned_fan_ids TEXT,
			INDEX idx_players_balance (balance)
		)`,
		`CREATE TABLE IF NOT EXISTS fans (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			owner_id BIGINT NULL,
			name VARCHAR(255) NOT NULL,
			photo_url TEXT,
			price BIGINT NOT NULL DEFAULT 100,
			income BIGINT NOT NULL DEFAULT 10,
			INDEX idx_fans_owner (owner_id)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price BIGINT NOT NULL,
			image_url TEXT,
			description TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetPlayer loads a player by id.
func (r *MySQLEconomyRepository) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	query := `SELECT id, username, first_name, last_name, COALESCE(photo_url, ''), balance, COALESCE(owned_fan_ids, '[]')
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
func (r *MySQLEconomyRepository) CreatePlayer(ctx context.Context, p *model.Player) error {
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
func (r *MySQLEconomyRepository) SavePlayer(ctx context.Context, p *model.Player) error {
	return mysqlSavePlayer(ctx, r.db, p)
}

// mysqlSavePlayer writes a player row using either the pool or an open transaction.
func mysqlSavePlayer(ctx context.Context, ex execer, p *model.Player) error {
	rawFanIDs, err := encodeFanIDs(p.OwnedFanIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO players (id, username, first_name, last_name, photo_url, balance, owned_fan_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			username = VALUES(username),
			first_name = VALUES(first_name),
			last_name = VALUES(last_name),
			photo_url = VALUES(photo_url),
			balance = VALUES(balance),
			owned_fan_ids = VALUES(owned_fan_ids)`

	_, err = ex.ExecContext(ctx, query,
		p.ID, p.Username, p.FirstName, p.LastName, p.PhotoURL, p.Balance, rawFanIDs)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// GetFan loads a fan by id.
func (r *MySQLEconomyRepository) GetFan(ctx context.Context, id int64) (*model.Fan, error) {
	query := `SELECT id, owner_id, name, COALESCE(photo_url, ''), price, income FROM fans WHERE id = ?`

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
func (r *MySQLEconomyRepository) SaveFan(ctx context.Context, f *model.Fan) error {
	return mysqlSaveFan(ctx, r.db, f)
}

// mysqlSaveFan writes a fan row using either the pool or an open transaction.
func mysqlSaveFan(ctx context.Context, ex execer, f *model.Fan) error {
	query := `
		INSERT INTO fans (id, owner_id, name, photo_url, price, income)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			owner_id = VALUES(owner_id),
			name = VALUES(name),
			photo_url = VALUES(photo_url),
			price = VALUES(price),
			income = VALUES(income)`

	_, err := ex.ExecContext(ctx, query,
		f.ID, ownerIDValue(f.OwnerID), f.Name, f.PhotoURL, f.Price, f.Income)
	if err != nil {
		return fmt.Errorf("failed to save fan: %w", err)
	}
	return nil
}

// SavePlayerAndFan writes both rows in a single transaction.
func (r *MySQLEconomyRepository) SavePlayerAndFan(ctx context.Context, p *model.Player, f *model.Fan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := mysqlSavePlayer(ctx, tx, p); err != nil {
		return err
	}
	if err := mysqlSaveFan(ctx, tx, f); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListFans returns fans filtered by owner. A nil ownerID selects the unowned pool.
func (r *MySQLEconomyRepository) ListFans(ctx context.Context, ownerID *int64) ([]model.Fan, error) {
	query := `SELECT id, owner_id, name, COALESCE(photo_url, ''), price, income FROM fans WHERE owner_id IS NULL ORDER BY id`
	args := []interface{}{}
	if ownerID != nil {
		query = `SELECT id, owner_id, name, COALESCE(photo_url, ''), price, income FROM fans WHERE owner_id = ? ORDER BY id`
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
func (r *MySQLEconomyRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT id, name, price, COALESCE(image_url, ''), COALESCE(description, '') FROM products WHERE id = ?`

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
func (r *MySQLEconomyRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, COALESCE(image_url, ''), COALESCE(description, '') FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListPlayersByBalanceDesc returns up to limit players ordered by balance.
func (r *MySQLEconomyRepository) ListPlayersByBalanceDesc(ctx context.Context, limit int) ([]model.Player, error) {
	query := `SELECT id, username, first_name, last_name, COALESCE(photo_url, ''), balance, COALESCE(owned_fan_ids, '[]')
		FROM players ORDER BY balance DESC, id ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// SeedDefaults inserts fans and products only into still-empty tables.
func (r *MySQLEconomyRepository) SeedDefaults(ctx context.Context, fans []model.Fan, products []model.Product) error {
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
		log.Printf("[MySQLEconomyRepository] Seeded defaults (fans: %d, products: %d)", len(fans), len(products))
	}
	return nil
}

// Stats returns statistics about the economy database.
func (r *MySQLEconomyRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
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

	return stats, nil
}

// Close closes the database connection.
func (r *MySQLEconomyRepository) Close() error {
	return r.db.Close()
}

// Ensure MySQLEconomyRepository implements EconomyRepository
var _ EconomyRepository = (*MySQLEconomyRepository)(nil)
