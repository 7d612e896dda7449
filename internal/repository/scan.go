package repository

import (
	"context"
	"database/sql"
	"fmt"

	"starclicker-rest-api/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx, so row writers can run
// standalone or inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ownerIDValue converts an optional owner reference into a driver value.
func ownerIDValue(ownerID *int64) interface{} {
	if ownerID == nil {
		return nil
	}
	return *ownerID
}

// scanFans reads fan rows in column order (id, owner_id, name, photo_url, price, income).
func scanFans(rows *sql.Rows) ([]model.Fan, error) {
	fans := []model.Fan{}
	for rows.Next() {
		var f model.Fan
		var ownerID sql.NullInt64
		if err := rows.Scan(&f.ID, &ownerID, &f.Name, &f.PhotoURL, &f.Price, &f.Income); err != nil {
			return nil, fmt.Errorf("failed to scan fan: %w", err)
		}
		if ownerID.Valid {
			f.OwnerID = &ownerID.Int64
		}
		fans = append(fans, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fans: %w", err)
	}
	return fans, nil
}

// scanProducts reads product rows in column order (id, name, price, image_url, description).
func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// scanPlayers reads player rows in column order
// (id, username, first_name, last_name, photo_url, balance, owned_fan_ids).
func scanPlayers(rows *sql.Rows) ([]model.Player, error) {
	players := []model.Player{}
	for rows.Next() {
		var p model.Player
		var rawFanIDs string
		if err := rows.Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.PhotoURL, &p.Balance, &rawFanIDs); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		decoded, err := decodeFanIDs(rawFanIDs)
		if err != nil {
			return nil, err
		}
		p.OwnedFanIDs = decoded
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}
	return players, nil
}
