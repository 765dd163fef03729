package db

import (
	"database/sql"
	"fmt"
	"time"
)

// StoredToken is an access token persisted for a collaborator service
// (e.g. the account login flow).
type StoredToken struct {
	ServiceID string
	Token     string
	UpdatedAt time.Time
}

// SaveToken saves or updates a token for a service
func (d *DB) SaveToken(serviceID, token string) error {
	_, err := d.Exec(`
        INSERT INTO auth_tokens (service_id, token_data, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(service_id) DO UPDATE SET
            token_data = excluded.token_data,
            updated_at = CURRENT_TIMESTAMP
    `, serviceID, token)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// GetToken retrieves a token for a service. Returns nil when absent.
func (d *DB) GetToken(serviceID string) (*StoredToken, error) {
	var token StoredToken
	err := d.QueryRow(`
        SELECT service_id, token_data, updated_at
        FROM auth_tokens
        WHERE service_id = ?
    `, serviceID).Scan(&token.ServiceID, &token.Token, &token.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return &token, nil
}

// DeleteToken removes a token for a service
func (d *DB) DeleteToken(serviceID string) error {
	_, err := d.Exec("DELETE FROM auth_tokens WHERE service_id = ?", serviceID)
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
