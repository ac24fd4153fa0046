package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kzboard/kzboard/internal/domain"
)

// ServerByToken authenticates a game server by its opaque token
func (r *Repository) ServerByToken(ctx context.Context, token string) (*domain.Server, error) {
	var server domain.Server
	err := r.db.QueryRowContext(ctx, `
		SELECT s.server_id AS id
		FROM servers s
		WHERE s.token = ?
		LIMIT 1
	`, token).Scan(&server.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrServerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying server token: %w", err)
	}
	return &server, nil
}
