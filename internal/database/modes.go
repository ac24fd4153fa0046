package database

import (
	"context"
	"fmt"

	"github.com/kzboard/kzboard/internal/domain"
)

// Modes returns all supported game modes ordered by mode id
func (r *Repository) Modes(ctx context.Context) ([]domain.Mode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.name, m.short_name
		FROM modes m
		ORDER BY m.mode_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying modes: %w", err)
	}
	defer rows.Close()

	modes := []domain.Mode{}
	for rows.Next() {
		var m domain.Mode
		if err := rows.Scan(&m.Name, &m.ShortName); err != nil {
			return nil, fmt.Errorf("scanning mode: %w", err)
		}
		modes = append(modes, m)
	}
	return modes, rows.Err()
}
