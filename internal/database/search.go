package database

import (
	"context"
	"fmt"

	"github.com/kzboard/kzboard/internal/domain"
)

// SearchPlayers matches a sanitized boolean-mode query against player
// names, ranked by search relevance. Limit 20.
func (r *Repository) SearchPlayers(ctx context.Context, query string) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.player_id AS id, p.name
		FROM players p
		WHERE MATCH(p.name) AGAINST (? IN BOOLEAN MODE)
		ORDER BY p.search_relevance DESC
		LIMIT 20
	`, query)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SearchMaps matches a sanitized boolean-mode query against map search
// tags. A derived table scores the 20 best matches, then the outer query
// joins courses, filters for the requested mode, and mappers into the
// usual map shape.
func (r *Repository) SearchMaps(ctx context.Context, query, mode string) ([]domain.Map, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.name, m.created_at,
			CASE WHEN c.num IS NULL
				THEN JSON_ARRAY()
				ELSE JSON_ARRAYAGG(DISTINCT JSON_OBJECT(
					'course', c.num,
					'nub_tier', f.nub_tier,
					'pro_tier', f.pro_tier
				))
			END AS courses,
			CASE WHEN ma.mapper_id IS NULL
				THEN JSON_ARRAY()
				ELSE JSON_ARRAYAGG(DISTINCT JSON_OBJECT(
					'id', p.player_id,
					'name', p.name
				))
			END AS mappers
		FROM maps m
		INNER JOIN (
			SELECT MATCH(m.search_tags) AGAINST (? IN BOOLEAN MODE) AS score, m.map_id
			FROM maps m
			ORDER BY score DESC
			LIMIT 20
		) s ON s.map_id = m.map_id
		LEFT JOIN mappers ma ON ma.map_id = m.map_id
		LEFT JOIN players p ON p.player_id = ma.player_id
		INNER JOIN courses c ON c.map_id = m.map_id
		INNER JOIN modes m2 ON m2.short_name = ?
		INNER JOIN filters f ON f.course_id = c.course_id AND f.mode_id = m2.mode_id
		WHERE s.score > 0
		GROUP BY m.map_id
		ORDER BY s.score DESC
	`, query, mode)
	if err != nil {
		return nil, fmt.Errorf("searching maps: %w", err)
	}
	defer rows.Close()
	return scanMaps(rows)
}
