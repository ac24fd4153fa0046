package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/kzboard/kzboard/internal/domain"
)

// mapProjection is the shared SELECT shape for map rows. Courses and
// mappers come back as JSON aggregates and are decoded on scan.
const mapProjection = `
	SELECT m.name, m.created_at,
		CASE WHEN c.num IS NULL
			THEN JSON_ARRAY()
			ELSE JSON_ARRAYAGG(DISTINCT JSON_OBJECT(
				'course', c.num,
				'nub_tier', f.nub_tier,
				'pro_tier', f.pro_tier
			) ORDER BY c.num ASC)
		END AS courses,
		CASE WHEN ma.mapper_id IS NULL
			THEN JSON_ARRAY()
			ELSE JSON_ARRAYAGG(DISTINCT JSON_OBJECT(
				'id', p.player_id,
				'name', p.name
			))
		END AS mappers
	FROM maps m
	LEFT JOIN mappers ma ON ma.map_id = m.map_id
	LEFT JOIN players p ON p.player_id = ma.player_id
	INNER JOIN courses c ON c.map_id = m.map_id
	INNER JOIN modes m2 ON m2.short_name = ?
	INNER JOIN filters f ON f.course_id = c.course_id AND f.mode_id = m2.mode_id
`

// Map fetches a single map by name, with tiers joined for the given mode
func (r *Repository) Map(ctx context.Context, mode, name string) (*domain.Map, error) {
	row := r.db.QueryRowContext(ctx, mapProjection+`
		WHERE m.name = ?
		GROUP BY m.map_id
	`, mode, name)

	m, err := scanMap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying map: %w", err)
	}
	return m, nil
}

// Maps lists all validated maps ordered by name, with tiers joined for the
// given mode
func (r *Repository) Maps(ctx context.Context, mode string) ([]domain.Map, error) {
	rows, err := r.db.QueryContext(ctx, mapProjection+`
		WHERE m.validated
		GROUP BY m.map_id
		ORDER BY m.name
	`, mode)
	if err != nil {
		return nil, fmt.Errorf("querying maps: %w", err)
	}
	defer rows.Close()
	return scanMaps(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMap(row rowScanner) (*domain.Map, error) {
	var m domain.Map
	var courses, mappers []byte
	if err := row.Scan(&m.Name, &m.CreatedAt, &courses, &mappers); err != nil {
		return nil, err
	}
	if err := decodeMapAggregates(&m, courses, mappers); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMaps(rows *sql.Rows) ([]domain.Map, error) {
	maps := []domain.Map{}
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning map: %w", err)
		}
		maps = append(maps, *m)
	}
	return maps, rows.Err()
}

func decodeMapAggregates(m *domain.Map, courses, mappers []byte) error {
	if err := json.Unmarshal(courses, &m.Courses); err != nil {
		return fmt.Errorf("decoding courses: %w", err)
	}
	if err := json.Unmarshal(mappers, &m.Mappers); err != nil {
		return fmt.Errorf("decoding mappers: %w", err)
	}
	if m.Courses == nil {
		m.Courses = []domain.MapCourse{}
	}
	if m.Mappers == nil {
		m.Mappers = []domain.MapMapper{}
	}
	return nil
}
