package database

import (
	"context"
	"fmt"

	"github.com/kzboard/kzboard/internal/domain"
)

// kindSQL maps a run kind to the composite index to force and the teleports
// predicate to splice into run queries. Only values from this table are ever
// interpolated into the SQL text; user input is always bound as a parameter.
var kindSQL = [...]struct {
	index     string
	predicate string
}{
	domain.RunKindNub: {"idx_runs__filterid_playerid_ticks_createdat", "1"},
	domain.RunKindPro: {"idx_runs__filterid_tps_playerid_ticks_createdat", "teleports = 0"},
}

// MapTop returns the top runs for a course, one row per player, fastest
// first. Capped at 250 rows.
func (r *Repository) MapTop(ctx context.Context, q domain.MapTopQuery) ([]domain.MapRun, error) {
	kind := kindSQL[q.Kind]
	query := fmt.Sprintf(`
		SELECT r.player_id, p.name AS player_name, t.ticks, r.teleports, r.created_at
		FROM runs r
		USE INDEX(%[1]s)
		INNER JOIN players p ON p.player_id = r.player_id
		INNER JOIN (
			SELECT r.player_id, f.filter_id, MIN(r.ticks) AS ticks
			FROM runs r
			USE INDEX(%[1]s)
			INNER JOIN filters f ON f.filter_id = r.filter_id
			INNER JOIN courses c ON c.course_id = f.course_id
			INNER JOIN maps m ON m.map_id = c.map_id
			INNER JOIN modes m2 ON m2.mode_id = f.mode_id
			WHERE m.name = ? AND c.num = ? AND m2.short_name = ? AND %[2]s
			GROUP BY r.player_id
			ORDER BY ticks ASC
			LIMIT 250
		) t ON t.player_id = r.player_id AND t.filter_id = r.filter_id AND t.ticks = r.ticks
		WHERE %[2]s
		GROUP BY r.player_id
		ORDER BY ticks ASC
	`, kind.index, kind.predicate)

	rows, err := r.db.QueryContext(ctx, query, q.MapName, q.Course, q.Mode)
	if err != nil {
		return nil, fmt.Errorf("querying map top: %w", err)
	}
	defer rows.Close()

	runs := []domain.MapRun{}
	for rows.Next() {
		var run domain.MapRun
		if err := rows.Scan(&run.PlayerID, &run.PlayerName, &run.Ticks, &run.Teleports, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning map top row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CoursePBHistory reconstructs a player's personal-best progression on one
// course, newest improvement first. At most the 2000 fastest distinct times
// are considered.
func (r *Repository) CoursePBHistory(ctx context.Context, q domain.PBHistoryQuery) ([]domain.PBRun, error) {
	kind := kindSQL[q.Kind]
	query := fmt.Sprintf(`
		SELECT r.ticks, r.teleports, r.created_at
		FROM runs r
		USE INDEX(%[1]s)
		INNER JOIN (
			SELECT r.filter_id, r.ticks, MIN(r.created_at) AS created_at
			FROM runs r
			USE INDEX(%[1]s)
			INNER JOIN filters f ON f.filter_id = r.filter_id
			INNER JOIN courses c ON c.course_id = f.course_id
			INNER JOIN maps m ON m.map_id = c.map_id
			INNER JOIN modes m2 ON m2.mode_id = f.mode_id
			WHERE r.player_id = ? AND m.name = ? AND c.num = ? AND m2.short_name = ? AND %[2]s
			GROUP BY r.filter_id, r.ticks
			ORDER BY r.ticks ASC
			LIMIT 2000
		) t ON t.filter_id = r.filter_id AND t.ticks = r.ticks AND t.created_at = r.created_at
		WHERE r.player_id = ? AND %[2]s
		ORDER BY r.created_at ASC
	`, kind.index, kind.predicate)

	rows, err := r.db.QueryContext(ctx, query, q.PlayerID, q.MapName, q.Course, q.Mode, q.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("querying pb history: %w", err)
	}
	defer rows.Close()

	runs := []domain.PBRun{}
	for rows.Next() {
		var run domain.PBRun
		if err := rows.Scan(&run.Ticks, &run.Teleports, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pb history row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pbImprovements(runs), nil
}

// pbImprovements walks runs in chronological order, keeps only those that
// matched or beat the best time seen so far, and returns them newest first.
// Input is deduplicated on ticks, so ties only occur on the first entry.
func pbImprovements(runs []domain.PBRun) []domain.PBRun {
	improvements := []domain.PBRun{}
	for _, run := range runs {
		if len(improvements) == 0 || run.Ticks <= improvements[len(improvements)-1].Ticks {
			improvements = append(improvements, run)
		}
	}
	for i, j := 0, len(improvements)-1; i < j; i, j = i+1, j-1 {
		improvements[i], improvements[j] = improvements[j], improvements[i]
	}
	return improvements
}
