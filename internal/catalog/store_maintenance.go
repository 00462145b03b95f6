package catalog

import (
	"context"
	"fmt"
)

// Health returns aggregate row counts for the catalog.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	ctx = ensureContext(ctx)
	var summary HealthSummary
	counts := []struct {
		table string
		dest  *int
	}{
		{"league_group", &summary.Groups},
		{"league", &summary.Leagues},
		{"team", &summary.Teams},
		{"venue", &summary.Venues},
		{"fixture", &summary.Fixtures},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return HealthSummary{}, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return summary, nil
}

// Clear removes every row from the catalog, keeping the schema in place.
func (s *Store) Clear(ctx context.Context) error {
	ctx = ensureContext(ctx)
	tables := []string{"fixture", "league", "venue", "team", "league_group"}
	for _, table := range tables {
		if _, err := s.execWithRetry(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
