package workflow

import (
	"context"

	"fixturecal/internal/catalog"
	"fixturecal/internal/logging"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Catalog     catalog.HealthSummary
	LastRefresh *RunRecord
	LastRemind  *RunRecord
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.Lock()
	summary := StatusSummary{}
	if m.lastRefresh != nil {
		record := *m.lastRefresh
		summary.LastRefresh = &record
	}
	if m.lastRemind != nil {
		record := *m.lastRemind
		summary.LastRemind = &record
	}
	m.mu.Unlock()

	health, err := m.store.Health(ctx)
	if err != nil {
		m.logger.Warn("failed to read catalog counts", logging.Error(err))
	} else {
		summary.Catalog = health
	}
	return summary
}
