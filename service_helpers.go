package paperkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func (s *Service) logAudit(ctx context.Context, entry *AuditEntry) error {
	_, err := s.db.NewInsert().Model(entry.ToModel()).Exec(ctx)
	return dbkit.WithErr1(err, "LogAudit").Err()
}

// GetDecisionMetrics returns the current permission decision metrics.
func (s *Service) GetDecisionMetrics() DecisionMetrics {
	return s.monitor.getMetrics()
}

// ResetDecisionMetrics resets all decision metrics.
func (s *Service) ResetDecisionMetrics() {
	s.monitor.reset()
}
