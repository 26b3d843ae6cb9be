package paperkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Service wires the pure decision core to the paper store. It fetches
// papers and business registrations through dbkit, computes roles with
// ComputeRoles, evaluates permissions against the static matrix and keeps a
// version-keyed cache of computed role sets.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Decision outcomes, including
// denials, are values; errors surface only for store failures and broken
// configuration.
//
// Example error handling:
//
//	result, err := service.CheckPermission(ctx, identityID, "attendance", "approve", businessID, nil)
//	if err != nil {
//	    // Store failure, not a denial
//	    var dbErr *dbkit.Error
//	    if errors.As(err, &dbErr) {
//	        fmt.Printf("Operation: %s, Table: %s\n", dbErr.Operation, dbErr.Table)
//	    }
//	    return err
//	}
//	if !result.Granted {
//	    // Branch on result.Code, render result.Reason
//	}
type Service struct {
	db      dbkit.IDB
	rules   *Rules
	matrix  *Matrix
	cache   *RoleCache
	monitor *decisionMonitor
}

// NewService creates a new PaperKit service. The rule table and matrix are
// validated here; a malformed table is a deployment bug and aborts startup.
//
// Example:
//
//	rules := paperkit.DefaultRules()
//	matrix := paperkit.DefaultMatrix()
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := paperkit.NewService(rules, matrix, db)
func NewService(rules *Rules, matrix *Matrix, db dbkit.IDB) *Service {
	rules.MustValidate()
	matrix.MustValidate()
	return &Service{
		db:      db,
		rules:   rules,
		matrix:  matrix,
		cache:   NewRoleCache(),
		monitor: newDecisionMonitor(),
	}
}

// Rules returns the derivation rule table.
func (s *Service) Rules() *Rules {
	return s.rules
}

// Matrix returns the permission matrix.
func (s *Service) Matrix() *Matrix {
	return s.matrix
}

// Cache returns the computed-role cache, mainly for monitoring.
func (s *Service) Cache() *RoleCache {
	return s.cache
}

// ============================================================================
// AUDIT LOG
// ============================================================================

// GetAuditLog retrieves paper audit log entries with optional filters.
func (s *Service) GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]PaperAuditLog, error) {
	var logs []PaperAuditLog
	q := s.db.NewSelect().Model(&logs)
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.OwnerIdentityID != "" {
		q = q.Where("owner_identity_id = ?", filter.OwnerIdentityID)
	}
	if filter.PaperID != "" {
		q = q.Where("paper_id = ?", filter.PaperID)
	}
	if filter.PaperType != "" {
		q = q.Where("paper_type = ?", filter.PaperType)
	}
	if filter.BusinessID != "" {
		q = q.Where("business_id = ?", filter.BusinessID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("timestamp DESC")
	err := dbkit.WithErr1(q.Scan(ctx), "GetAuditLog").Err()
	if err != nil {
		return nil, err
	}

	return logs, nil
}
