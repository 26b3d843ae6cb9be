package paperkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// DATA RETRIEVAL
// ============================================================================

// GetIdentity retrieves an identity by id.
func (s *Service) GetIdentity(ctx context.Context, identityID string) (*Identity, error) {
	var identity Identity
	err := dbkit.WithErr1(s.db.NewSelect().Model(&identity).Where("id = ?", identityID).Limit(1).Scan(ctx), "GetIdentity").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrIdentityNotFound, "no such identity").WithIdentity(identityID)
		}
		return nil, err
	}
	return &identity, nil
}

// GetPapers retrieves all papers owned by an identity, valid or not.
// Validity filtering always happens inside ComputeRoles, never here.
func (s *Service) GetPapers(ctx context.Context, identityID string) ([]Paper, error) {
	var papers []Paper
	err := dbkit.WithErr1(s.db.NewSelect().Model(&papers).Where("owner_identity_id = ?", identityID).Order("created_at ASC").Scan(ctx), "GetPapers").Err()
	if err != nil {
		return nil, err
	}
	return papers, nil
}

// GetPaper retrieves a single paper by id.
func (s *Service) GetPaper(ctx context.Context, paperID string) (*Paper, error) {
	var paper Paper
	err := dbkit.WithErr1(s.db.NewSelect().Model(&paper).Where("id = ?", paperID).Limit(1).Scan(ctx), "GetPaper").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrPaperNotFound, "no such paper").WithPaper(paperID)
		}
		return nil, err
	}
	return &paper, nil
}

// GetBusinessRegistrations retrieves the registrations reachable from an
// identity's papers, plus any registration the identity owns. This is the
// registration slice handed to ComputeRoles and ResolveBusiness.
func (s *Service) GetBusinessRegistrations(ctx context.Context, identityID string) ([]BusinessRegistration, error) {
	var regs []BusinessRegistration
	err := dbkit.WithErr1(s.db.NewSelect().Model(&regs).
		Where("owner_identity_id = ? OR id IN (SELECT DISTINCT business_id FROM papers WHERE owner_identity_id = ? AND business_id <> '')",
			identityID, identityID).
		Scan(ctx), "GetBusinessRegistrations").Err()
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// PapersVersion returns a monotonically increasing version of an identity's
// paper set, derived from the papers table itself so that out-of-band
// writes still move it. Cache entries are bound to this value.
func (s *Service) PapersVersion(ctx context.Context, identityID string) (int64, error) {
	var version int64
	err := dbkit.WithErr1(s.db.NewRaw(
		"SELECT COALESCE(MAX(EXTRACT(EPOCH FROM updated_at)::bigint), 0) + COUNT(*) FROM papers WHERE owner_identity_id = ?",
		identityID).Scan(ctx, &version), "PapersVersion").Err()
	if err != nil {
		return 0, err
	}
	return version, nil
}

// ComputeRoles fetches an identity's papers and registrations and derives
// its current role set, consulting the version-keyed cache first.
func (s *Service) ComputeRoles(ctx context.Context, identityID string) (*RoleSet, error) {
	version, err := s.PapersVersion(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(identityID, version); ok {
		return cached, nil
	}

	identity, err := s.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	papers, err := s.GetPapers(ctx, identityID)
	if err != nil {
		return nil, err
	}
	regs, err := s.GetBusinessRegistrations(ctx, identityID)
	if err != nil {
		return nil, err
	}

	roles := ComputeRoles(*identity, papers, regs, s.rules, time.Now())
	set := NewRoleSet(identityID, roles)
	s.cache.Put(identityID, version, set)
	return set, nil
}

// GetChecker creates a Checker for an identity from freshly computed roles.
// This can be stored in context for efficient permission checking in
// handlers.
func (s *Service) GetChecker(ctx context.Context, identityID string) (*Checker, error) {
	roles, err := s.ComputeRoles(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return NewChecker(identityID, roles, s.matrix), nil
}

// GetCheckerFromContext creates a Checker using the identity ID from context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	identityID := GetIdentityID(ctx)
	if identityID == "" {
		return nil, ErrNoIdentityID
	}
	return s.GetChecker(ctx, identityID)
}

// GetBusinessMembers retrieves the papers anchoring identities to a
// business, one per identity/type pair. Useful for listing who works where.
func (s *Service) GetBusinessMembers(ctx context.Context, businessID string) ([]Paper, error) {
	var papers []Paper
	err := dbkit.WithErr1(s.db.NewSelect().Model(&papers).
		Where("business_id = ? AND is_active = TRUE", businessID).
		Order("owner_identity_id ASC", "type ASC").
		Scan(ctx), "GetBusinessMembers").Err()
	if err != nil {
		return nil, err
	}
	return papers, nil
}
