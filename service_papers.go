package paperkit

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PAPER LIFECYCLE
// ============================================================================

// IssuePaper records a newly issued paper. Type and owner are fixed at
// issuance; only the validity window and the active flag can change later.
// The owner's cached role set is invalidated and the issuance is audited.
//
// Example:
//
//	err := service.IssuePaper(ctx, &paperkit.Paper{
//	    Type:            paperkit.PaperEmploymentContract,
//	    OwnerIdentityID: identityID,
//	    BusinessID:      businessID,
//	    ValidFrom:       time.Now(),
//	    IsActive:        true,
//	})
func (s *Service) IssuePaper(ctx context.Context, paper *Paper) error {
	if !paper.Type.IsValid() {
		return NewError(ErrInvalidRule, "unknown paper type").WithPaper(paper.ID)
	}

	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required for paper issuance")
	}

	owner, err := s.GetIdentity(ctx, paper.OwnerIdentityID)
	if err != nil {
		return err
	}
	// Corporate identities cannot be party to an employment relationship
	// in their own name.
	if owner.Kind == IdentityCorporate && paper.Type.IsEmploymentClass() {
		return NewError(ErrCorporateEmployment, "issue the paper to the linked personal identity instead").
			WithIdentity(owner.ID).
			WithActor(actorID)
	}

	if paper.ValidFrom.IsZero() {
		paper.ValidFrom = time.Now()
	}

	result, err := s.db.NewInsert().Model(paper).Exec(ctx)
	err = dbkit.WithErr(result, err, "IssuePaper").Err()
	if err != nil {
		return NewError(ErrDatabaseError, "failed to issue paper").
			WithIdentity(paper.OwnerIdentityID).
			WithBusiness(paper.BusinessID)
	}

	s.cache.Invalidate(paper.OwnerIdentityID)

	audit := GetAuditContext(ctx)
	entry := &AuditEntry{
		ActorID:         actorID,
		Action:          AuditActionIssued,
		PaperID:         paper.ID,
		PaperType:       paper.Type,
		OwnerIdentityID: paper.OwnerIdentityID,
		BusinessID:      paper.BusinessID,
		NewValidUntil:   paper.ValidUntil,
		IPAddress:       audit.IPAddress,
		UserAgent:       audit.UserAgent,
		RequestID:       audit.RequestID,
	}
	_ = s.logAudit(ctx, entry) // Log error but don't fail the issuance

	return nil
}

// ExtendPaper pushes a paper's validity end forward. Shortening is not an
// extension: the new end must lie strictly after the current one, and an
// open-ended paper cannot be given an end through this path at all.
func (s *Service) ExtendPaper(ctx context.Context, paperID string, until time.Time) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required for paper extension")
	}

	paper, err := s.GetPaper(ctx, paperID)
	if err != nil {
		return err
	}
	if !paper.IsActive {
		return NewError(ErrPaperInactive, "cannot extend a deactivated paper").WithPaper(paperID)
	}
	if paper.ValidUntil == nil || !until.After(*paper.ValidUntil) {
		return NewError(ErrValidityNotExtended, "new end must be after the current end").
			WithPaper(paperID).
			WithActor(actorID)
	}

	result, err := s.db.NewUpdate().Table("papers").
		Set("valid_until = ?", until).
		Set("updated_at = current_timestamp").
		Where("id = ?", paperID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "ExtendPaper").Err()
	if err != nil {
		return NewError(ErrDatabaseError, "failed to extend paper").WithPaper(paperID)
	}

	s.cache.Invalidate(paper.OwnerIdentityID)

	audit := GetAuditContext(ctx)
	entry := &AuditEntry{
		ActorID:            actorID,
		Action:             AuditActionExtended,
		PaperID:            paper.ID,
		PaperType:          paper.Type,
		OwnerIdentityID:    paper.OwnerIdentityID,
		BusinessID:         paper.BusinessID,
		PreviousValidUntil: paper.ValidUntil,
		NewValidUntil:      &until,
		IPAddress:          audit.IPAddress,
		UserAgent:          audit.UserAgent,
		RequestID:          audit.RequestID,
	}
	_ = s.logAudit(ctx, entry) // Log error but don't fail the extension

	return nil
}

// DeactivatePaper revokes a paper. Every role derived from it disappears on
// the next computation; the cache invalidation makes that immediate.
func (s *Service) DeactivatePaper(ctx context.Context, paperID string) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required for paper deactivation")
	}

	paper, err := s.GetPaper(ctx, paperID)
	if err != nil {
		return err
	}
	if !paper.IsActive {
		return NewError(ErrPaperInactive, "paper is already deactivated").WithPaper(paperID)
	}

	result, err := s.db.NewUpdate().Table("papers").
		Set("is_active = FALSE").
		Set("updated_at = current_timestamp").
		Where("id = ?", paperID).
		Exec(ctx)
	err = dbkit.WithErr(result, err, "DeactivatePaper").Err()
	if err != nil {
		return NewError(ErrDatabaseError, "failed to deactivate paper").WithPaper(paperID)
	}

	s.cache.Invalidate(paper.OwnerIdentityID)

	audit := GetAuditContext(ctx)
	entry := &AuditEntry{
		ActorID:            actorID,
		Action:             AuditActionDeactivated,
		PaperID:            paper.ID,
		PaperType:          paper.Type,
		OwnerIdentityID:    paper.OwnerIdentityID,
		BusinessID:         paper.BusinessID,
		PreviousValidUntil: paper.ValidUntil,
		IPAddress:          audit.IPAddress,
		UserAgent:          audit.UserAgent,
		RequestID:          audit.RequestID,
	}
	_ = s.logAudit(ctx, entry) // Log error but don't fail the deactivation

	return nil
}

// IssueMultiple issues a batch of papers in a single transaction. Used by
// onboarding flows that hand out several documents at once.
func (s *Service) IssueMultiple(ctx context.Context, papers []*Paper) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required for paper issuance")
	}

	return s.Transaction(ctx, func(ctx context.Context) error {
		owners := make(map[string]*Identity)
		for _, paper := range papers {
			if !paper.Type.IsValid() {
				return NewError(ErrInvalidRule, "unknown paper type").WithPaper(paper.ID)
			}
			owner, ok := owners[paper.OwnerIdentityID]
			if !ok {
				var err error
				owner, err = s.GetIdentity(ctx, paper.OwnerIdentityID)
				if err != nil {
					return err
				}
				owners[paper.OwnerIdentityID] = owner
			}
			if owner.Kind == IdentityCorporate && paper.Type.IsEmploymentClass() {
				return NewError(ErrCorporateEmployment, "issue the paper to the linked personal identity instead").
					WithIdentity(owner.ID)
			}
			if paper.ValidFrom.IsZero() {
				paper.ValidFrom = time.Now()
			}
		}

		_, err := dbkit.BatchInsert(ctx, s.db, papers, dbkit.BatchSize)
		err = dbkit.WithErr1(err, "IssueMultiple").Err()
		if err != nil {
			return NewError(ErrDatabaseError, "failed to batch issue papers")
		}

		audit := GetAuditContext(ctx)
		for _, paper := range papers {
			s.cache.Invalidate(paper.OwnerIdentityID)
			_ = s.logAudit(ctx, &AuditEntry{
				ActorID:         actorID,
				Action:          AuditActionIssued,
				PaperID:         paper.ID,
				PaperType:       paper.Type,
				OwnerIdentityID: paper.OwnerIdentityID,
				BusinessID:      paper.BusinessID,
				NewValidUntil:   paper.ValidUntil,
				IPAddress:       audit.IPAddress,
				UserAgent:       audit.UserAgent,
				RequestID:       audit.RequestID,
			})
		}

		return nil
	})
}

// CheckPaperExists reports whether an identity owns an active paper of a
// type in a business scope. More efficient than GetPapers when only
// existence matters.
func (s *Service) CheckPaperExists(ctx context.Context, identityID string, paperType PaperType, businessID string) bool {
	exists, err := dbkit.Exists[Paper](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_identity_id = ? AND type = ? AND business_id = ? AND is_active = TRUE",
			identityID, paperType, businessID)
	})
	if err != nil {
		return false
	}
	return exists
}

// CountPapers returns the number of active papers an identity owns.
func (s *Service) CountPapers(ctx context.Context, identityID string) (int, error) {
	return dbkit.Count[Paper](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_identity_id = ? AND is_active = TRUE", identityID)
	})
}
