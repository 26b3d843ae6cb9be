package paperkit

import "time"

// AuditLogFilter provides options for filtering paper audit log queries.
type AuditLogFilter struct {
	// Filter by actor who performed the action
	ActorID string

	// Filter by the identity owning the affected paper
	OwnerIdentityID string

	// Filter by a specific paper
	PaperID string

	// Filter by paper type
	PaperType PaperType

	// Filter by business scope
	BusinessID string

	// Filter by action type ("issued", "extended" or "deactivated")
	Action AuditAction

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewAuditLogFilter creates a new AuditLogFilter with default values.
func NewAuditLogFilter() AuditLogFilter {
	return AuditLogFilter{
		Limit: 100,
	}
}

// WithActor sets the actor ID filter.
func (f AuditLogFilter) WithActor(actorID string) AuditLogFilter {
	f.ActorID = actorID
	return f
}

// WithOwner sets the paper owner filter.
func (f AuditLogFilter) WithOwner(identityID string) AuditLogFilter {
	f.OwnerIdentityID = identityID
	return f
}

// WithPaper sets the paper ID filter.
func (f AuditLogFilter) WithPaper(paperID string) AuditLogFilter {
	f.PaperID = paperID
	return f
}

// WithPaperType sets the paper type filter.
func (f AuditLogFilter) WithPaperType(paperType PaperType) AuditLogFilter {
	f.PaperType = paperType
	return f
}

// WithBusiness sets the business scope filter.
func (f AuditLogFilter) WithBusiness(businessID string) AuditLogFilter {
	f.BusinessID = businessID
	return f
}

// WithAction sets the action filter.
func (f AuditLogFilter) WithAction(action AuditAction) AuditLogFilter {
	f.Action = action
	return f
}

// WithTimeRange sets the time range filter.
func (f AuditLogFilter) WithTimeRange(since, until time.Time) AuditLogFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithSince sets the start time filter.
func (f AuditLogFilter) WithSince(since time.Time) AuditLogFilter {
	f.Since = since
	return f
}

// WithUntil sets the end time filter.
func (f AuditLogFilter) WithUntil(until time.Time) AuditLogFilter {
	f.Until = until
	return f
}

// WithLimit sets the limit for results.
func (f AuditLogFilter) WithLimit(limit int) AuditLogFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the offset for pagination.
func (f AuditLogFilter) WithOffset(offset int) AuditLogFilter {
	f.Offset = offset
	return f
}

// WithPagination sets both limit and offset.
func (f AuditLogFilter) WithPagination(limit, offset int) AuditLogFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}
