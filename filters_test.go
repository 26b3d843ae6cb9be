package paperkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNewAuditLogFilter validates the defaults.
func TestNewAuditLogFilter(t *testing.T) {
	f := NewAuditLogFilter()
	assert.Equal(t, 100, f.Limit)
	assert.Zero(t, f.Offset)
	assert.Empty(t, f.ActorID)
	assert.True(t, f.Since.IsZero())
}

// TestAuditLogFilterFluentAPI validates the chainable setters.
func TestAuditLogFilterFluentAPI(t *testing.T) {
	since := time.Now().Add(-24 * time.Hour)
	until := time.Now()

	f := NewAuditLogFilter().
		WithActor("admin-1").
		WithOwner("alice").
		WithPaper("paper-1").
		WithPaperType(PaperEmploymentContract).
		WithBusiness("biz-1").
		WithAction(AuditActionIssued).
		WithTimeRange(since, until).
		WithPagination(50, 10)

	assert.Equal(t, "admin-1", f.ActorID)
	assert.Equal(t, "alice", f.OwnerIdentityID)
	assert.Equal(t, "paper-1", f.PaperID)
	assert.Equal(t, PaperEmploymentContract, f.PaperType)
	assert.Equal(t, "biz-1", f.BusinessID)
	assert.Equal(t, AuditActionIssued, f.Action)
	assert.Equal(t, since, f.Since)
	assert.Equal(t, until, f.Until)
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 10, f.Offset)
}

// TestAuditLogFilterValueSemantics validates chaining does not mutate the
// original filter.
func TestAuditLogFilterValueSemantics(t *testing.T) {
	base := NewAuditLogFilter().WithActor("admin-1")
	derived := base.WithActor("admin-2").WithLimit(5)

	assert.Equal(t, "admin-1", base.ActorID)
	assert.Equal(t, 100, base.Limit)
	assert.Equal(t, "admin-2", derived.ActorID)
	assert.Equal(t, 5, derived.Limit)
}

// TestAuditLogFilterTimeHelpers validates the individual time setters.
func TestAuditLogFilterTimeHelpers(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	until := time.Now()

	f := NewAuditLogFilter().WithSince(since)
	assert.Equal(t, since, f.Since)
	assert.True(t, f.Until.IsZero())

	f = f.WithUntil(until)
	assert.Equal(t, until, f.Until)

	f = NewAuditLogFilter().WithLimit(25).WithOffset(75)
	assert.Equal(t, 25, f.Limit)
	assert.Equal(t, 75, f.Offset)
}
