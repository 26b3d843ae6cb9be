package paperkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServiceIssuePaper validates issuance, defaults and role effect.
func TestServiceIssuePaper(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	alice := h.UniqueID("alice")
	h.CreateIdentity(personalIdentity(alice))

	paper := &Paper{
		Type:            PaperEmploymentContract,
		OwnerIdentityID: alice,
		BusinessID:      businessID,
		IsActive:        true,
	}
	err := h.IssueTestPaper("test-admin", paper)
	require.NoError(t, err)
	assert.False(t, paper.ValidFrom.IsZero(), "ValidFrom defaults to now")

	h.AssertHasRole(alice, RoleWorker, businessID)
}

// TestServiceIssuePaperRequiresActor validates the audit guard.
func TestServiceIssuePaperRequiresActor(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	alice := h.UniqueID("alice")
	h.CreateIdentity(personalIdentity(alice))

	err := h.GetService().IssuePaper(h.GetContext(), &Paper{
		Type:            PaperEmploymentContract,
		OwnerIdentityID: alice,
		IsActive:        true,
	})
	assert.ErrorIs(t, err, ErrNoActorID)
}

// TestServiceIssuePaperUnknownType validates the type guard.
func TestServiceIssuePaperUnknownType(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	err := h.IssueTestPaper("test-admin", &Paper{
		Type:            PaperType("diploma"),
		OwnerIdentityID: h.UniqueID("alice"),
		IsActive:        true,
	})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

// TestServiceIssuePaperCorporateEmployment validates employment-class papers
// cannot be issued to corporate identities.
func TestServiceIssuePaperCorporateEmployment(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	person := h.UniqueID("person")
	h.CreateIdentity(personalIdentity(person))
	corp := h.UniqueID("corp")
	h.CreateIdentity(corporateIdentity(corp, person))

	err := h.IssueTestPaper("test-admin", &Paper{
		Type:            PaperEmploymentContract,
		OwnerIdentityID: corp,
		IsActive:        true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorporateEmployment)

	// Business-class papers are fine.
	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, corp, VerificationVerified))
	err = h.IssueTestPaper("test-admin", &Paper{
		Type:            PaperBusinessRegistration,
		OwnerIdentityID: corp,
		BusinessID:      businessID,
		IsActive:        true,
	})
	assert.NoError(t, err)
	h.AssertHasRole(corp, RoleOwner, businessID)
}

// TestServiceExtendPaper validates the forward-only validity rule.
func TestServiceExtendPaper(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}
	ctx := WithActorID(h.GetContext(), "test-admin")

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	alice := h.UniqueID("alice")
	h.CreateIdentity(personalIdentity(alice))

	until := time.Now().Add(30 * 24 * time.Hour)
	paper := &Paper{
		Type:            PaperEmploymentContract,
		OwnerIdentityID: alice,
		BusinessID:      businessID,
		ValidUntil:      &until,
		IsActive:        true,
	}
	require.NoError(t, h.IssueTestPaper("test-admin", paper))
	require.NotEmpty(t, paper.ID)

	// Forward extension works.
	err := h.GetService().ExtendPaper(ctx, paper.ID, until.Add(30*24*time.Hour))
	require.NoError(t, err)

	updated, err := h.GetService().GetPaper(ctx, paper.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ValidUntil)
	assert.True(t, updated.ValidUntil.After(until))

	// Shortening is rejected.
	err = h.GetService().ExtendPaper(ctx, paper.ID, until)
	assert.ErrorIs(t, err, ErrValidityNotExtended)

	// Equal end is not an extension either.
	err = h.GetService().ExtendPaper(ctx, paper.ID, *updated.ValidUntil)
	assert.ErrorIs(t, err, ErrValidityNotExtended)
}

// TestServiceExtendOpenEndedPaper validates an open-ended paper cannot be
// given an end through the extension path.
func TestServiceExtendOpenEndedPaper(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}
	ctx := WithActorID(h.GetContext(), "test-admin")

	alice := h.UniqueID("alice")
	h.CreateIdentity(personalIdentity(alice))
	paper := &Paper{
		Type:            PaperEmploymentContract,
		OwnerIdentityID: alice,
		IsActive:        true,
	}
	require.NoError(t, h.IssueTestPaper("test-admin", paper))

	err := h.GetService().ExtendPaper(ctx, paper.ID, time.Now().Add(365*24*time.Hour))
	assert.ErrorIs(t, err, ErrValidityNotExtended)
}

// TestServiceDeactivatePaper validates revocation removes derived roles
// immediately.
func TestServiceDeactivatePaper(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}
	ctx := WithActorID(h.GetContext(), "test-admin")
	s := h.GetService()

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	alice := h.UniqueID("alice")
	h.CreateIdentity(personalIdentity(alice))

	contract := &Paper{
		Type:            PaperEmploymentContract,
		OwnerIdentityID: alice,
		BusinessID:      businessID,
		IsActive:        true,
	}
	require.NoError(t, h.IssueTestPaper("test-admin", contract))
	delegation := &Paper{
		Type:            PaperAuthorityDelegation,
		OwnerIdentityID: alice,
		BusinessID:      businessID,
		IsActive:        true,
	}
	require.NoError(t, h.IssueTestPaper("test-admin", delegation))

	h.AssertHasRole(alice, RoleManager, businessID)

	// Revoking the contract collapses the whole stack: without Worker the
	// delegation anchors nothing.
	require.NoError(t, s.DeactivatePaper(ctx, contract.ID))
	h.AssertNotHasRole(alice, RoleWorker, businessID)
	h.AssertNotHasRole(alice, RoleManager, businessID)

	// Double deactivation is rejected.
	err := s.DeactivatePaper(ctx, contract.ID)
	assert.ErrorIs(t, err, ErrPaperInactive)
}

// TestServiceIssueMultiple validates batch issuance in one transaction.
func TestServiceIssueMultiple(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}
	ctx := WithActorID(h.GetContext(), "test-admin")

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	alice := h.UniqueID("alice")
	h.CreateIdentity(personalIdentity(alice))

	papers := []*Paper{
		{Type: PaperEmploymentContract, OwnerIdentityID: alice, BusinessID: businessID, IsActive: true},
		{Type: PaperSupervisionMandate, OwnerIdentityID: alice, BusinessID: businessID, IsActive: true},
	}
	require.NoError(t, h.GetService().IssueMultiple(ctx, papers))

	h.AssertHasRole(alice, RoleWorker, businessID)
	h.AssertHasRole(alice, RoleSupervisor, businessID)

	count, err := h.GetService().CountPapers(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestServiceIssueMultipleRollsBack validates one bad paper aborts the whole
// batch.
func TestServiceIssueMultipleRollsBack(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}
	ctx := WithActorID(h.GetContext(), "test-admin")

	person := h.UniqueID("person")
	h.CreateIdentity(personalIdentity(person))
	corp := h.UniqueID("corp")
	h.CreateIdentity(corporateIdentity(corp, person))

	papers := []*Paper{
		{Type: PaperEmploymentContract, OwnerIdentityID: person, IsActive: true},
		{Type: PaperEmploymentContract, OwnerIdentityID: corp, IsActive: true},
	}
	err := h.GetService().IssueMultiple(ctx, papers)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorporateEmployment)

	count, err := h.GetService().CountPapers(ctx, person)
	require.NoError(t, err)
	assert.Zero(t, count, "batch must roll back entirely")
}

// TestServiceCheckPaperExists validates the existence probe.
func TestServiceCheckPaperExists(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	worker := h.UniqueID("worker")
	h.SetupWorker(worker, businessID)

	assert.True(t, h.GetService().CheckPaperExists(h.GetContext(), worker, PaperEmploymentContract, businessID))
	assert.False(t, h.GetService().CheckPaperExists(h.GetContext(), worker, PaperAuthorityDelegation, businessID))
}

// TestServiceGetBusinessMembers validates the member listing.
func TestServiceGetBusinessMembers(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	businessID := h.UniqueID("biz")
	h.CreateRegistration(activeRegistration(businessID, "test-admin", VerificationVerified))
	worker1 := h.UniqueID("worker")
	h.SetupWorker(worker1, businessID)
	worker2 := h.UniqueID("worker")
	h.SetupWorker(worker2, businessID)

	members, err := h.GetService().GetBusinessMembers(h.GetContext(), businessID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
