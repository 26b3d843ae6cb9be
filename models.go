package paperkit

import (
	"time"

	"github.com/uptrace/bun"
)

// IdentityKind distinguishes natural persons from companies.
type IdentityKind string

const (
	IdentityPersonal  IdentityKind = "personal"
	IdentityCorporate IdentityKind = "corporate"
)

// Identity is the subject whose roles and permissions are evaluated.
// A corporate identity must reference the personal identity behind it and
// can never hold employment-class papers in its own name.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:i"`

	ID               string       `bun:"id,pk"`
	Kind             IdentityKind `bun:"kind,notnull"`
	LinkedPersonalID string       `bun:"linked_personal_id"`
	IsVerified       bool         `bun:"is_verified,notnull"`
	IsActive         bool         `bun:"is_active,notnull"`
	CreatedAt        time.Time    `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}

// PaperType identifies the kind of document a Paper certifies.
type PaperType string

const (
	// PaperEmploymentContract grants Worker in the paper's business.
	PaperEmploymentContract PaperType = "employment_contract"

	// PaperAuthorityDelegation grants Manager on top of Worker.
	PaperAuthorityDelegation PaperType = "authority_delegation"

	// PaperSupervisionMandate grants Supervisor on top of Worker.
	PaperSupervisionMandate PaperType = "supervision_mandate"

	// PaperBusinessRegistration is the registration certificate granting
	// Owner of the referenced business.
	PaperBusinessRegistration PaperType = "business_registration"

	// PaperFranchiseAgreement grants Franchisee to an Owner.
	PaperFranchiseAgreement PaperType = "franchise_agreement"

	// PaperFranchiseCharter grants Franchisor to an Owner.
	PaperFranchiseCharter PaperType = "franchise_charter"
)

var paperTypes = map[PaperType]bool{
	PaperEmploymentContract:   true,
	PaperAuthorityDelegation:  true,
	PaperSupervisionMandate:   true,
	PaperBusinessRegistration: true,
	PaperFranchiseAgreement:   true,
	PaperFranchiseCharter:     true,
}

// IsValid reports whether t is a member of the closed paper type set.
func (t PaperType) IsValid() bool {
	return paperTypes[t]
}

// IsEmploymentClass reports whether the paper type evidences an employment
// relationship. Employment-class papers are inert for corporate identities.
func (t PaperType) IsEmploymentClass() bool {
	switch t {
	case PaperEmploymentContract, PaperAuthorityDelegation, PaperSupervisionMandate:
		return true
	}
	return false
}

// Paper is an issued document. Type and owner are immutable facts; only the
// validity window and the active flag change after creation.
type Paper struct {
	bun.BaseModel `bun:"table:papers,alias:p"`

	ID              string     `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Type            PaperType  `bun:"type,notnull"`
	OwnerIdentityID string     `bun:"owner_identity_id,notnull"`
	BusinessID      string     `bun:"business_id"` // empty for unscoped papers
	ValidFrom       time.Time  `bun:"valid_from,notnull"`
	ValidUntil      *time.Time `bun:"valid_until,nullzero"` // nil means open-ended
	IsActive        bool       `bun:"is_active,notnull"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// ValidAt reports whether the paper is usable evidence at instant t.
func (p *Paper) ValidAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if t.Before(p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && !t.Before(*p.ValidUntil) {
		return false
	}
	return true
}

// VerificationStatus is the review state of a business registration.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// BusinessRegistration confirms that a business scope referenced by papers
// or by a caller's business context is real.
type BusinessRegistration struct {
	bun.BaseModel `bun:"table:business_registrations,alias:br"`

	ID                 string             `bun:"id,pk"`
	OwnerIdentityID    string             `bun:"owner_identity_id,notnull"`
	Name               string             `bun:"name"`
	IsActive           bool               `bun:"is_active,notnull"`
	VerificationStatus VerificationStatus `bun:"verification_status,notnull"`
	CreatedAt          time.Time          `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time          `bun:"updated_at,notnull,default:current_timestamp"`
}

// ComputedRole is a role confirmed for an identity in one business scope,
// with the papers that evidence it. It is recomputed on every evaluation
// and never persisted.
type ComputedRole struct {
	IdentityID     string
	Role           Role
	SourcePaperIDs []string
	BusinessID     string // empty for the global/unscoped group
}

// RoleSet holds all computed roles for an identity, indexed by business
// scope for fast narrowing during permission checks.
type RoleSet struct {
	IdentityID string
	Roles      []ComputedRole

	byBusiness map[string][]ComputedRole
}

// NewRoleSet indexes a slice of computed roles.
func NewRoleSet(identityID string, roles []ComputedRole) *RoleSet {
	rs := &RoleSet{
		IdentityID: identityID,
		Roles:      roles,
		byBusiness: make(map[string][]ComputedRole),
	}
	for _, cr := range roles {
		rs.byBusiness[cr.BusinessID] = append(rs.byBusiness[cr.BusinessID], cr)
	}
	return rs
}

// InScope returns the roles narrowed to a business context. An empty
// businessID means "no context supplied" and returns every role, including
// the global group.
func (rs *RoleSet) InScope(businessID string) []ComputedRole {
	if businessID == "" {
		return rs.Roles
	}
	return rs.byBusiness[businessID]
}

// Has reports whether the identity holds role in the given scope.
func (rs *RoleSet) Has(role Role, businessID string) bool {
	for _, cr := range rs.InScope(businessID) {
		if cr.Role == role {
			return true
		}
	}
	return false
}

// RoleNames returns the distinct role identifiers held in scope.
func (rs *RoleSet) RoleNames(businessID string) []Role {
	seen := make(map[Role]bool)
	var names []Role
	for _, cr := range rs.InScope(businessID) {
		if !seen[cr.Role] {
			seen[cr.Role] = true
			names = append(names, cr.Role)
		}
	}
	return names
}

// AuditAction is the type of paper lifecycle event recorded in the audit
// log.
type AuditAction string

const (
	AuditActionIssued      AuditAction = "issued"
	AuditActionExtended    AuditAction = "extended"
	AuditActionDeactivated AuditAction = "deactivated"
)

// PaperAuditLog records every paper lifecycle change. Because roles are
// derived from papers, this doubles as the audit trail of role changes.
type PaperAuditLog struct {
	bun.BaseModel `bun:"table:paper_audit_log,alias:pal"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp"`

	// Who performed the action
	ActorID string `bun:"actor_id,notnull"`

	// What happened to which paper
	Action          AuditAction `bun:"action,notnull"`
	PaperID         string      `bun:"paper_id,notnull"`
	PaperType       PaperType   `bun:"paper_type,notnull"`
	OwnerIdentityID string      `bun:"owner_identity_id,notnull"`
	BusinessID      string      `bun:"business_id"`

	// Validity window before and after the change
	PreviousValidUntil *time.Time `bun:"previous_valid_until,nullzero"`
	NewValidUntil      *time.Time `bun:"new_valid_until,nullzero"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`

	// Additional context (JSON)
	Metadata map[string]any `bun:"metadata,type:jsonb"`
}

// AuditEntry is used to create new audit log entries.
type AuditEntry struct {
	ActorID            string
	Action             AuditAction
	PaperID            string
	PaperType          PaperType
	OwnerIdentityID    string
	BusinessID         string
	PreviousValidUntil *time.Time
	NewValidUntil      *time.Time
	IPAddress          string
	UserAgent          string
	RequestID          string
	Metadata           map[string]any
}

// ToModel converts an AuditEntry to a PaperAuditLog model.
func (e *AuditEntry) ToModel() *PaperAuditLog {
	return &PaperAuditLog{
		ActorID:            e.ActorID,
		Action:             e.Action,
		PaperID:            e.PaperID,
		PaperType:          e.PaperType,
		OwnerIdentityID:    e.OwnerIdentityID,
		BusinessID:         e.BusinessID,
		PreviousValidUntil: e.PreviousValidUntil,
		NewValidUntil:      e.NewValidUntil,
		IPAddress:          e.IPAddress,
		UserAgent:          e.UserAgent,
		RequestID:          e.RequestID,
		Metadata:           e.Metadata,
		Timestamp:          time.Now(),
	}
}
