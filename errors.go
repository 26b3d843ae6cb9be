package paperkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for PaperKit operations. Denials are never errors; these
// cover broken configuration, missing context values and store failures.
var (
	// ErrInvalidRule is returned when a derivation rule is malformed.
	ErrInvalidRule = errors.New("paperkit: invalid derivation rule")

	// ErrInvalidMatrix is returned when a permission matrix entry is malformed.
	ErrInvalidMatrix = errors.New("paperkit: invalid permission matrix")

	// ErrIdentityNotFound is returned when an identity id does not exist.
	ErrIdentityNotFound = errors.New("paperkit: identity not found")

	// ErrPaperNotFound is returned when a paper id does not exist.
	ErrPaperNotFound = errors.New("paperkit: paper not found")

	// ErrPaperInactive is returned when extending a deactivated paper.
	ErrPaperInactive = errors.New("paperkit: paper is not active")

	// ErrValidityNotExtended is returned when an extension would move the
	// validity window backwards. Papers are immutable facts: validity can
	// only be pushed forward.
	ErrValidityNotExtended = errors.New("paperkit: validity can only be pushed forward")

	// ErrCorporateEmployment is returned when issuing an employment-class
	// paper directly to a corporate identity.
	ErrCorporateEmployment = errors.New("paperkit: corporate identities cannot own employment-class papers")

	// ErrUnauthorized is returned by middleware when a permission check denies.
	ErrUnauthorized = errors.New("paperkit: unauthorized")

	// ErrNoIdentityID is returned when the identity id is not found in context.
	ErrNoIdentityID = errors.New("paperkit: no identity ID in context")

	// ErrNoActorID is returned when the actor id is not found in context for audit.
	ErrNoActorID = errors.New("paperkit: no actor ID in context")

	// ErrDatabaseError is returned when a paper store operation fails.
	ErrDatabaseError = errors.New("paperkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err        error  // Underlying sentinel error
	Message    string // Additional context
	Resource   string // Matrix resource involved
	Action     string // Matrix action involved
	Role       Role   // Role involved (if applicable)
	IdentityID string // Identity involved (if applicable)
	PaperID    string // Paper involved (if applicable)
	BusinessID string // Business scope involved (if applicable)
	ActorID    string // Actor who triggered the error (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithEntry adds the matrix entry to the error.
func (e *Error) WithEntry(resource, action string) *Error {
	e.Resource = resource
	e.Action = action
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(role Role) *Error {
	e.Role = role
	return e
}

// WithIdentity adds identity information to the error.
func (e *Error) WithIdentity(identityID string) *Error {
	e.IdentityID = identityID
	return e
}

// WithPaper adds paper information to the error.
func (e *Error) WithPaper(paperID string) *Error {
	e.PaperID = paperID
	return e
}

// WithBusiness adds business scope information to the error.
func (e *Error) WithBusiness(businessID string) *Error {
	e.BusinessID = businessID
	return e
}

// WithActor adds actor information to the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsInvalidRule checks if an error is due to a malformed derivation rule.
func IsInvalidRule(err error) bool {
	return errors.Is(err, ErrInvalidRule)
}

// IsInvalidMatrix checks if an error is due to a malformed matrix entry.
func IsInvalidMatrix(err error) bool {
	return errors.Is(err, ErrInvalidMatrix)
}

// IsNotFound checks if an error is an identity or paper lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIdentityNotFound) || errors.Is(err, ErrPaperNotFound)
}
