package paperkit

import "fmt"

// ResolveStatus is the outcome of resolving a caller-supplied business
// context against the known registrations.
type ResolveStatus string

const (
	// BusinessResolved means an active registration matched.
	BusinessResolved ResolveStatus = "resolved"

	// BusinessOmitted means the caller supplied no business context at
	// all. Callers render this differently from a lookup failure.
	BusinessOmitted ResolveStatus = "omitted"

	// BusinessNotFound means no registration matched the supplied id.
	BusinessNotFound ResolveStatus = "not_found"

	// BusinessInactive means a registration matched but is deactivated.
	BusinessInactive ResolveStatus = "inactive"
)

// ResolveBusiness validates a supplied business id against the
// registrations handed to it. Verification status is deliberately not
// checked here; matrix entries that care opt in through extra conditions.
func ResolveBusiness(businessID string, registrations []BusinessRegistration) (*BusinessRegistration, ResolveStatus) {
	if businessID == "" {
		return nil, BusinessOmitted
	}
	for i := range registrations {
		if registrations[i].ID == businessID {
			if !registrations[i].IsActive {
				return nil, BusinessInactive
			}
			return &registrations[i], BusinessResolved
		}
	}
	return nil, BusinessNotFound
}

// businessNotFoundResult is the denial returned when a supplied business
// context does not resolve to an active registration. Inactive and missing
// registrations produce the same decision code; the reason string keeps
// the distinction for the caller's message.
func businessNotFoundResult(businessID string, status ResolveStatus) PermissionResult {
	reason := fmt.Sprintf("business %q not found", businessID)
	if status == BusinessInactive {
		reason = fmt.Sprintf("business %q is not active", businessID)
	}
	return PermissionResult{
		Code:   DecisionBusinessNotFound,
		Reason: reason,
	}
}
