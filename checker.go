package paperkit

// Checker answers permission questions for one identity from a role set
// computed once. It is typically created by the Service and stored in
// context for use in handlers; every method is a pure lookup.
type Checker struct {
	identityID string
	roles      *RoleSet
	matrix     *Matrix
}

// NewChecker creates a Checker over an already-computed role set.
func NewChecker(identityID string, roles *RoleSet, matrix *Matrix) *Checker {
	return &Checker{
		identityID: identityID,
		roles:      roles,
		matrix:     matrix,
	}
}

// IdentityID returns the identity this checker is for.
func (c *Checker) IdentityID() string {
	return c.identityID
}

// Allowed checks a single resource/action, optionally scoped to a business.
//
// Example:
//
//	if checker.Allowed("attendance", "approve", businessID, nil) {
//	    // identity holds Manager or better in this business
//	}
func (c *Checker) Allowed(resource, action, businessID string, conditions map[string]string) bool {
	return c.Check(resource, action, businessID, conditions).Granted
}

// Check returns the full decision for a single resource/action.
func (c *Checker) Check(resource, action, businessID string, conditions map[string]string) PermissionResult {
	return Evaluate(c.roles.Roles, PermissionRequest{
		Resource:   resource,
		Action:     action,
		BusinessID: businessID,
		Conditions: conditions,
	}, c.matrix)
}

// CheckBulk evaluates many requests against the checker's role set at once,
// keyed "resource:action".
func (c *Checker) CheckBulk(requests []PermissionRequest) map[string]PermissionResult {
	return EvaluateBulk(c.roles.Roles, requests, c.matrix)
}

// HasRole reports whether the identity holds a specific role in a scope.
// An empty businessID checks across all scopes.
func (c *Checker) HasRole(role Role, businessID string) bool {
	return c.roles.Has(role, businessID)
}

// HasAnyRole reports whether the identity holds any of the given roles in a
// scope.
func (c *Checker) HasAnyRole(roles []Role, businessID string) bool {
	for _, role := range roles {
		if c.roles.Has(role, businessID) {
			return true
		}
	}
	return false
}

// Roles returns the distinct roles held in a scope. An empty businessID
// returns roles across all scopes, including the global group.
func (c *Checker) Roles(businessID string) []Role {
	return c.roles.RoleNames(businessID)
}

// EffectiveRole returns the most senior role in a scope, or false when no
// role applies there.
func (c *Checker) EffectiveRole(businessID string) (Role, bool) {
	return HighestRole(c.roles.InScope(businessID))
}

// Matrix evaluates the entire permission matrix for a scope.
func (c *Checker) Matrix(businessID string, conditions map[string]string) MatrixResult {
	return FullMatrix(c.roles.Roles, businessID, conditions, c.matrix)
}

// BusinessScopes returns the business ids in which the identity holds at
// least one role. Useful for rendering scope switchers.
func (c *Checker) BusinessScopes() []string {
	var scopes []string
	seen := make(map[string]bool)
	for _, cr := range c.roles.Roles {
		if cr.BusinessID == "" || seen[cr.BusinessID] {
			continue
		}
		seen[cr.BusinessID] = true
		scopes = append(scopes, cr.BusinessID)
	}
	return scopes
}

// RoleSet exposes the underlying computed roles, including provenance.
func (c *Checker) RoleSet() *RoleSet {
	return c.roles
}

// IsSeekerOnly reports whether the identity holds nothing beyond the
// synthetic bottom role.
func (c *Checker) IsSeekerOnly() bool {
	return len(c.roles.Roles) == 1 &&
		c.roles.Roles[0].Role == RoleSeeker &&
		len(c.roles.Roles[0].SourcePaperIDs) == 0
}
