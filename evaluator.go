package paperkit

import "fmt"

// DecisionCode classifies a permission decision so callers can branch
// without parsing reason strings.
type DecisionCode string

const (
	DecisionGranted                 DecisionCode = "granted"
	DecisionUnknownResource         DecisionCode = "unknown_resource"
	DecisionUnknownAction           DecisionCode = "unknown_action"
	DecisionBusinessContextRequired DecisionCode = "business_context_required"
	DecisionBusinessNotFound        DecisionCode = "business_not_found"
	DecisionInsufficientRole        DecisionCode = "insufficient_role"
	DecisionConditionMismatch       DecisionCode = "condition_mismatch"
)

// PermissionResult is the outcome of a single permission check. A denial is
// a normal result, not an error.
type PermissionResult struct {
	Granted bool
	Code    DecisionCode
	Reason  string

	// RequiredRole is set on role-based denials so the caller can render
	// an actionable message.
	RequiredRole Role

	// BusinessContextRequired is set when the entry demands a business
	// context and none was supplied.
	BusinessContextRequired bool
}

// PermissionRequest is one question: may the identity perform Action on
// Resource, optionally within BusinessID, given Conditions.
type PermissionRequest struct {
	Resource   string
	Action     string
	BusinessID string
	Conditions map[string]string
}

// Evaluate answers a single permission question against already-computed
// roles and the static matrix. It is pure and safe for concurrent use.
//
// Check order is fixed: unknown resource, unknown action, missing business
// context, role comparison, extra conditions. The business-context check
// deliberately precedes any role comparison.
func Evaluate(roles []ComputedRole, req PermissionRequest, matrix *Matrix) PermissionResult {
	rule, resourceKnown, actionKnown := matrix.Lookup(req.Resource, req.Action)
	if !resourceKnown {
		return PermissionResult{
			Code:   DecisionUnknownResource,
			Reason: fmt.Sprintf("unknown resource %q", req.Resource),
		}
	}
	if !actionKnown {
		return PermissionResult{
			Code:   DecisionUnknownAction,
			Reason: fmt.Sprintf("unknown action %q on resource %q", req.Action, req.Resource),
		}
	}

	if rule.BusinessContextRequired && req.BusinessID == "" {
		return PermissionResult{
			Code:                    DecisionBusinessContextRequired,
			Reason:                  fmt.Sprintf("%s:%s requires a business context", req.Resource, req.Action),
			BusinessContextRequired: true,
		}
	}

	// Narrow to the requested scope. With no context supplied every role
	// counts, including the global group.
	matched := false
	for _, cr := range roles {
		if req.BusinessID != "" && cr.BusinessID != req.BusinessID {
			continue
		}
		if rule.allows(cr.Role) {
			matched = true
			break
		}
	}
	if !matched {
		return PermissionResult{
			Code:         DecisionInsufficientRole,
			Reason:       insufficientRoleReason(rule),
			RequiredRole: rule.MinRole,
		}
	}

	// Extra conditions override a role-based grant.
	for key, want := range rule.ExtraConditions {
		got, ok := req.Conditions[key]
		if !ok || got != want {
			return PermissionResult{
				Code:         DecisionConditionMismatch,
				Reason:       fmt.Sprintf("condition %q not satisfied", key),
				RequiredRole: rule.MinRole,
			}
		}
	}

	return PermissionResult{
		Granted: true,
		Code:    DecisionGranted,
		Reason:  "Permission granted",
	}
}

func insufficientRoleReason(rule *PermissionRule) string {
	if rule.MinRole != "" {
		return fmt.Sprintf("requires role %q or above in this scope", rule.MinRole)
	}
	return fmt.Sprintf("requires one of the roles %v in this scope", rule.AlsoAllow)
}

// EvaluateBulk answers many permission questions against a single set of
// computed roles, keyed "resource:action" in the result. Roles are computed
// once by the caller and reused for every tuple; re-deriving them per
// request is the performance mistake this signature exists to prevent.
func EvaluateBulk(roles []ComputedRole, requests []PermissionRequest, matrix *Matrix) map[string]PermissionResult {
	results := make(map[string]PermissionResult, len(requests))
	for _, req := range requests {
		results[BulkKey(req.Resource, req.Action)] = Evaluate(roles, req, matrix)
	}
	return results
}

// MatrixResult is the full decision surface for one identity in one scope.
type MatrixResult struct {
	// Permissions maps resource -> action -> result for every matrix entry.
	Permissions map[string]map[string]PermissionResult

	// AvailableRoles are the distinct roles confirmed in scope.
	AvailableRoles []Role

	// EffectiveRole is the most senior role in scope, or empty when no
	// role applies there.
	EffectiveRole Role
}

// FullMatrix evaluates every matrix entry for the given scope, for callers
// that render a whole capability view at once (dashboards, admin UIs).
func FullMatrix(roles []ComputedRole, businessID string, conditions map[string]string, matrix *Matrix) MatrixResult {
	result := MatrixResult{
		Permissions: make(map[string]map[string]PermissionResult, len(matrix.Resources())),
	}

	for _, resource := range matrix.Resources() {
		actions := make(map[string]PermissionResult)
		for _, action := range matrix.Actions(resource) {
			actions[action] = Evaluate(roles, PermissionRequest{
				Resource:   resource,
				Action:     action,
				BusinessID: businessID,
				Conditions: conditions,
			}, matrix)
		}
		result.Permissions[resource] = actions
	}

	inScope := roles
	if businessID != "" {
		inScope = nil
		for _, cr := range roles {
			if cr.BusinessID == businessID {
				inScope = append(inScope, cr)
			}
		}
	}
	result.AvailableRoles = NewRoleSet("", inScope).RoleNames("")
	if effective, ok := HighestRole(inScope); ok {
		result.EffectiveRole = effective
	}
	return result
}
