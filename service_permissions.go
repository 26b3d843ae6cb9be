package paperkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PERMISSION CHECKING
// ============================================================================

// CheckPermission answers a single permission question for an identity.
// Roles are computed from the identity's current papers; the supplied
// business context, if any, is resolved against its registration before any
// role comparison.
//
// Example:
//
//	result, err := service.CheckPermission(ctx, identityID, "attendance", "approve", businessID, nil)
//	if err == nil && result.Granted {
//	    // proceed
//	}
func (s *Service) CheckPermission(ctx context.Context, identityID, resource, action, businessID string, conditions map[string]string) (PermissionResult, error) {
	start := time.Now()

	roles, err := s.ComputeRoles(ctx, identityID)
	if err != nil {
		return PermissionResult{}, err
	}

	reg, status, err := s.resolveBusinessContext(ctx, businessID)
	if err != nil {
		return PermissionResult{}, err
	}

	var result PermissionResult
	if status == BusinessNotFound || status == BusinessInactive {
		result = businessNotFoundResult(businessID, status)
	} else {
		result = Evaluate(roles.Roles, PermissionRequest{
			Resource:   resource,
			Action:     action,
			BusinessID: businessID,
			Conditions: mergeBusinessConditions(conditions, reg),
		}, s.matrix)
	}

	s.monitor.recordDecision(time.Since(start), result.Granted)
	return result, nil
}

// CheckBulkPermissions answers many permission questions for one identity.
// The role set is computed exactly once for the whole batch and every
// distinct business context is resolved exactly once; only the matrix
// evaluation runs per tuple. Results are keyed "resource:action".
func (s *Service) CheckBulkPermissions(ctx context.Context, identityID string, requests []PermissionRequest) (map[string]PermissionResult, error) {
	start := time.Now()

	roles, err := s.ComputeRoles(ctx, identityID)
	if err != nil {
		return nil, err
	}

	type resolution struct {
		reg    *BusinessRegistration
		status ResolveStatus
	}
	resolved := make(map[string]resolution)

	results := make(map[string]PermissionResult, len(requests))
	for _, req := range requests {
		res, ok := resolved[req.BusinessID]
		if !ok {
			reg, status, err := s.resolveBusinessContext(ctx, req.BusinessID)
			if err != nil {
				return nil, err
			}
			res = resolution{reg: reg, status: status}
			resolved[req.BusinessID] = res
		}

		key := BulkKey(req.Resource, req.Action)
		if res.status == BusinessNotFound || res.status == BusinessInactive {
			results[key] = businessNotFoundResult(req.BusinessID, res.status)
			continue
		}
		req.Conditions = mergeBusinessConditions(req.Conditions, res.reg)
		results[key] = Evaluate(roles.Roles, req, s.matrix)
	}

	s.monitor.recordBulk(time.Since(start), len(requests))
	return results, nil
}

// GetPermissionMatrix evaluates the whole matrix for an identity in a
// scope, reporting the effective and available roles alongside every
// per-entry decision. A business context that does not resolve yields a
// business-not-found decision for every entry rather than an error.
func (s *Service) GetPermissionMatrix(ctx context.Context, identityID, businessID string) (MatrixResult, error) {
	roles, err := s.ComputeRoles(ctx, identityID)
	if err != nil {
		return MatrixResult{}, err
	}

	reg, status, err := s.resolveBusinessContext(ctx, businessID)
	if err != nil {
		return MatrixResult{}, err
	}

	if status == BusinessNotFound || status == BusinessInactive {
		result := MatrixResult{Permissions: make(map[string]map[string]PermissionResult)}
		for _, resource := range s.matrix.Resources() {
			actions := make(map[string]PermissionResult)
			for _, action := range s.matrix.Actions(resource) {
				actions[action] = businessNotFoundResult(businessID, status)
			}
			result.Permissions[resource] = actions
		}
		// The roles the identity holds in the scope are still reported,
		// mirroring FullMatrix, even though every decision denies.
		result.AvailableRoles = roles.RoleNames(businessID)
		if effective, ok := HighestRole(roles.InScope(businessID)); ok {
			result.EffectiveRole = effective
		}
		return result, nil
	}

	return FullMatrix(roles.Roles, businessID, mergeBusinessConditions(nil, reg), s.matrix), nil
}

// Can is a convenience wrapper that swallows store errors and reports only
// whether the permission is granted. Prefer CheckPermission when the denial
// reason matters.
func (s *Service) Can(ctx context.Context, identityID, resource, action, businessID string) bool {
	result, err := s.CheckPermission(ctx, identityID, resource, action, businessID, nil)
	if err != nil {
		return false
	}
	return result.Granted
}

// HasRole reports whether an identity currently holds a role in a scope,
// derived from its papers. Store errors report as "no".
func (s *Service) HasRole(ctx context.Context, identityID string, role Role, businessID string) bool {
	roles, err := s.ComputeRoles(ctx, identityID)
	if err != nil {
		return false
	}
	return roles.Has(role, businessID)
}

// resolveBusinessContext fetches the registration for a supplied business
// context and runs the pure resolver over it. An omitted context resolves
// to (nil, BusinessOmitted) without touching the store.
func (s *Service) resolveBusinessContext(ctx context.Context, businessID string) (*BusinessRegistration, ResolveStatus, error) {
	if businessID == "" {
		return nil, BusinessOmitted, nil
	}
	var regs []BusinessRegistration
	err := dbkit.WithErr1(s.db.NewSelect().Model(&regs).Where("id = ?", businessID).Scan(ctx), "ResolveBusinessContext").Err()
	if err != nil && !dbkit.IsNotFound(err) {
		return nil, BusinessNotFound, err
	}
	reg, status := ResolveBusiness(businessID, regs)
	return reg, status, nil
}

// mergeBusinessConditions injects the verification state of the resolved
// registration into the caller's conditions. The service value wins so a
// caller cannot claim verification the registration does not have.
func mergeBusinessConditions(conditions map[string]string, reg *BusinessRegistration) map[string]string {
	if reg == nil {
		return conditions
	}
	merged := make(map[string]string, len(conditions)+1)
	for k, v := range conditions {
		merged[k] = v
	}
	if reg.VerificationStatus == VerificationVerified {
		merged[ConditionBusinessVerified] = "true"
	} else {
		merged[ConditionBusinessVerified] = "false"
	}
	return merged
}
