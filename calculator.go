package paperkit

import (
	"sort"
	"time"
)

// ComputeRoles derives the set of roles an identity currently holds from
// its papers and business registrations.
//
// The computation is pure and total: invalid papers are silently excluded,
// papers referencing a business with no matching registration fall into the
// global group, and an identity with nothing at all still receives the
// bottom role. It never fails.
//
// Prerequisites are resolved within a single scope: Manager requires Worker
// in the same business, not Worker anywhere.
func ComputeRoles(identity Identity, papers []Paper, registrations []BusinessRegistration, rules *Rules, now time.Time) []ComputedRole {
	known := make(map[string]bool, len(registrations))
	for _, reg := range registrations {
		known[reg.ID] = true
	}

	// Step 1-2: validity filter, then group by business scope. Papers
	// scoped to a business the caller did not supply are grouped as global.
	groups := make(map[string][]Paper)
	for _, p := range papers {
		if p.OwnerIdentityID != identity.ID || !p.ValidAt(now) {
			continue
		}
		scope := p.BusinessID
		if scope != "" && !known[scope] {
			scope = ""
		}
		groups[scope] = append(groups[scope], p)
	}

	scopes := make([]string, 0, len(groups))
	for scope := range groups {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes) // global group ("") first, then business ids

	// Roles from unscoped rules drop their group's business id, so the same
	// global role can emerge from several groups; collapse those into one
	// entry with unioned provenance.
	var out []ComputedRole
	index := make(map[string]int)
	for _, scope := range scopes {
		for _, cr := range computeGroupRoles(identity, scope, groups[scope], rules) {
			key := string(cr.Role) + "\x00" + cr.BusinessID
			if i, ok := index[key]; ok {
				out[i].SourcePaperIDs = mergePaperIDs(out[i].SourcePaperIDs, cr.SourcePaperIDs)
				continue
			}
			index[key] = len(out)
			out = append(out, cr)
		}
	}

	// Step 5: zero confirmed roles collapses to the synthetic bottom role.
	if len(out) == 0 {
		return []ComputedRole{{IdentityID: identity.ID, Role: RoleSeeker}}
	}
	return out
}

// computeGroupRoles runs subset matching and the prerequisite closure for
// one scope's papers.
func computeGroupRoles(identity Identity, scope string, papers []Paper, rules *Rules) []ComputedRole {
	paperIDsByType := make(map[PaperType][]string)
	for _, p := range papers {
		paperIDsByType[p.Type] = append(paperIDsByType[p.Type], p.ID)
	}

	// Step 3: candidate rules are those whose required paper types are all
	// present. Step 7: a corporate identity never matches employment-class
	// rules, whatever papers it nominally owns.
	var candidates []*DerivationRule
	for _, rule := range rules.All() {
		if identity.Kind == IdentityCorporate && rule.requiresEmploymentClass() {
			continue
		}
		matched := true
		for _, t := range rule.RequiredPaperTypes {
			if len(paperIDsByType[t]) == 0 {
				matched = false
				break
			}
		}
		if matched {
			candidates = append(candidates, rule)
		}
	}

	// Step 4: prerequisite closure. A candidate is confirmed only once all
	// its prerequisites are confirmed in this same scope, so the loop runs
	// to a fixpoint.
	confirmed := make(map[Role]bool)
	for {
		progressed := false
		for _, rule := range candidates {
			if confirmed[rule.Result] {
				continue
			}
			eligible := true
			for _, prereq := range rule.Prerequisites {
				if !confirmed[prereq] {
					eligible = false
					break
				}
			}
			if eligible {
				confirmed[rule.Result] = true
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	// Step 6: provenance is the union of every paper in the scope that
	// contributed to any confirmed rule yielding the role.
	sources := make(map[Role]map[string]bool)
	for _, rule := range candidates {
		if !confirmed[rule.Result] {
			continue
		}
		if sources[rule.Result] == nil {
			sources[rule.Result] = make(map[string]bool)
		}
		for _, t := range rule.RequiredPaperTypes {
			for _, id := range paperIDsByType[t] {
				sources[rule.Result][id] = true
			}
		}
	}

	roles := make([]Role, 0, len(confirmed))
	for role := range confirmed {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		if seniority[roles[i]] != seniority[roles[j]] {
			return seniority[roles[i]] < seniority[roles[j]]
		}
		return roles[i] < roles[j]
	})

	// A role confirmed through any unscoped rule never carries the group's
	// business id.
	unscoped := make(map[Role]bool)
	for _, rule := range candidates {
		if confirmed[rule.Result] && !rule.BusinessScoped {
			unscoped[rule.Result] = true
		}
	}

	out := make([]ComputedRole, 0, len(roles))
	for _, role := range roles {
		ids := make([]string, 0, len(sources[role]))
		for id := range sources[role] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		businessID := scope
		if unscoped[role] {
			businessID = ""
		}
		out = append(out, ComputedRole{
			IdentityID:     identity.ID,
			Role:           role,
			SourcePaperIDs: ids,
			BusinessID:     businessID,
		})
	}
	return out
}

// mergePaperIDs unions two sorted provenance slices.
func mergePaperIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, id := range append(a, b...) {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	sort.Strings(merged)
	return merged
}

// HighestRole returns the most senior role across all scopes, for callers
// that need a single coarse representative. Manager and Supervisor tie in
// seniority; on a tie the earlier role in the computed set wins, and
// callers needing a different tie-break should inspect the full set
// instead. Returns false for an empty set.
func HighestRole(roles []ComputedRole) (Role, bool) {
	if len(roles) == 0 {
		return "", false
	}
	best := roles[0].Role
	for _, cr := range roles[1:] {
		if cr.Role.MoreSenior(best) {
			best = cr.Role
		}
	}
	return best, true
}
