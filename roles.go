package paperkit

// Role identifies one of the closed set of derivable roles.
type Role string

const (
	// RoleSeeker is the bottom of the hierarchy, held by every identity
	// that has no valid papers at all.
	RoleSeeker Role = "seeker"

	// RoleWorker is derived from an employment contract.
	RoleWorker Role = "worker"

	// RoleManager is derived from an authority delegation on top of an
	// existing Worker role in the same business.
	RoleManager Role = "manager"

	// RoleSupervisor is derived from a supervision mandate on top of an
	// existing Worker role in the same business. Manager and Supervisor
	// share a rank but are distinct roles.
	RoleSupervisor Role = "supervisor"

	// RoleOwner is derived from a business registration certificate.
	RoleOwner Role = "owner"

	// RoleFranchisee is derived from a franchise agreement held by an
	// Owner. Franchise roles are matched by exact identity, never by rank.
	RoleFranchisee Role = "franchisee"

	// RoleFranchisor is derived from a franchise charter held by an Owner.
	RoleFranchisor Role = "franchisor"
)

// linearRanks orders the linear role family for "at least as privileged"
// comparisons. Franchise roles deliberately have no entry: a Franchisee
// does not satisfy an Owner-level requirement by rank, a matrix entry must
// admit franchise roles explicitly via AlsoAllow.
var linearRanks = map[Role]int{
	RoleSeeker:     0,
	RoleWorker:     1,
	RoleManager:    2,
	RoleSupervisor: 2,
	RoleOwner:      3,
}

// allRoles lists every role the tables may reference, used when validating
// static configuration.
var allRoles = map[Role]bool{
	RoleSeeker:     true,
	RoleWorker:     true,
	RoleManager:    true,
	RoleSupervisor: true,
	RoleOwner:      true,
	RoleFranchisee: true,
	RoleFranchisor: true,
}

// IsValid reports whether r is a member of the closed role set.
func (r Role) IsValid() bool {
	return allRoles[r]
}

// IsFranchise reports whether r belongs to the franchise family.
func (r Role) IsFranchise() bool {
	return r == RoleFranchisee || r == RoleFranchisor
}

// Rank returns the linear hierarchy rank of r and whether r participates in
// rank comparison at all. Franchise roles return ok=false.
func (r Role) Rank() (int, bool) {
	rank, ok := linearRanks[r]
	return rank, ok
}

// Satisfies reports whether holding r meets a requirement of min.
//
// A franchise requirement is met only by that exact role. A linear
// requirement is met by any linear role of equal or greater rank; franchise
// roles never satisfy it implicitly.
func (r Role) Satisfies(min Role) bool {
	if min.IsFranchise() {
		return r == min
	}
	have, ok := r.Rank()
	if !ok {
		return false
	}
	want, ok := min.Rank()
	if !ok {
		return false
	}
	return have >= want
}

// seniority orders the full role set for display and "highest role"
// selection. This is presentation order only; permission checks use Rank
// and Satisfies, where franchise roles are not rank-comparable.
var seniority = map[Role]int{
	RoleSeeker:     0,
	RoleWorker:     1,
	RoleManager:    2,
	RoleSupervisor: 2,
	RoleOwner:      3,
	RoleFranchisee: 4,
	RoleFranchisor: 5,
}

// MoreSenior reports whether r sits strictly above other in the display
// ordering. Manager and Supervisor tie; ties are left to the caller.
func (r Role) MoreSenior(other Role) bool {
	return seniority[r] > seniority[other]
}
