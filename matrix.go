package paperkit

// PermissionRule is one matrix entry: what it takes to perform an action on
// a resource.
type PermissionRule struct {
	Resource string
	Action   string

	// MinRole is the minimum linear role. Franchise roles never satisfy it
	// by rank; list them in AlsoAllow when they should be admitted.
	MinRole Role

	// AlsoAllow admits specific roles by exact identity, independent of
	// rank. This is how franchise-family requirements are expressed.
	AlsoAllow []Role

	// BusinessContextRequired rejects the request before any role
	// comparison when no business context is supplied.
	BusinessContextRequired bool

	// ExtraConditions must each be present with an equal value in the
	// caller-supplied conditions. Any mismatch overrides a role grant.
	ExtraConditions map[string]string
}

// allows reports whether holding role meets this entry's role requirement.
func (r *PermissionRule) allows(role Role) bool {
	for _, a := range r.AlsoAllow {
		if role == a {
			return true
		}
	}
	if r.MinRole == "" {
		return false
	}
	return role.Satisfies(r.MinRole)
}

// Matrix is the static permission table mapping (resource, action) pairs to
// role and scope requirements. It is built once at startup with the fluent
// builder and treated as immutable afterwards; tests substitute alternate
// matrices by constructing their own.
type Matrix struct {
	resources map[string]*resourceEntry
	order     []string
}

type resourceEntry struct {
	name    string
	actions map[string]*PermissionRule
	order   []string
	matrix  *Matrix
}

// NewMatrix creates an empty permission matrix.
func NewMatrix() *Matrix {
	return &Matrix{resources: make(map[string]*resourceEntry)}
}

// Resource starts defining entries for a resource.
// Returns a ResourceBuilder for fluent configuration.
//
// Example:
//
//	matrix := paperkit.NewMatrix().
//	    Resource("attendance").
//	        Action("read").MinRole(paperkit.RoleWorker).RequireBusiness().
//	        Action("approve").MinRole(paperkit.RoleManager).RequireBusiness().
//	    Resource("profile").
//	        Action("read").MinRole(paperkit.RoleSeeker).
//	    Matrix()
func (m *Matrix) Resource(name string) *ResourceBuilder {
	entry, ok := m.resources[name]
	if !ok {
		entry = &resourceEntry{
			name:    name,
			actions: make(map[string]*PermissionRule),
			matrix:  m,
		}
		m.resources[name] = entry
		m.order = append(m.order, name)
	}
	return &ResourceBuilder{entry: entry}
}

// Lookup returns the entry for a resource/action pair. The two boolean
// results distinguish "resource unknown" from "resource known, action
// unknown", which produce different denial reasons.
func (m *Matrix) Lookup(resource, action string) (rule *PermissionRule, resourceKnown, actionKnown bool) {
	entry, ok := m.resources[resource]
	if !ok {
		return nil, false, false
	}
	rule, ok = entry.actions[action]
	if !ok {
		return nil, true, false
	}
	return rule, true, true
}

// Resources returns all resource names in definition order.
func (m *Matrix) Resources() []string {
	return m.order
}

// Actions returns the actions defined for a resource, in definition order.
func (m *Matrix) Actions(resource string) []string {
	entry, ok := m.resources[resource]
	if !ok {
		return nil
	}
	return entry.order
}

// Validate checks every entry for configuration errors: missing or unknown
// roles, invalid identifiers. A failure here is a deployment bug and should
// abort startup, not surface per request.
func (m *Matrix) Validate() error {
	for _, resource := range m.order {
		if err := validateIdentifier(resource); err != nil {
			return err
		}
		entry := m.resources[resource]
		for _, action := range entry.order {
			if err := validateIdentifier(action); err != nil {
				return err
			}
			rule := entry.actions[action]
			if rule.MinRole == "" && len(rule.AlsoAllow) == 0 {
				return NewError(ErrInvalidMatrix, "entry grants nothing: no minimum role and no allowed roles").
					WithEntry(resource, action)
			}
			if rule.MinRole != "" {
				if !rule.MinRole.IsValid() {
					return NewError(ErrInvalidMatrix, "entry names unknown minimum role").
						WithEntry(resource, action).WithRole(rule.MinRole)
				}
				if rule.MinRole.IsFranchise() {
					return NewError(ErrInvalidMatrix, "franchise roles are matched exactly, use AlsoAllow").
						WithEntry(resource, action).WithRole(rule.MinRole)
				}
			}
			for _, role := range rule.AlsoAllow {
				if !role.IsValid() {
					return NewError(ErrInvalidMatrix, "entry allows unknown role").
						WithEntry(resource, action).WithRole(role)
				}
			}
		}
	}
	return nil
}

// MustValidate panics on an invalid matrix. Intended for startup paths.
func (m *Matrix) MustValidate() *Matrix {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ResourceBuilder configures the entries of one resource.
type ResourceBuilder struct {
	entry *resourceEntry
}

// Action starts defining an entry for an action on this resource.
func (b *ResourceBuilder) Action(name string) *ActionBuilder {
	rule, ok := b.entry.actions[name]
	if !ok {
		rule = &PermissionRule{Resource: b.entry.name, Action: name}
		b.entry.actions[name] = rule
		b.entry.order = append(b.entry.order, name)
	}
	return &ActionBuilder{rule: rule, resource: b}
}

// Resource continues defining resources on the matrix (fluent API).
func (b *ResourceBuilder) Resource(name string) *ResourceBuilder {
	return b.entry.matrix.Resource(name)
}

// Matrix returns the finished matrix.
func (b *ResourceBuilder) Matrix() *Matrix {
	return b.entry.matrix
}

// ActionBuilder configures a single matrix entry.
type ActionBuilder struct {
	rule     *PermissionRule
	resource *ResourceBuilder
}

// MinRole sets the minimum linear role for the entry.
func (b *ActionBuilder) MinRole(role Role) *ActionBuilder {
	b.rule.MinRole = role
	return b
}

// AlsoAllow admits additional roles by exact identity.
func (b *ActionBuilder) AlsoAllow(roles ...Role) *ActionBuilder {
	b.rule.AlsoAllow = append(b.rule.AlsoAllow, roles...)
	return b
}

// RequireBusiness makes a business context mandatory for the entry.
func (b *ActionBuilder) RequireBusiness() *ActionBuilder {
	b.rule.BusinessContextRequired = true
	return b
}

// Condition adds an extra condition the caller must supply verbatim.
func (b *ActionBuilder) Condition(key, value string) *ActionBuilder {
	if b.rule.ExtraConditions == nil {
		b.rule.ExtraConditions = make(map[string]string)
	}
	b.rule.ExtraConditions[key] = value
	return b
}

// Action continues defining actions on the same resource (fluent API).
func (b *ActionBuilder) Action(name string) *ActionBuilder {
	return b.resource.Action(name)
}

// Resource continues defining resources on the matrix (fluent API).
func (b *ActionBuilder) Resource(name string) *ResourceBuilder {
	return b.resource.Resource(name)
}

// Matrix returns the finished matrix.
func (b *ActionBuilder) Matrix() *Matrix {
	return b.resource.Matrix()
}

// ConditionBusinessVerified is the conventional extra-condition key for
// entries that only apply within a verified business registration. The
// service layer fills it from the resolved registration.
const ConditionBusinessVerified = "business_verified"

// DefaultMatrix returns the product permission table.
func DefaultMatrix() *Matrix {
	return NewMatrix().
		Resource("profile").
		Action("read").MinRole(RoleSeeker).
		Action("update").MinRole(RoleSeeker).
		Resource("jobs").
		Action("browse").MinRole(RoleSeeker).
		Action("apply").MinRole(RoleSeeker).
		Resource("attendance").
		Action("read").MinRole(RoleWorker).RequireBusiness().
		Action("record").MinRole(RoleWorker).RequireBusiness().
		Action("approve").MinRole(RoleManager).RequireBusiness().
		Resource("schedules").
		Action("read").MinRole(RoleWorker).RequireBusiness().
		Action("manage").MinRole(RoleSupervisor).RequireBusiness().
		Resource("employment").
		Action("list").MinRole(RoleManager).RequireBusiness().
		Action("offer").MinRole(RoleOwner).RequireBusiness().
		Action("terminate").MinRole(RoleOwner).RequireBusiness().
		Resource("business").
		Action("read").MinRole(RoleWorker).RequireBusiness().
		Action("update").MinRole(RoleOwner).RequireBusiness().
		Condition(ConditionBusinessVerified, "true").
		Resource("payroll").
		Action("read").MinRole(RoleSupervisor).RequireBusiness().
		Action("approve").MinRole(RoleOwner).RequireBusiness().
		Condition(ConditionBusinessVerified, "true").
		Resource("franchise").
		Action("report").AlsoAllow(RoleFranchisee, RoleFranchisor).RequireBusiness().
		Action("enroll").AlsoAllow(RoleFranchisor).RequireBusiness().
		Matrix().
		MustValidate()
}
