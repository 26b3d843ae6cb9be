package paperkit

// DerivationRule maps a set of paper types, plus roles already confirmed in
// the same business scope, to a resulting role.
type DerivationRule struct {
	RequiredPaperTypes []PaperType
	Result             Role
	Prerequisites      []Role
	BusinessScoped     bool
}

// requiresEmploymentClass reports whether any required paper type is
// employment-class evidence. Such rules never fire for corporate
// identities.
func (r *DerivationRule) requiresEmploymentClass() bool {
	for _, t := range r.RequiredPaperTypes {
		if t.IsEmploymentClass() {
			return true
		}
	}
	return false
}

// Rules is the static derivation rule table. It is built once at startup
// with the fluent builder and treated as immutable afterwards.
type Rules struct {
	rules []*DerivationRule
}

// NewRules creates an empty rule table.
func NewRules() *Rules {
	return &Rules{}
}

// All returns the rules in definition order.
func (r *Rules) All() []*DerivationRule {
	return r.rules
}

// Derive starts defining a rule that yields the given role.
// Returns a RuleBuilder for fluent configuration.
//
// Example:
//
//	rules := paperkit.NewRules().
//	    Derive(paperkit.RoleWorker).From(paperkit.PaperEmploymentContract).
//	    Derive(paperkit.RoleManager).From(paperkit.PaperAuthorityDelegation).
//	        Requires(paperkit.RoleWorker).
//	    Rules()
func (r *Rules) Derive(result Role) *RuleBuilder {
	rule := &DerivationRule{Result: result, BusinessScoped: true}
	r.rules = append(r.rules, rule)
	return &RuleBuilder{rule: rule, rules: r}
}

// Validate checks the rule table for configuration errors: unknown roles,
// empty paper type sets, rules deriving the synthetic bottom role. A
// failure here is a deployment bug and should abort startup.
func (r *Rules) Validate() error {
	for _, rule := range r.rules {
		if !rule.Result.IsValid() {
			return NewError(ErrInvalidRule, "rule derives unknown role").WithRole(rule.Result)
		}
		if rule.Result == RoleSeeker {
			return NewError(ErrInvalidRule, "the bottom role is synthetic and cannot be derived").WithRole(rule.Result)
		}
		if len(rule.RequiredPaperTypes) == 0 {
			return NewError(ErrInvalidRule, "rule requires no paper types").WithRole(rule.Result)
		}
		for _, p := range rule.Prerequisites {
			if !p.IsValid() {
				return NewError(ErrInvalidRule, "rule lists unknown prerequisite role").WithRole(p)
			}
		}
	}
	return nil
}

// MustValidate panics on an invalid rule table. Intended for startup paths
// where a bad table must stop the process.
func (r *Rules) MustValidate() *Rules {
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}

// RuleBuilder configures a single derivation rule.
type RuleBuilder struct {
	rule  *DerivationRule
	rules *Rules
}

// From sets the paper types that must all be present in a scope for the
// rule to fire.
func (b *RuleBuilder) From(types ...PaperType) *RuleBuilder {
	b.rule.RequiredPaperTypes = append(b.rule.RequiredPaperTypes, types...)
	return b
}

// Requires sets roles that must already be confirmed in the same scope.
func (b *RuleBuilder) Requires(roles ...Role) *RuleBuilder {
	b.rule.Prerequisites = append(b.rule.Prerequisites, roles...)
	return b
}

// Unscoped marks the resulting role as never carrying a business scope.
func (b *RuleBuilder) Unscoped() *RuleBuilder {
	b.rule.BusinessScoped = false
	return b
}

// Derive continues defining rules on the table (fluent API).
func (b *RuleBuilder) Derive(result Role) *RuleBuilder {
	return b.rules.Derive(result)
}

// Rules returns the finished table.
func (b *RuleBuilder) Rules() *Rules {
	return b.rules
}

// DefaultRules returns the product derivation table.
//
// Worker comes from an employment contract. Manager and Supervisor come
// from an authority delegation or a supervision mandate on top of Worker in
// the same business. Owner comes from the business registration
// certificate. The franchise roles stack on Owner.
func DefaultRules() *Rules {
	return NewRules().
		Derive(RoleWorker).From(PaperEmploymentContract).
		Derive(RoleManager).From(PaperAuthorityDelegation).Requires(RoleWorker).
		Derive(RoleSupervisor).From(PaperSupervisionMandate).Requires(RoleWorker).
		Derive(RoleOwner).From(PaperBusinessRegistration).
		Derive(RoleFranchisee).From(PaperFranchiseAgreement).Requires(RoleOwner).
		Derive(RoleFranchisor).From(PaperFranchiseCharter).Requires(RoleOwner).
		Rules().
		MustValidate()
}
