// Package paperkit derives access roles from documents instead of static
// role assignments, and answers permission questions against them.
//
// An identity (a person or a company) never carries a role column. It owns
// Papers: typed, time-bounded documents, optionally scoped to a business
// registration. An employment contract, a delegation of authority, a
// business registration certificate. The roles an identity holds at any
// moment are computed from the papers that are currently valid, through a
// static table of derivation rules. When a paper expires or is revoked,
// every role that depended on it disappears with it.
//
// # Core Concepts
//
// Paper: a typed document with a validity window, owned by exactly one
// identity and optionally scoped to one business. Papers are the sole
// evidence for role eligibility.
//
// Role: one of a closed, ordered set. Seeker < Worker < {Manager,
// Supervisor} < Owner form the linear family compared by rank. Franchisee
// and Franchisor form the franchise family, matched by exact identity only.
//
// DerivationRule: "these paper types, plus these already-held roles in the
// same business scope, yield this role." Rules are data, not code paths.
//
// PermissionRule: a matrix entry mapping (resource, action) to a minimum
// role, a business-context requirement and optional extra conditions.
//
// # Basic Usage
//
//	// 1. Build the static tables (at application startup)
//	rules := paperkit.DefaultRules()
//	matrix := paperkit.DefaultMatrix()
//
//	// 2. Create the service on top of your database
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := paperkit.NewService(rules, matrix, db)
//
//	// 3. Run migrations
//	db.Migrate(ctx, paperkit.NewMigrationService(service).Migrations())
//
//	// 4. Issue papers
//	service.IssuePaper(ctx, &paperkit.Paper{
//	    Type:            paperkit.PaperEmploymentContract,
//	    OwnerIdentityID: identityID,
//	    BusinessID:      businessID,
//	    ValidFrom:       time.Now(),
//	    IsActive:        true,
//	})
//
//	// 5. Ask questions
//	result, _ := service.CheckPermission(ctx, identityID, "attendance", "approve",
//	    businessID, nil)
//	if result.Granted {
//	    // identity holds Manager (or better) in this business
//	}
//
// The decision core itself is pure: ComputeRoles, Evaluate, EvaluateBulk and
// ResolveBusiness operate only on data handed to them, hold no state and are
// safe for concurrent use. The Service wires them to the paper store, a
// computed-role cache and an audit log.
//
// # Decisions Are Values
//
// Every outcome, including "denied", is a normal result. Evaluate returns a
// PermissionResult with a DecisionCode the caller can branch on; it never
// returns an error for a denial. Errors are reserved for broken static
// configuration (caught at startup) and for database failures in the
// service layer.
//
// # Middleware Usage
//
//	mw := paperkit.NewMiddleware(service)
//
//	router.With(mw.RequirePermission("attendance", "approve",
//	    paperkit.BusinessFromParam("businessID"))).
//	    Post("/businesses/{businessID}/attendance/approve", approveHandler)
package paperkit
