package paperkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// PaperStore defines the read surface the decision engine needs. The pure
// core never touches it; only the Service does, before handing materialized
// data to ComputeRoles and Evaluate.
type PaperStore interface {
	GetIdentity(ctx context.Context, identityID string) (*Identity, error)
	GetPapers(ctx context.Context, identityID string) ([]Paper, error)
	GetBusinessRegistrations(ctx context.Context, identityID string) ([]BusinessRegistration, error)
	PapersVersion(ctx context.Context, identityID string) (int64, error)
}

// PaperIssuer defines the paper lifecycle write surface.
type PaperIssuer interface {
	IssuePaper(ctx context.Context, paper *Paper) error
	ExtendPaper(ctx context.Context, paperID string, until time.Time) error
	DeactivatePaper(ctx context.Context, paperID string) error
	IssueMultiple(ctx context.Context, papers []*Paper) error
}

// PermissionChecker defines the decision surface consumed by HTTP/RPC layers.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, identityID, resource, action, businessID string, conditions map[string]string) (PermissionResult, error)
	CheckBulkPermissions(ctx context.Context, identityID string, requests []PermissionRequest) (map[string]PermissionResult, error)
	GetPermissionMatrix(ctx context.Context, identityID, businessID string) (MatrixResult, error)
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MigrationManager defines the migration management interface
type MigrationManager interface {
	Migrations() []dbkit.Migration
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// AuditLogger defines the audit logging interface
type AuditLogger interface {
	logAudit(ctx context.Context, entry *AuditEntry) error
}

// DecisionMonitor defines the decision metrics interface
type DecisionMonitor interface {
	GetDecisionMetrics() DecisionMetrics
	ResetDecisionMetrics()
}
