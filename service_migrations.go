package paperkit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required for PaperKit.
// Use dbkit.Migrate(ctx, ms.Migrations()) to run migrations.
// Use dbkit.MigrationStatus(ctx, ms.Migrations()) to check status.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "paperkit-001",
			Description: "Create identities table",
			SQL: `
                CREATE TABLE IF NOT EXISTS identities (
                    id TEXT PRIMARY KEY,
                    kind TEXT NOT NULL,
                    linked_personal_id TEXT,
                    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
                    is_active BOOLEAN NOT NULL DEFAULT TRUE,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp,
                    CHECK (kind <> 'corporate' OR linked_personal_id <> '')
                )`,
		},
		{
			ID:          "paperkit-002",
			Description: "Create business_registrations table",
			SQL: `
                CREATE TABLE IF NOT EXISTS business_registrations (
                    id TEXT PRIMARY KEY,
                    owner_identity_id TEXT NOT NULL,
                    name TEXT,
                    is_active BOOLEAN NOT NULL DEFAULT TRUE,
                    verification_status TEXT NOT NULL DEFAULT 'pending',
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "paperkit-003",
			Description: "Create papers table",
			SQL: `
                CREATE TABLE IF NOT EXISTS papers (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    type TEXT NOT NULL,
                    owner_identity_id TEXT NOT NULL,
                    business_id TEXT,
                    valid_from TIMESTAMPTZ NOT NULL,
                    valid_until TIMESTAMPTZ,
                    is_active BOOLEAN NOT NULL DEFAULT TRUE,
                    created_at TIMESTAMPTZ DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ DEFAULT current_timestamp
                );
                CREATE INDEX IF NOT EXISTS papers_owner_idx ON papers (owner_identity_id);
                CREATE INDEX IF NOT EXISTS papers_business_idx ON papers (business_id)`,
		},
		{
			ID:          "paperkit-004",
			Description: "Create paper_audit_log table",
			SQL: `
                CREATE TABLE IF NOT EXISTS paper_audit_log (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    timestamp TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    actor_id TEXT NOT NULL,
                    action TEXT NOT NULL,
                    paper_id TEXT NOT NULL,
                    paper_type TEXT NOT NULL,
                    owner_identity_id TEXT NOT NULL,
                    business_id TEXT,
                    previous_valid_until TIMESTAMPTZ,
                    new_valid_until TIMESTAMPTZ,
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT,
                    metadata JSONB
                )`,
		},
	}
}
