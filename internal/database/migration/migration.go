package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelQuery reports whether the schema has been applied.
const sentinelQuery = "SELECT to_regclass('public.dms_requests') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_sequence_dms_request_seq",
		SQL:  `CREATE SEQUENCE IF NOT EXISTS dms_request_seq START 1;`,
	},
	{
		Name: "create_table_library_items",
		SQL: `CREATE TABLE IF NOT EXISTS library_items (
  id           UUID        PRIMARY KEY,
  request_id   TEXT        UNIQUE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  status       TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_library_items_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_library_items_created_at ON library_items (created_at);`,
	},
	{
		Name: "create_table_access_grants",
		SQL: `CREATE TABLE IF NOT EXISTS access_grants (
  id             UUID        PRIMARY KEY,
  approver_id    TEXT        NOT NULL,
  approver_name  TEXT        NOT NULL DEFAULT '',
  approver_email TEXT        NOT NULL DEFAULT '',
  department     TEXT        NOT NULL,
  level          TEXT        NOT NULL CHECK (level IN ('L1', 'L2', 'L3')),
  active         BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (approver_id, department, level)
);`,
	},
	{
		Name: "create_index_access_grants_department",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_access_grants_department ON access_grants (department, level) WHERE active;`,
	},
	{
		Name: "create_table_approval_levels",
		SQL: `CREATE TABLE IF NOT EXISTS approval_levels (
  id                     UUID        PRIMARY KEY,
  request_id             TEXT        NOT NULL,
  level                  TEXT        NOT NULL CHECK (level IN ('L1 Approval', 'L2 Approval', 'L3 Approval')),
  level_status           TEXT        NOT NULL CHECK (level_status IN ('NotStarted', 'Pending', 'Approved', 'Rejected')),
  assigned_approver_id   TEXT        NOT NULL,
  assigned_approver_name TEXT        NOT NULL DEFAULT '',
  acting_approver_id     TEXT        NOT NULL DEFAULT '',
  acting_approver_name   TEXT        NOT NULL DEFAULT '',
  decided_at             TIMESTAMPTZ,
  comments               TEXT        NOT NULL DEFAULT '',
  version                INTEGER     NOT NULL DEFAULT 1,
  created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (request_id, level)
);`,
	},
	{
		Name: "create_index_approval_levels_assigned",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_approval_levels_assigned ON approval_levels (assigned_approver_id, level_status);`,
	},
	{
		Name: "create_index_approval_levels_acting",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_approval_levels_acting ON approval_levels (acting_approver_id, level_status);`,
	},
	{
		// Last table: its presence marks the schema as applied.
		Name: "create_table_dms_requests",
		SQL: `CREATE TABLE IF NOT EXISTS dms_requests (
  request_id      TEXT        PRIMARY KEY,
  folder_url      TEXT        NOT NULL DEFAULT '',
  status          TEXT        NOT NULL CHECK (status IN ('InProgress', 'Completed', 'Rejected')),
  level_status    TEXT        NOT NULL,
  requester_name  TEXT        NOT NULL DEFAULT '',
  requester_email TEXT        NOT NULL,
  department      TEXT        NOT NULL,
  renewal_date    DATE,
  version         INTEGER     NOT NULL DEFAULT 1,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_dms_requests_requester",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dms_requests_requester ON dms_requests (requester_email, created_at DESC);`,
	},
}

// EnsureMigrated checks if the 'dms_requests' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
