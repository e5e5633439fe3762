package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"docflow/internal/database"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// AccessGrantPostgres is a PostgreSQL implementation of repository.AccessGrantRepository.
type AccessGrantPostgres struct {
	db *sql.DB
}

func NewAccessGrantPostgres(db *sql.DB) *AccessGrantPostgres {
	return &AccessGrantPostgres{db: db}
}

var _ repository.AccessGrantRepository = (*AccessGrantPostgres)(nil)

const grantColumns = `id, approver_id, approver_name, approver_email, department, level, active, created_at`

func (r *AccessGrantPostgres) ListByApprover(ctx context.Context, approverID string) ([]model.AccessGrant, error) {
	const q = `SELECT ` + grantColumns + ` FROM access_grants
		WHERE approver_id = $1 AND active
		ORDER BY department ASC, level ASC`
	return r.list(ctx, q, approverID)
}

func (r *AccessGrantPostgres) ListByDepartment(ctx context.Context, department string) ([]model.AccessGrant, error) {
	const q = `SELECT ` + grantColumns + ` FROM access_grants
		WHERE department = $1 AND active
		ORDER BY created_at ASC, approver_id ASC`
	return r.list(ctx, q, department)
}

func (r *AccessGrantPostgres) Upsert(ctx context.Context, g *model.AccessGrant) error {
	const q = `
		INSERT INTO access_grants (id, approver_id, approver_name, approver_email, department, level, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (approver_id, department, level) DO UPDATE
		SET approver_name = EXCLUDED.approver_name,
			approver_email = EXCLUDED.approver_email,
			active = EXCLUDED.active
		RETURNING id, created_at
	`
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	return database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, q,
		g.ID,
		g.ApproverID,
		g.ApproverName,
		g.ApproverEmail,
		g.Department,
		string(g.Level),
		g.Active,
		g.CreatedAt,
	).Scan(&g.ID, &g.CreatedAt)
}

func (r *AccessGrantPostgres) list(ctx context.Context, q string, arg string) ([]model.AccessGrant, error) {
	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AccessGrant, 0)
	for rows.Next() {
		var (
			g     model.AccessGrant
			level string
		)
		if err := rows.Scan(&g.ID, &g.ApproverID, &g.ApproverName, &g.ApproverEmail, &g.Department, &level, &g.Active, &g.CreatedAt); err != nil {
			return nil, err
		}
		if g.Level, err = model.ParseLevel(level); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
