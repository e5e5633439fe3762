package postgres

import (
	"context"
	"database/sql"

	"docflow/internal/database"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// ApprovalLevelPostgres is a PostgreSQL implementation of repository.ApprovalLevelRepository.
// Levels are stored by label ("L1 Approval").
type ApprovalLevelPostgres struct {
	db *sql.DB
}

func NewApprovalLevelPostgres(db *sql.DB) *ApprovalLevelPostgres {
	return &ApprovalLevelPostgres{db: db}
}

var _ repository.ApprovalLevelRepository = (*ApprovalLevelPostgres)(nil)

func (r *ApprovalLevelPostgres) Create(ctx context.Context, l *model.ApprovalLevel) error {
	const q = `
		INSERT INTO approval_levels (id, request_id, level, level_status, assigned_approver_id,
			assigned_approver_name, acting_approver_id, acting_approver_name, decided_at,
			comments, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, q,
		l.ID,
		l.RequestID,
		l.Level.Label(),
		string(l.LevelStatus),
		l.AssignedApproverID,
		l.AssignedApproverName,
		l.ActingApproverID,
		l.ActingApproverName,
		nullableTime(l.DecidedAt),
		l.Comments,
		l.Version,
		l.Created,
	)
	return err
}

func (r *ApprovalLevelPostgres) ListByRequestID(ctx context.Context, requestID string) ([]model.ApprovalLevel, error) {
	q := `SELECT ` + levelColumns + ` FROM approval_levels l WHERE l.request_id = $1 ORDER BY l.level ASC`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ApprovalLevel, 0, len(model.Levels))
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is a compare-and-swap on version and the expected level status.
func (r *ApprovalLevelPostgres) Update(ctx context.Context, l *model.ApprovalLevel, expected model.LevelStatus) error {
	const q = `
		UPDATE approval_levels
		SET level_status = $1, acting_approver_id = $2, acting_approver_name = $3,
			decided_at = $4, comments = $5, version = version + 1
		WHERE id = $6 AND version = $7 AND level_status = $8
	`
	res, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, q,
		string(l.LevelStatus),
		l.ActingApproverID,
		l.ActingApproverName,
		nullableTime(l.DecidedAt),
		l.Comments,
		l.ID,
		l.Version,
		string(expected),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrVersionMismatch
	}
	l.Version++
	return nil
}
