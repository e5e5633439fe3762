package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"docflow/internal/model"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const requestColumns = `r.request_id, r.folder_url, r.status, r.level_status, r.requester_name,
	r.requester_email, r.department, r.renewal_date, r.version, r.created_at`

const levelColumns = `l.id, l.request_id, l.level, l.level_status, l.assigned_approver_id,
	l.assigned_approver_name, l.acting_approver_id, l.acting_approver_name, l.decided_at,
	l.comments, l.version, l.created_at`

func requestDest(r *model.Request) []any {
	return []any{
		&r.RequestID,
		&r.FolderURL,
		&r.Status,
		&r.LevelStatus,
		&r.RequesterName,
		&r.RequesterEmail,
		&r.Department,
		&r.RenewalDate,
		&r.Version,
		&r.Created,
	}
}

// levelRow holds the columns that need conversion after scanning.
type levelRow struct {
	model.ApprovalLevel
	label     string
	decidedAt sql.NullTime
}

func (lr *levelRow) dest() []any {
	return []any{
		&lr.ID,
		&lr.RequestID,
		&lr.label,
		&lr.LevelStatus,
		&lr.AssignedApproverID,
		&lr.AssignedApproverName,
		&lr.ActingApproverID,
		&lr.ActingApproverName,
		&lr.decidedAt,
		&lr.Comments,
		&lr.Version,
		&lr.Created,
	}
}

func (lr *levelRow) finish() (model.ApprovalLevel, error) {
	lvl, err := model.ParseLevel(lr.label)
	if err != nil {
		return model.ApprovalLevel{}, fmt.Errorf("approval level %s: %w", lr.ID, err)
	}
	out := lr.ApprovalLevel
	out.Level = lvl
	if lr.decidedAt.Valid {
		t := lr.decidedAt.Time
		out.DecidedAt = &t
	}
	return out, nil
}

func scanLevel(s rowScanner) (model.ApprovalLevel, error) {
	var lr levelRow
	if err := s.Scan(lr.dest()...); err != nil {
		return model.ApprovalLevel{}, err
	}
	return lr.finish()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
