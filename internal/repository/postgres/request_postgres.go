package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docflow/internal/database"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// RequestPostgres is a PostgreSQL implementation of repository.RequestRepository.
type RequestPostgres struct {
	db *sql.DB
}

// NewRequestPostgres creates a new RequestPostgres repository.
func NewRequestPostgres(db *sql.DB) *RequestPostgres {
	return &RequestPostgres{db: db}
}

var _ repository.RequestRepository = (*RequestPostgres)(nil)

// NextRequestID draws from the dms_request_seq sequence. Sequence values are not
// returned on rollback, so ids may have gaps.
func (r *RequestPostgres) NextRequestID(ctx context.Context) (string, error) {
	var n int64
	if err := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT nextval('dms_request_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("Req%05d", n), nil
}

func (r *RequestPostgres) Create(ctx context.Context, req *model.Request) error {
	const q = `
		INSERT INTO dms_requests (request_id, folder_url, status, level_status, requester_name,
			requester_email, department, renewal_date, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, q,
		req.RequestID,
		req.FolderURL,
		string(req.Status),
		req.LevelStatus,
		req.RequesterName,
		req.RequesterEmail,
		req.Department,
		req.RenewalDate,
		req.Version,
		req.Created,
	)
	return err
}

func (r *RequestPostgres) FindByRequestID(ctx context.Context, requestID string) (*model.Request, error) {
	q := `SELECT ` + requestColumns + ` FROM dms_requests r WHERE r.request_id = $1`
	var out model.Request
	if err := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, q, requestID).Scan(requestDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus is a compare-and-swap on version.
func (r *RequestPostgres) UpdateStatus(ctx context.Context, req *model.Request) error {
	const q = `
		UPDATE dms_requests
		SET status = $1, level_status = $2, version = version + 1
		WHERE request_id = $3 AND version = $4
	`
	res, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, q,
		string(req.Status),
		req.LevelStatus,
		req.RequestID,
		req.Version,
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
	req.Version++
	return nil
}

func (r *RequestPostgres) ListByAssignment(ctx context.Context, aq repository.AssignmentQuery) ([]model.Assignment, error) {
	approverColumn := "l.assigned_approver_id"
	if aq.ByActing {
		approverColumn = "l.acting_approver_id"
	}
	q := `SELECT ` + requestColumns + `, ` + levelColumns + `
		FROM approval_levels l
		JOIN dms_requests r ON r.request_id = l.request_id
		WHERE ` + approverColumn + ` = $1 AND l.level_status = $2
		ORDER BY r.created_at DESC, r.request_id DESC, l.level ASC`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, q, aq.ApproverID, string(aq.LevelStatus))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Assignment, 0)
	for rows.Next() {
		var (
			req model.Request
			lr  levelRow
		)
		if err := rows.Scan(append(requestDest(&req), lr.dest()...)...); err != nil {
			return nil, err
		}
		lvl, err := lr.finish()
		if err != nil {
			return nil, err
		}
		out = append(out, model.Assignment{Request: req, Level: lvl})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RequestPostgres) ListByRequester(ctx context.Context, email string) ([]model.Request, error) {
	q := `SELECT ` + requestColumns + ` FROM dms_requests r
		WHERE r.requester_email = $1
		ORDER BY r.created_at DESC, r.request_id DESC`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Request, 0)
	for rows.Next() {
		var req model.Request
		if err := rows.Scan(requestDest(&req)...); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
