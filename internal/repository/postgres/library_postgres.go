package postgres

import (
	"context"
	"database/sql"

	"docflow/internal/database"
	"docflow/internal/model"
	"docflow/internal/repository"
)

// LibraryItemPostgres is a PostgreSQL implementation of repository.LibraryItemRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type LibraryItemPostgres struct {
	db *sql.DB
}

// NewLibraryItemPostgres creates a new LibraryItemPostgres repository.
func NewLibraryItemPostgres(db *sql.DB) *LibraryItemPostgres {
	return &LibraryItemPostgres{db: db}
}

var _ repository.LibraryItemRepository = (*LibraryItemPostgres)(nil)

const itemColumns = `id, COALESCE(request_id, ''), filename, storage_path, size, content_type, status, created_at`

func itemDest(it *model.LibraryItem) []any {
	return []any{
		&it.ID,
		&it.RequestID,
		&it.Filename,
		&it.StoragePath,
		&it.Size,
		&it.ContentType,
		&it.Status,
		&it.CreatedAt,
	}
}

// Create inserts a new library item and returns the stored record.
func (r *LibraryItemPostgres) Create(ctx context.Context, item *model.LibraryItem) (*model.LibraryItem, error) {
	const q = `
		INSERT INTO library_items (id, filename, storage_path, size, content_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + itemColumns
	row := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, q,
		item.ID,
		item.Filename,
		item.StoragePath,
		item.Size,
		item.ContentType,
		item.Status,
		item.CreatedAt,
	)
	var out model.LibraryItem
	if err := row.Scan(itemDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LibraryItemPostgres) FindByID(ctx context.Context, id string) (*model.LibraryItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM library_items WHERE id = $1`
	var out model.LibraryItem
	if err := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, q, id).Scan(itemDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LibraryItemPostgres) FindByRequestID(ctx context.Context, requestID string) (*model.LibraryItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM library_items WHERE request_id = $1`
	var out model.LibraryItem
	if err := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, q, requestID).Scan(itemDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns library items using LIMIT/OFFSET pagination and a total count.
func (r *LibraryItemPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.LibraryItem], error) {
	exec := database.ExecutorFrom(ctx, r.db)

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM library_items`).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + itemColumns + `
		FROM library_items
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := exec.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LibraryItem, 0)
	for rows.Next() {
		var it model.LibraryItem
		if err := rows.Scan(itemDest(&it)...); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.LibraryItem]{
		Items: items,
		Total: total,
	}, nil
}

func (r *LibraryItemPostgres) AttachRequest(ctx context.Context, id, requestID, status string) error {
	const q = `UPDATE library_items SET request_id = $1, status = $2 WHERE id = $3`
	return r.execOne(ctx, q, requestID, status, id)
}

func (r *LibraryItemPostgres) UpdateStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE library_items SET status = $1 WHERE id = $2`
	return r.execOne(ctx, q, status, id)
}

// execOne runs an update that must touch exactly one row.
func (r *LibraryItemPostgres) execOne(ctx context.Context, q string, args ...any) error {
	res, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
