package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ogonek-app/backend/internal/apperror"
)

// FileRepository defines the data access contract for file metadata.
// Every query binds the owner's id.
type FileRepository interface {
	Create(ctx context.Context, file *StoredFile) error
	FindByID(ctx context.Context, assigneeID, id string) (*StoredFile, error)
	List(ctx context.Context, assigneeID string) ([]StoredFile, error)
	Delete(ctx context.Context, assigneeID, id string) error
}

type fileRepository struct {
	db *sql.DB
}

// NewFileRepository creates a new file metadata repository.
func NewFileRepository(db *sql.DB) FileRepository {
	return &fileRepository{db: db}
}

const fileColumns = `id, original_name, disk_name, mime_type, size, assignee_id, created_at`

func scanFile(row interface{ Scan(...any) error }, f *StoredFile) error {
	return row.Scan(
		&f.ID, &f.OriginalName, &f.DiskName, &f.MimeType, &f.Size,
		&f.AssigneeID, &f.CreatedAt,
	)
}

func (r *fileRepository) Create(ctx context.Context, file *StoredFile) error {
	query := `INSERT INTO files (` + fileColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.OriginalName, file.DiskName, file.MimeType, file.Size,
		file.AssigneeID, file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting file record: %w", err)
	}
	return nil
}

func (r *fileRepository) FindByID(ctx context.Context, assigneeID, id string) (*StoredFile, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ? AND assignee_id = ?`

	file := &StoredFile{}
	err := scanFile(r.db.QueryRowContext(ctx, query, id, assigneeID), file)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying file by id: %w", err)
	}
	return file, nil
}

func (r *fileRepository) List(ctx context.Context, assigneeID string) ([]StoredFile, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE assignee_id = ?
	          ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var out []StoredFile
	for rows.Next() {
		var f StoredFile
		if err := scanFile(rows, &f); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *fileRepository) Delete(ctx context.Context, assigneeID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM files WHERE id = ? AND assignee_id = ?`, id, assigneeID)
	if err != nil {
		return fmt.Errorf("deleting file record: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("file not found")
	}
	return nil
}
