package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ogonek-app/backend/internal/apperror"
)

// CommentRepository defines the data access contract for comments. Every
// query binds the owner's id; rows belonging to other users are invisible.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, assigneeID, id string) (*Comment, error)
	List(ctx context.Context, assigneeID string) ([]Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, assigneeID, id string) error
	TaskExists(ctx context.Context, assigneeID, id string) (bool, error)
	LessonExists(ctx context.Context, assigneeID, id string) (bool, error)
}

type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `id, body, task_id, lesson_id, assignee_id, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }, c *Comment) error {
	return row.Scan(
		&c.ID, &c.Body, &c.TaskID, &c.LessonID, &c.AssigneeID,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *commentRepository) Create(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (` + commentColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Body, comment.TaskID, comment.LessonID,
		comment.AssigneeID, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, assigneeID, id string) (*Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ? AND assignee_id = ?`

	comment := &Comment{}
	err := scanComment(r.db.QueryRowContext(ctx, query, id, assigneeID), comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("comment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying comment by id: %w", err)
	}
	return comment, nil
}

func (r *commentRepository) List(ctx context.Context, assigneeID string) ([]Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE assignee_id = ?
	          ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Update(ctx context.Context, comment *Comment) error {
	query := `UPDATE comments SET body = ?, updated_at = NOW()
	          WHERE id = ? AND assignee_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		comment.Body, comment.ID, comment.AssigneeID)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("comment not found")
	}
	return nil
}

// TaskExists reports whether a task with the given id is owned by
// assigneeID. The anchor on a comment must resolve through the caller's
// own rows, same as any other read.
func (r *commentRepository) TaskExists(ctx context.Context, assigneeID, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ? AND assignee_id = ?)`,
		id, assigneeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking task anchor: %w", err)
	}
	return exists, nil
}

// LessonExists reports whether a lesson with the given id is owned by
// assigneeID.
func (r *commentRepository) LessonExists(ctx context.Context, assigneeID, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM lessons WHERE id = ? AND assignee_id = ?)`,
		id, assigneeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking lesson anchor: %w", err)
	}
	return exists, nil
}

func (r *commentRepository) Delete(ctx context.Context, assigneeID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND assignee_id = ?`, id, assigneeID)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("comment not found")
	}
	return nil
}
