package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ogonek-app/backend/internal/apperror"
)

// TaskRepository defines the data access contract for tasks. Every read
// and write takes the owner's user id and binds it into the query -- the
// ownership filter is enforced in SQL, not in calling code, so a row
// belonging to another user is indistinguishable from an absent row.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, assigneeID, id string) (*Task, error)
	List(ctx context.Context, assigneeID string) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	SetCompleted(ctx context.Context, assigneeID, id string, completed bool) error
	Delete(ctx context.Context, assigneeID, id string) error
	FileExists(ctx context.Context, assigneeID, id string) (bool, error)
}

// taskRepository implements TaskRepository with hand-written MariaDB queries.
type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository backed by the given DB pool.
func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task row.
func (r *taskRepository) Create(ctx context.Context, task *Task) error {
	query := `INSERT INTO tasks (id, title, content, priority, completed, due_date,
	          file_id, assignee_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Content, task.Priority, task.Completed,
		task.DueDate, task.FileID, task.AssigneeID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// FindByID retrieves a single task owned by assigneeID. A task that exists
// but belongs to someone else returns NotFound.
func (r *taskRepository) FindByID(ctx context.Context, assigneeID, id string) (*Task, error) {
	query := `SELECT id, title, content, priority, completed, due_date,
	                 file_id, assignee_id, created_at, updated_at
	          FROM tasks WHERE id = ? AND assignee_id = ?`

	task := &Task{}
	err := r.db.QueryRowContext(ctx, query, id, assigneeID).Scan(
		&task.ID, &task.Title, &task.Content, &task.Priority, &task.Completed,
		&task.DueDate, &task.FileID, &task.AssigneeID, &task.CreatedAt, &task.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying task by id: %w", err)
	}

	return task, nil
}

// List returns all tasks owned by assigneeID, most urgent first.
func (r *taskRepository) List(ctx context.Context, assigneeID string) ([]Task, error) {
	query := `SELECT id, title, content, priority, completed, due_date,
	                 file_id, assignee_id, created_at, updated_at
	          FROM tasks WHERE assignee_id = ?
	          ORDER BY completed ASC, due_date IS NULL, due_date ASC, priority DESC`

	rows, err := r.db.QueryContext(ctx, query, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Content, &t.Priority, &t.Completed,
			&t.DueDate, &t.FileID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update replaces the mutable fields of a task owned by the caller.
func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	query := `UPDATE tasks SET title = ?, content = ?, priority = ?, due_date = ?,
	          file_id = ?, updated_at = NOW()
	          WHERE id = ? AND assignee_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Content, task.Priority, task.DueDate, task.FileID,
		task.ID, task.AssigneeID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("task not found")
	}

	return nil
}

// SetCompleted flips the completion flag on a task owned by assigneeID.
func (r *taskRepository) SetCompleted(ctx context.Context, assigneeID, id string, completed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = NOW() WHERE id = ? AND assignee_id = ?`,
		completed, id, assigneeID,
	)
	if err != nil {
		return fmt.Errorf("updating task completion: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("task not found")
	}

	return nil
}

// FileExists reports whether a file with the given id is owned by
// assigneeID. The attachment reference on a task must resolve through
// the caller's own files, same as any other read.
func (r *taskRepository) FileExists(ctx context.Context, assigneeID, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM files WHERE id = ? AND assignee_id = ?)`,
		id, assigneeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking file reference: %w", err)
	}
	return exists, nil
}

// Delete removes a task owned by assigneeID.
func (r *taskRepository) Delete(ctx context.Context, assigneeID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND assignee_id = ?`, id, assigneeID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("task not found")
	}

	return nil
}
