package lessons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ogonek-app/backend/internal/apperror"
)

// LessonRepository defines the data access contract for lessons. Every
// query binds the owner's id; rows belonging to other users are invisible.
type LessonRepository interface {
	Create(ctx context.Context, lesson *Lesson) error
	FindByID(ctx context.Context, assigneeID, id string) (*Lesson, error)
	List(ctx context.Context, assigneeID string) ([]Lesson, error)
	Update(ctx context.Context, lesson *Lesson) error
	SetBookmarked(ctx context.Context, assigneeID, id string, bookmarked bool) error
	Delete(ctx context.Context, assigneeID, id string) error
}

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sql.DB) LessonRepository {
	return &lessonRepository{db: db}
}

const lessonColumns = `id, title, content, category, topic, bookmarked,
	manual_date, assignee_id, created_at, updated_at`

func scanLesson(row interface{ Scan(...any) error }, l *Lesson) error {
	return row.Scan(
		&l.ID, &l.Title, &l.Content, &l.Category, &l.Topic, &l.Bookmarked,
		&l.ManualDate, &l.AssigneeID, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *lessonRepository) Create(ctx context.Context, lesson *Lesson) error {
	query := `INSERT INTO lessons (` + lessonColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		lesson.ID, lesson.Title, lesson.Content, lesson.Category, lesson.Topic,
		lesson.Bookmarked, lesson.ManualDate, lesson.AssigneeID,
		lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting lesson: %w", err)
	}
	return nil
}

func (r *lessonRepository) FindByID(ctx context.Context, assigneeID, id string) (*Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ? AND assignee_id = ?`

	lesson := &Lesson{}
	err := scanLesson(r.db.QueryRowContext(ctx, query, id, assigneeID), lesson)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying lesson by id: %w", err)
	}
	return lesson, nil
}

// List returns lessons newest first, using the manual date when the tutor
// backdated the entry.
func (r *lessonRepository) List(ctx context.Context, assigneeID string) ([]Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE assignee_id = ?
	          ORDER BY COALESCE(manual_date, created_at) DESC`

	rows, err := r.db.QueryContext(ctx, query, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	var lessons []Lesson
	for rows.Next() {
		var l Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, fmt.Errorf("scanning lesson row: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *lessonRepository) Update(ctx context.Context, lesson *Lesson) error {
	query := `UPDATE lessons SET title = ?, content = ?, category = ?, topic = ?,
	          manual_date = ?, updated_at = NOW()
	          WHERE id = ? AND assignee_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		lesson.Title, lesson.Content, lesson.Category, lesson.Topic,
		lesson.ManualDate, lesson.ID, lesson.AssigneeID,
	)
	if err != nil {
		return fmt.Errorf("updating lesson: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("lesson not found")
	}
	return nil
}

func (r *lessonRepository) SetBookmarked(ctx context.Context, assigneeID, id string, bookmarked bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE lessons SET bookmarked = ?, updated_at = NOW() WHERE id = ? AND assignee_id = ?`,
		bookmarked, id, assigneeID,
	)
	if err != nil {
		return fmt.Errorf("updating lesson bookmark: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("lesson not found")
	}
	return nil
}

func (r *lessonRepository) Delete(ctx context.Context, assigneeID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM lessons WHERE id = ? AND assignee_id = ?`, id, assigneeID)
	if err != nil {
		return fmt.Errorf("deleting lesson: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("lesson not found")
	}
	return nil
}
