package recommendations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ogonek-app/backend/internal/apperror"
)

// RecommendationRepository defines the data access contract for
// recommendations. Every query binds the owner's id.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *Recommendation) error
	FindByID(ctx context.Context, assigneeID, id string) (*Recommendation, error)
	List(ctx context.Context, assigneeID string) ([]Recommendation, error)
	Update(ctx context.Context, rec *Recommendation) error
	Delete(ctx context.Context, assigneeID, id string) error
}

type recommendationRepository struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new recommendation repository.
func NewRecommendationRepository(db *sql.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

const recommendationColumns = `id, title, body, url, assignee_id, created_at, updated_at`

func scanRecommendation(row interface{ Scan(...any) error }, rec *Recommendation) error {
	return row.Scan(
		&rec.ID, &rec.Title, &rec.Body, &rec.URL, &rec.AssigneeID,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
}

func (r *recommendationRepository) Create(ctx context.Context, rec *Recommendation) error {
	query := `INSERT INTO recommendations (` + recommendationColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.Body, rec.URL, rec.AssigneeID,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting recommendation: %w", err)
	}
	return nil
}

func (r *recommendationRepository) FindByID(ctx context.Context, assigneeID, id string) (*Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations
	          WHERE id = ? AND assignee_id = ?`

	rec := &Recommendation{}
	err := scanRecommendation(r.db.QueryRowContext(ctx, query, id, assigneeID), rec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("recommendation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying recommendation by id: %w", err)
	}
	return rec, nil
}

func (r *recommendationRepository) List(ctx context.Context, assigneeID string) ([]Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations
	          WHERE assignee_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		if err := scanRecommendation(rows, &rec); err != nil {
			return nil, fmt.Errorf("scanning recommendation row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *recommendationRepository) Update(ctx context.Context, rec *Recommendation) error {
	query := `UPDATE recommendations SET title = ?, body = ?, url = ?, updated_at = NOW()
	          WHERE id = ? AND assignee_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		rec.Title, rec.Body, rec.URL, rec.ID, rec.AssigneeID)
	if err != nil {
		return fmt.Errorf("updating recommendation: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("recommendation not found")
	}
	return nil
}

func (r *recommendationRepository) Delete(ctx context.Context, assigneeID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recommendations WHERE id = ? AND assignee_id = ?`, id, assigneeID)
	if err != nil {
		return fmt.Errorf("deleting recommendation: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("recommendation not found")
	}
	return nil
}
