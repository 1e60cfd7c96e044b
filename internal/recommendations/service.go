package recommendations

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/sanitize"
)

// RecommendationService defines the business logic contract for
// recommendations.
type RecommendationService interface {
	Create(ctx context.Context, assigneeID string, req CreateRequest) (*Recommendation, error)
	Get(ctx context.Context, assigneeID, id string) (*Recommendation, error)
	List(ctx context.Context, assigneeID string) ([]Recommendation, error)
	Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Recommendation, error)
	Delete(ctx context.Context, assigneeID, id string) error
}

type recommendationService struct {
	repo RecommendationRepository
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(repo RecommendationRepository) RecommendationService {
	return &recommendationService{repo: repo}
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", apperror.NewValidation("url must be an http(s) link")
	}
	return u.String(), nil
}

func (s *recommendationService) Create(ctx context.Context, assigneeID string, req CreateRequest) (*Recommendation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	link, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Recommendation{
		ID:         uuid.NewString(),
		Title:      title,
		Body:       sanitize.HTML(req.Body),
		URL:        link,
		AssigneeID: assigneeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating recommendation: %w", err))
	}
	return rec, nil
}

func (s *recommendationService) Get(ctx context.Context, assigneeID, id string) (*Recommendation, error) {
	rec, err := s.repo.FindByID(ctx, assigneeID, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding recommendation: %w", err))
	}
	return rec, nil
}

func (s *recommendationService) List(ctx context.Context, assigneeID string) ([]Recommendation, error) {
	recs, err := s.repo.List(ctx, assigneeID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing recommendations: %w", err))
	}
	return recs, nil
}

func (s *recommendationService) Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Recommendation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	link, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		ID:         id,
		Title:      title,
		Body:       sanitize.HTML(req.Body),
		URL:        link,
		AssigneeID: assigneeID,
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating recommendation: %w", err))
	}
	return s.repo.FindByID(ctx, assigneeID, id)
}

func (s *recommendationService) Delete(ctx context.Context, assigneeID, id string) error {
	if err := s.repo.Delete(ctx, assigneeID, id); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting recommendation: %w", err))
	}
	return nil
}
