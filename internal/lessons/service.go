package lessons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/sanitize"
)

// LessonService defines the business logic contract for lessons.
type LessonService interface {
	Create(ctx context.Context, assigneeID string, req CreateRequest) (*Lesson, error)
	Get(ctx context.Context, assigneeID, id string) (*Lesson, error)
	List(ctx context.Context, assigneeID string) ([]Lesson, error)
	Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Lesson, error)
	Patch(ctx context.Context, assigneeID, id string, req PatchRequest) (*Lesson, error)
	Delete(ctx context.Context, assigneeID, id string) error
}

type lessonService struct {
	repo LessonRepository
}

// NewLessonService creates a new lesson service.
func NewLessonService(repo LessonRepository) LessonService {
	return &lessonService{repo: repo}
}

func (s *lessonService) Create(ctx context.Context, assigneeID string, req CreateRequest) (*Lesson, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}

	now := time.Now().UTC()
	lesson := &Lesson{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    sanitize.HTML(req.Content),
		Category:   strings.TrimSpace(req.Category),
		Topic:      strings.TrimSpace(req.Topic),
		ManualDate: req.ManualDate,
		AssigneeID: assigneeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating lesson: %w", err))
	}
	return lesson, nil
}

func (s *lessonService) Get(ctx context.Context, assigneeID, id string) (*Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, assigneeID, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding lesson: %w", err))
	}
	return lesson, nil
}

func (s *lessonService) List(ctx context.Context, assigneeID string) ([]Lesson, error) {
	lessons, err := s.repo.List(ctx, assigneeID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing lessons: %w", err))
	}
	return lessons, nil
}

func (s *lessonService) Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Lesson, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}

	lesson := &Lesson{
		ID:         id,
		Title:      title,
		Content:    sanitize.HTML(req.Content),
		Category:   strings.TrimSpace(req.Category),
		Topic:      strings.TrimSpace(req.Topic),
		ManualDate: req.ManualDate,
		AssigneeID: assigneeID,
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating lesson: %w", err))
	}
	return s.repo.FindByID(ctx, assigneeID, id)
}

func (s *lessonService) Patch(ctx context.Context, assigneeID, id string, req PatchRequest) (*Lesson, error) {
	if req.Bookmarked == nil {
		return nil, apperror.NewValidation("nothing to update")
	}

	if err := s.repo.SetBookmarked(ctx, assigneeID, id, *req.Bookmarked); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating lesson bookmark: %w", err))
	}
	return s.repo.FindByID(ctx, assigneeID, id)
}

func (s *lessonService) Delete(ctx context.Context, assigneeID, id string) error {
	if err := s.repo.Delete(ctx, assigneeID, id); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting lesson: %w", err))
	}
	return nil
}
