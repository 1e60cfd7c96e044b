package comments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/sanitize"
)

// CommentService defines the business logic contract for comments.
type CommentService interface {
	Create(ctx context.Context, assigneeID string, req CreateRequest) (*Comment, error)
	Get(ctx context.Context, assigneeID, id string) (*Comment, error)
	List(ctx context.Context, assigneeID string) ([]Comment, error)
	Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Comment, error)
	Delete(ctx context.Context, assigneeID, id string) error
}

type commentService struct {
	repo CommentRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(repo CommentRepository) CommentService {
	return &commentService{repo: repo}
}

func (s *commentService) Create(ctx context.Context, assigneeID string, req CreateRequest) (*Comment, error) {
	body := sanitize.HTML(req.Body)
	if strings.TrimSpace(body) == "" {
		return nil, apperror.NewValidation("body is required")
	}
	if req.TaskID != nil && req.LessonID != nil {
		return nil, apperror.NewValidation("a comment can reference a task or a lesson, not both")
	}
	if err := s.checkAnchor(ctx, assigneeID, req.TaskID, req.LessonID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &Comment{
		ID:         uuid.NewString(),
		Body:       body,
		TaskID:     req.TaskID,
		LessonID:   req.LessonID,
		AssigneeID: assigneeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating comment: %w", err))
	}
	return comment, nil
}

// checkAnchor verifies that the referenced task or lesson resolves
// through the caller's own rows. Absent and foreign ids fail the same
// way, so creating a comment cannot confirm that another user's
// resource exists.
func (s *commentService) checkAnchor(ctx context.Context, assigneeID string, taskID, lessonID *string) error {
	if taskID != nil {
		ok, err := s.repo.TaskExists(ctx, assigneeID, *taskID)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("checking task anchor: %w", err))
		}
		if !ok {
			return apperror.NewNotFound("task not found")
		}
	}
	if lessonID != nil {
		ok, err := s.repo.LessonExists(ctx, assigneeID, *lessonID)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("checking lesson anchor: %w", err))
		}
		if !ok {
			return apperror.NewNotFound("lesson not found")
		}
	}
	return nil
}

func (s *commentService) Get(ctx context.Context, assigneeID, id string) (*Comment, error) {
	comment, err := s.repo.FindByID(ctx, assigneeID, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding comment: %w", err))
	}
	return comment, nil
}

func (s *commentService) List(ctx context.Context, assigneeID string) ([]Comment, error) {
	comments, err := s.repo.List(ctx, assigneeID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing comments: %w", err))
	}
	return comments, nil
}

func (s *commentService) Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Comment, error) {
	body := sanitize.HTML(req.Body)
	if strings.TrimSpace(body) == "" {
		return nil, apperror.NewValidation("body is required")
	}

	comment := &Comment{
		ID:         id,
		Body:       body,
		AssigneeID: assigneeID,
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating comment: %w", err))
	}
	return s.repo.FindByID(ctx, assigneeID, id)
}

func (s *commentService) Delete(ctx context.Context, assigneeID, id string) error {
	if err := s.repo.Delete(ctx, assigneeID, id); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting comment: %w", err))
	}
	return nil
}
