package tasks

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/sanitize"
)

// TaskService defines the business logic contract for tasks. The assignee
// id on every method is the authenticated caller, never a client-supplied
// value.
type TaskService interface {
	Create(ctx context.Context, assigneeID string, req CreateRequest) (*Task, error)
	Get(ctx context.Context, assigneeID, id string) (*Task, error)
	List(ctx context.Context, assigneeID string) ([]Task, error)
	Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Task, error)
	Patch(ctx context.Context, assigneeID, id string, req PatchRequest) (*Task, error)
	Delete(ctx context.Context, assigneeID, id string) error
}

// taskService implements TaskService.
type taskService struct {
	repo TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(repo TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// Create validates and stores a new task owned by the caller.
func (s *taskService) Create(ctx context.Context, assigneeID string, req CreateRequest) (*Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	if len(title) > 255 {
		return nil, apperror.NewValidation("title must be at most 255 characters")
	}
	if err := s.checkFileRef(ctx, assigneeID, req.FileID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &Task{
		ID:         ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Title:      title,
		Content:    sanitize.HTML(req.Content),
		Priority:   req.Priority,
		DueDate:    req.DueDate,
		FileID:     req.FileID,
		AssigneeID: assigneeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating task: %w", err))
	}

	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", assigneeID),
	)

	return task, nil
}

// Get fetches a single task owned by the caller.
func (s *taskService) Get(ctx context.Context, assigneeID, id string) (*Task, error) {
	task, err := s.repo.FindByID(ctx, assigneeID, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding task: %w", err))
	}
	return task, nil
}

// List returns every task owned by the caller.
func (s *taskService) List(ctx context.Context, assigneeID string) ([]Task, error) {
	tasks, err := s.repo.List(ctx, assigneeID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing tasks: %w", err))
	}
	return tasks, nil
}

// Update replaces the mutable fields of a task owned by the caller.
func (s *taskService) Update(ctx context.Context, assigneeID, id string, req UpdateRequest) (*Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	if err := s.checkFileRef(ctx, assigneeID, req.FileID); err != nil {
		return nil, err
	}

	task := &Task{
		ID:         id,
		Title:      title,
		Content:    sanitize.HTML(req.Content),
		Priority:   req.Priority,
		DueDate:    req.DueDate,
		FileID:     req.FileID,
		AssigneeID: assigneeID,
	}

	if err := s.repo.Update(ctx, task); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating task: %w", err))
	}

	return s.repo.FindByID(ctx, assigneeID, id)
}

// Patch applies a partial update. Only the completion flag today.
func (s *taskService) Patch(ctx context.Context, assigneeID, id string, req PatchRequest) (*Task, error) {
	if req.Completed == nil {
		return nil, apperror.NewValidation("nothing to update")
	}

	if err := s.repo.SetCompleted(ctx, assigneeID, id, *req.Completed); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating task completion: %w", err))
	}

	return s.repo.FindByID(ctx, assigneeID, id)
}

// checkFileRef verifies that an attachment reference resolves through the
// caller's own files. Absent and foreign ids fail the same way, so the
// write endpoints cannot confirm that another user's file exists.
func (s *taskService) checkFileRef(ctx context.Context, assigneeID string, fileID *string) error {
	if fileID == nil {
		return nil
	}
	ok, err := s.repo.FileExists(ctx, assigneeID, *fileID)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("checking file reference: %w", err))
	}
	if !ok {
		return apperror.NewNotFound("file not found")
	}
	return nil
}

// Delete removes a task owned by the caller.
func (s *taskService) Delete(ctx context.Context, assigneeID, id string) error {
	if err := s.repo.Delete(ctx, assigneeID, id); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting task: %w", err))
	}
	return nil
}
