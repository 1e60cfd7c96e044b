package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogonek-app/backend/internal/apperror"
)

// FileService defines the business logic contract for attachments.
type FileService interface {
	Upload(ctx context.Context, assigneeID, originalName, mimeType string, src io.Reader) (*StoredFile, error)
	Download(ctx context.Context, assigneeID, id string) (*StoredFile, io.ReadSeekCloser, error)
	List(ctx context.Context, assigneeID string) ([]StoredFile, error)
	Delete(ctx context.Context, assigneeID, id string) error
}

type fileService struct {
	repo    FileRepository
	blobs   BlobStore
	maxSize int64
}

// NewFileService creates a new file service. maxSize caps upload size
// in bytes.
func NewFileService(repo FileRepository, blobs BlobStore, maxSize int64) FileService {
	return &fileService{repo: repo, blobs: blobs, maxSize: maxSize}
}

func (s *fileService) Upload(ctx context.Context, assigneeID, originalName, mimeType string, src io.Reader) (*StoredFile, error) {
	originalName = sanitizeFilename(originalName)
	if originalName == "" {
		return nil, apperror.NewValidation("filename is required")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	id := uuid.NewString()

	// One extra byte past the cap distinguishes "exactly max" from
	// "too large" without buffering the whole upload.
	size, err := s.blobs.Save(id, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing upload: %w", err))
	}
	if size > s.maxSize {
		if rerr := s.blobs.Remove(id); rerr != nil {
			slog.Warn("removing oversized upload failed", "file_id", id, "error", rerr)
		}
		return nil, apperror.NewValidation(fmt.Sprintf("file exceeds the %d byte limit", s.maxSize))
	}

	file := &StoredFile{
		ID:           id,
		OriginalName: originalName,
		DiskName:     id,
		MimeType:     mimeType,
		Size:         size,
		AssigneeID:   assigneeID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, file); err != nil {
		if rerr := s.blobs.Remove(id); rerr != nil {
			slog.Warn("removing orphaned upload failed", "file_id", id, "error", rerr)
		}
		return nil, apperror.NewInternal(fmt.Errorf("recording upload: %w", err))
	}
	return file, nil
}

func (s *fileService) Download(ctx context.Context, assigneeID, id string) (*StoredFile, io.ReadSeekCloser, error) {
	file, err := s.repo.FindByID(ctx, assigneeID, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, err
		}
		return nil, nil, apperror.NewInternal(fmt.Errorf("finding file: %w", err))
	}

	blob, err := s.blobs.Open(file.DiskName)
	if err != nil {
		// Metadata without a blob means the disk copy is gone; from the
		// caller's point of view the file does not exist.
		slog.Error("file blob missing on disk", "file_id", file.ID, "error", err)
		return nil, nil, apperror.NewNotFound("file not found")
	}
	return file, blob, nil
}

func (s *fileService) List(ctx context.Context, assigneeID string) ([]StoredFile, error) {
	out, err := s.repo.List(ctx, assigneeID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing files: %w", err))
	}
	return out, nil
}

func (s *fileService) Delete(ctx context.Context, assigneeID, id string) error {
	file, err := s.repo.FindByID(ctx, assigneeID, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("finding file: %w", err))
	}

	if err := s.repo.Delete(ctx, assigneeID, id); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting file record: %w", err))
	}

	if err := s.blobs.Remove(file.DiskName); err != nil {
		// The record is gone, so the blob is unreachable either way.
		slog.Warn("removing blob failed", "file_id", id, "error", err)
	}
	return nil
}

// sanitizeFilename strips any path components and control characters
// from an uploaded filename.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
