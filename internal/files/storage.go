package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobStore abstracts where attachment bytes live. The disk
// implementation is the only one today; the interface keeps the
// service testable without touching the filesystem.
type BlobStore interface {
	Save(diskName string, src io.Reader) (int64, error)
	Open(diskName string) (io.ReadSeekCloser, error)
	Remove(diskName string) error
}

type diskStore struct {
	root string
}

// NewDiskStore creates a blob store rooted at the given directory,
// creating it if needed.
func NewDiskStore(root string) (BlobStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &diskStore{root: root}, nil
}

// path joins the disk name under the root. Disk names are
// server-generated uuids, never user input.
func (s *diskStore) path(diskName string) string {
	return filepath.Join(s.root, diskName)
}

func (s *diskStore) Save(diskName string, src io.Reader) (int64, error) {
	dst, err := os.OpenFile(s.path(diskName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("creating blob file: %w", err)
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(s.path(diskName))
		return 0, fmt.Errorf("writing blob file: %w", err)
	}
	return n, nil
}

func (s *diskStore) Open(diskName string) (io.ReadSeekCloser, error) {
	f, err := os.Open(s.path(diskName))
	if err != nil {
		return nil, fmt.Errorf("opening blob file: %w", err)
	}
	return f, nil
}

func (s *diskStore) Remove(diskName string) error {
	err := os.Remove(s.path(diskName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob file: %w", err)
	}
	return nil
}
