// Package receipts persists fetched payment evidence to local disk.
package receipts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
)

// Store writes receipt images under a single directory. Files are kept for
// the operator's manual bookkeeping only; the workflow never reads them back.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes one receipt image and returns its path. Names are
// <buyerID>_<uuid>.jpg so concurrent submissions by one buyer never collide.
func (s *Store) Save(buyerID int64, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("receipts dir: %w", err)
	}
	name := fmt.Sprintf("%d_%s.jpg", buyerID, uuid.Must(uuid.NewV4()).String())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
