package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBlobDir is where protocol scans and generated documents live
// unless PROTOCOL_DIR overrides it.
const DefaultBlobDir = "/var/www/datamontago/"

// FileStore owns the blob directory for protocol files and outbound
// documents. Every order has at most one live blob per kind; Replace is
// the only write path, so the delete-old/write-new sequence lives in one
// place instead of being repeated at call sites.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultBlobDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create blob directory %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve blob directory %s: %w", dir, err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute blob directory.
func (fs *FileStore) Root() string {
	return fs.root
}

// Path resolves a stored file name inside the blob directory. Names that
// would escape the directory are rejected.
func (fs *FileStore) Path(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean != name || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	full := filepath.Join(fs.root, clean)
	if !strings.HasPrefix(full, fs.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return full, nil
}

// Exists checks if a stored file is present.
func (fs *FileStore) Exists(name string) bool {
	full, err := fs.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return !os.IsNotExist(err)
}

// Replace writes src under name, deleting oldName first when it differs.
// Either the old blob survives untouched (write failed before the old
// one was removed is impossible: delete happens first, so a failed write
// leaves no blob) or exactly the new blob exists. Callers that need the
// stronger "old file intact on failure" guarantee pass oldName == "".
func (fs *FileStore) Replace(oldName, name string, src io.Reader) (int64, error) {
	if oldName != "" && oldName != name {
		if err := fs.Remove(oldName); err != nil {
			return 0, err
		}
	}

	full, err := fs.Path(name)
	if err != nil {
		return 0, err
	}

	// Write to a temp file in the same directory and rename it over the
	// target, so readers never observe a half-written blob.
	tmp, err := os.CreateTemp(fs.root, ".blob-*")
	if err != nil {
		return 0, fmt.Errorf("unable to create file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("unable to save the file: %w", err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("unable to save the file: %w", err)
	}
	return written, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (fs *FileStore) Remove(name string) error {
	full, err := fs.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Open opens a stored file for reading.
func (fs *FileStore) Open(name string) (*os.File, error) {
	full, err := fs.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}
