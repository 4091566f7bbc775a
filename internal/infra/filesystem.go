package infra

import (
	"os"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// FileSystemManagerImpl implements domain.FileSystemManager.
type FileSystemManagerImpl struct{}

// NewFileSystemManager creates a new filesystem manager.
func NewFileSystemManager() domain.FileSystemManager {
	return &FileSystemManagerImpl{}
}

// Exists checks if a path exists.
func (fm *FileSystemManagerImpl) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes a file or directory recursively. A missing path fails
// with an error wrapping os.ErrNotExist.
func (fm *FileSystemManagerImpl) Delete(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// Rename moves oldPath to newPath. Fails if newPath already exists as a
// non-empty directory.
func (fm *FileSystemManagerImpl) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Ensure FileSystemManagerImpl implements domain.FileSystemManager.
var _ domain.FileSystemManager = (*FileSystemManagerImpl)(nil)
