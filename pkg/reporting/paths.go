package reporting

import (
	"os"
	"path/filepath"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
