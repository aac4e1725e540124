package peimage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Searcher resolves module names against an ordered list of directories.
type Searcher struct {
	mu         sync.RWMutex
	dirs       []string
	defaultExt string
}

// NewSearcher creates a Searcher. defaultExt is appended by Resolve to names
// without an extension.
func NewSearcher(dirs []string, defaultExt string) *Searcher {
	s := &Searcher{defaultExt: defaultExt}
	s.SetDirs(dirs)
	return s
}

// SetDirs replaces the search path.
func (s *Searcher) SetDirs(dirs []string) {
	cp := make([]string, len(dirs))
	copy(cp, dirs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs = cp
}

// Dirs returns the current search path.
func (s *Searcher) Dirs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.dirs))
	copy(out, s.dirs)
	return out
}

// Search returns the absolute path of the first regular file called name on
// the search path. Absolute names are checked as given.
func (s *Searcher) Search(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty module name: %w", fs.ErrNotExist)
	}

	if filepath.IsAbs(name) {
		if isRegular(name) {
			return filepath.Clean(name), nil
		}
		return "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}

	for _, dir := range s.Dirs() {
		candidate := filepath.Join(dir, filepath.FromSlash(name))
		if !isRegular(candidate) {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	return "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// Resolve searches for name and, when name has no extension, for name with
// the default extension appended.
func (s *Searcher) Resolve(name string) (string, error) {
	path, err := s.Search(name)
	if err == nil || s.defaultExt == "" || filepath.Ext(name) != "" {
		return path, err
	}
	return s.Search(name + s.defaultExt)
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
