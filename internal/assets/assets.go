// Package assets resolves entries across a stack of GRF archives.
package assets

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/EngoDev/voxelify/pkg/grf"
)

// Manager searches its archives newest first, so a patch archive added
// after the base archive overrides entries of the same name.
type Manager struct {
	archives []*grf.Archive
	mu       sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Open opens every path in order. On failure the archives opened so far
// are closed.
func Open(paths ...string) (*Manager, error) {
	m := NewManager()
	for _, path := range paths {
		if err := m.AddArchive(path); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

// AddArchive opens a GRF archive and gives it the highest priority.
func (m *Manager) AddArchive(path string) error {
	archive, err := grf.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	m.Add(archive)
	return nil
}

// Add gives an already opened archive the highest priority.
func (m *Manager) Add(archive *grf.Archive) {
	m.mu.Lock()
	m.archives = append(m.archives, archive)
	m.mu.Unlock()
}

// Len returns the number of archives.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.archives)
}

// Read returns name from the newest archive holding it. Errors other than
// a missing entry stop the search.
func (m *Manager) Read(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.archives) - 1; i >= 0; i-- {
		data, err := m.archives[i].Read(name)
		if errors.Is(err, grf.ErrNotFound) {
			continue
		}
		return data, err
	}
	return nil, fmt.Errorf("%w: %s", grf.ErrNotFound, name)
}

// Glob returns the sorted union of entries matching pattern in all archives.
func (m *Manager) Glob(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var result []string
	for _, a := range m.archives {
		matches, err := a.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range matches {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	sort.Strings(result)
	return result, nil
}

// Close closes all archives.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, archive := range m.archives {
		if err := archive.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.archives = nil
	return errors.Join(errs...)
}
