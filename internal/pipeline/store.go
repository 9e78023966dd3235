package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ContentStore persists fetched documents. Saving is a separate step from
// fetching so a retried download never writes partial content.
type ContentStore interface {
	Save(name string, data []byte) (string, error)
	Load(name string) ([]byte, error)
	List() ([]string, error)
}

// DirStore keeps documents as files in one directory
type DirStore struct {
	dir string
}

// NewDirStore creates a store rooted at dir
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Dir returns the root directory
func (s *DirStore) Dir() string {
	return s.dir
}

// Save writes data under name atomically and returns the file path
func (s *DirStore) Save(name string, data []byte) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+clean+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close %s: %w", clean, err)
	}

	target := filepath.Join(s.dir, clean)
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename %s: %w", clean, err)
	}

	return target, nil
}

// Load reads the named document
func (s *DirStore) Load(name string) ([]byte, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	return data, nil
}

// List returns the PDF file names in the store, sorted
func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// cleanName rejects names that would escape the store directory
func cleanName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return base, nil
}
