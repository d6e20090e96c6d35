// Package curriculum holds the course catalog and loads it from YAML files.
package curriculum

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader loads and caches courses from the filesystem.
type Loader struct {
	rootDir string
	courses []Course
	index   map[string]int
	mu      sync.RWMutex
}

// NewLoader creates a new curriculum loader and loads all content.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		index:   make(map[string]int),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	slog.Info("curriculum loaded", "courses", len(l.courses))
	return l, nil
}

// Course returns a course by ID.
func (l *Loader) Course(id string) (Course, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[id]
	if !ok {
		return Course{}, false
	}
	return l.courses[i], true
}

// Courses returns all loaded courses in file order.
func (l *Loader) Courses() Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append(Catalog(nil), l.courses...)
}

func (l *Loader) loadAll() error {
	// WalkDir visits files in lexical order, which fixes the catalog order.
	return filepath.WalkDir(l.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			return l.loadCourse(path)
		}
		return nil
	})
}

func (l *Loader) loadCourse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	course, err := ParseCourse(data)
	if err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return nil
	}
	if course.ID == "" || len(course.Topics) == 0 {
		return nil // Not a course file
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if i, dup := l.index[course.ID]; dup {
		slog.Warn("duplicate course id, later file wins", "id", course.ID, "path", path)
		l.courses[i] = course
		return nil
	}
	l.index[course.ID] = len(l.courses)
	l.courses = append(l.courses, course)
	return nil
}

// ParseCourse decodes one course document.
func ParseCourse(data []byte) (Course, error) {
	var course Course
	if err := yaml.Unmarshal(data, &course); err != nil {
		return Course{}, fmt.Errorf("decode course: %w", err)
	}
	return course, nil
}
