// Package store holds student assessment history and course progress.
package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
)

// ErrStudentNotFound is returned for a student with no history and no progress.
var ErrStudentNotFound = errors.New("student not found")

// Store is the read and write boundary for student data. Reads never return
// nil slices.
type Store interface {
	// Student returns the student with history in chronological order.
	Student(ctx context.Context, id string) (adaptive.Student, error)
	// Progress returns the snapshot for a course. An empty courseID selects
	// the most recently updated course. Missing progress is a zero snapshot.
	Progress(ctx context.Context, studentID, courseID string) (adaptive.CurrentProgress, error)
	// RecordAssessment appends to the student's history and returns the
	// stored record.
	RecordAssessment(ctx context.Context, studentID string, rec adaptive.AssessmentRecord) (adaptive.AssessmentRecord, error)
	// SaveProgress replaces the snapshot for progress.CourseID.
	SaveProgress(ctx context.Context, studentID string, progress adaptive.CurrentProgress) error
}

type studentRecord struct {
	history  []adaptive.AssessmentRecord
	progress map[string]progressEntry
}

type progressEntry struct {
	snapshot  adaptive.CurrentProgress
	updatedAt time.Time
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	students map[string]*studentRecord
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory student store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		students: make(map[string]*studentRecord),
		now:      time.Now,
	}
}

func (s *MemoryStore) Student(_ context.Context, id string) (adaptive.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.students[id]
	if !ok {
		return adaptive.Student{}, fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}

	history := slices.Clone(rec.history)
	if history == nil {
		history = []adaptive.AssessmentRecord{}
	}
	slices.SortStableFunc(history, func(a, b adaptive.AssessmentRecord) int {
		return a.Date.Compare(b.Date)
	})
	return adaptive.Student{ID: id, History: history}, nil
}

func (s *MemoryStore) Progress(_ context.Context, studentID, courseID string) (adaptive.CurrentProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	empty := adaptive.CurrentProgress{CourseID: courseID, CompletedTopics: []string{}}
	rec, ok := s.students[studentID]
	if !ok {
		return empty, nil
	}

	if courseID == "" {
		var latest *progressEntry
		for _, e := range rec.progress {
			if latest == nil || e.updatedAt.After(latest.updatedAt) {
				latest = &e
			}
		}
		if latest == nil {
			return empty, nil
		}
		return copyProgress(latest.snapshot), nil
	}

	e, ok := rec.progress[courseID]
	if !ok {
		return empty, nil
	}
	return copyProgress(e.snapshot), nil
}

func (s *MemoryStore) RecordAssessment(_ context.Context, studentID string, rec adaptive.AssessmentRecord) (adaptive.AssessmentRecord, error) {
	if err := validateAssessment(studentID, rec); err != nil {
		return adaptive.AssessmentRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = generateID()
	}
	if rec.Date.IsZero() {
		rec.Date = s.now()
	}
	student := s.student(studentID)
	student.history = append(student.history, rec)
	return rec, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, studentID string, progress adaptive.CurrentProgress) error {
	if err := validateProgress(studentID, progress); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.student(studentID).progress[progress.CourseID] = progressEntry{
		snapshot:  copyProgress(progress),
		updatedAt: s.now(),
	}
	return nil
}

// student returns the record for id, creating it. Callers hold the write lock.
func (s *MemoryStore) student(id string) *studentRecord {
	rec, ok := s.students[id]
	if !ok {
		rec = &studentRecord{progress: make(map[string]progressEntry)}
		s.students[id] = rec
	}
	return rec
}

func validateAssessment(studentID string, rec adaptive.AssessmentRecord) error {
	if studentID == "" {
		return fmt.Errorf("student id is required")
	}
	if math.IsNaN(rec.Score) || rec.Score < 0 || rec.Score > 100 {
		return fmt.Errorf("%w: %v", adaptive.ErrInvalidScore, rec.Score)
	}
	return nil
}

func validateProgress(studentID string, progress adaptive.CurrentProgress) error {
	if studentID == "" {
		return fmt.Errorf("student id is required")
	}
	if progress.CourseID == "" {
		return fmt.Errorf("course id is required")
	}
	if progress.CurrentDifficulty != "" && !progress.CurrentDifficulty.Valid() {
		return fmt.Errorf("%w: %q", adaptive.ErrUnknownDifficulty, progress.CurrentDifficulty)
	}
	return nil
}

func copyProgress(p adaptive.CurrentProgress) adaptive.CurrentProgress {
	p.CompletedTopics = uniqueTopics(p.CompletedTopics)
	return p
}

// uniqueTopics drops empty and repeated topic ids, keeping first occurrence
// order.
func uniqueTopics(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
