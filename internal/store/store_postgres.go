package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
)

const dbTimeout = 5 * time.Second

// Schema creates the tables PostgresStore reads and writes.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id         TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		seq        BIGSERIAL PRIMARY KEY,
		id         TEXT NOT NULL UNIQUE,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		topic_id   TEXT NOT NULL DEFAULT '',
		score      DOUBLE PRECISION NOT NULL,
		taken_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assessments_student_taken_idx ON assessments (student_id, taken_at, seq)`,
	`CREATE TABLE IF NOT EXISTS progress (
		student_id         TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id          TEXT NOT NULL,
		current_topic      TEXT NOT NULL DEFAULT '',
		current_difficulty TEXT NOT NULL DEFAULT '',
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (student_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS completed_topics (
		student_id TEXT NOT NULL,
		course_id  TEXT NOT NULL,
		position   INT NOT NULL,
		topic_id   TEXT NOT NULL,
		PRIMARY KEY (student_id, course_id, topic_id),
		FOREIGN KEY (student_id, course_id) REFERENCES progress(student_id, course_id) ON DELETE CASCADE
	)`,
}

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over pool. The schema must already exist.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Student(ctx context.Context, id string) (adaptive.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`,
		id,
	).Scan(&exists); err != nil {
		return adaptive.Student{}, fmt.Errorf("lookup student: %w", err)
	}
	if !exists {
		return adaptive.Student{}, fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, topic_id, score, taken_at
		 FROM assessments
		 WHERE student_id = $1
		 ORDER BY taken_at ASC, seq ASC`,
		id,
	)
	if err != nil {
		return adaptive.Student{}, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	history := []adaptive.AssessmentRecord{}
	for rows.Next() {
		var rec adaptive.AssessmentRecord
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Score, &rec.Date); err != nil {
			return adaptive.Student{}, fmt.Errorf("scan assessment: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return adaptive.Student{}, fmt.Errorf("iterate assessments: %w", err)
	}

	return adaptive.Student{ID: id, History: history}, nil
}

func (s *PostgresStore) Progress(ctx context.Context, studentID, courseID string) (adaptive.CurrentProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	p := adaptive.CurrentProgress{CourseID: courseID, CompletedTopics: []string{}}
	var difficulty string
	err := s.pool.QueryRow(ctx,
		`SELECT course_id, current_topic, current_difficulty
		 FROM progress
		 WHERE student_id = $1
		   AND ($2 = '' OR course_id = $2)
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		studentID,
		courseID,
	).Scan(&p.CourseID, &p.CurrentTopic, &difficulty)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return adaptive.CurrentProgress{}, fmt.Errorf("get progress: %w", err)
	}
	p.CurrentDifficulty = adaptive.Difficulty(difficulty)

	rows, err := s.pool.Query(ctx,
		`SELECT topic_id
		 FROM completed_topics
		 WHERE student_id = $1 AND course_id = $2
		 ORDER BY position ASC`,
		studentID,
		p.CourseID,
	)
	if err != nil {
		return adaptive.CurrentProgress{}, fmt.Errorf("query completed topics: %w", err)
	}
	completed, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return adaptive.CurrentProgress{}, fmt.Errorf("scan completed topics: %w", err)
	}
	if completed != nil {
		p.CompletedTopics = completed
	}

	return p, nil
}

func (s *PostgresStore) RecordAssessment(ctx context.Context, studentID string, rec adaptive.AssessmentRecord) (adaptive.AssessmentRecord, error) {
	if err := validateAssessment(studentID, rec); err != nil {
		return adaptive.AssessmentRecord{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if rec.ID == "" {
		rec.ID = generateID()
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := ensureStudent(ctx, tx, studentID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO assessments (id, student_id, topic_id, score, taken_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.ID,
			studentID,
			rec.Topic,
			rec.Score,
			rec.Date,
		); err != nil {
			return fmt.Errorf("insert assessment: %w", err)
		}
		return nil
	})
	if err != nil {
		return adaptive.AssessmentRecord{}, err
	}
	return rec, nil
}

func (s *PostgresStore) SaveProgress(ctx context.Context, studentID string, progress adaptive.CurrentProgress) error {
	if err := validateProgress(studentID, progress); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := ensureStudent(ctx, tx, studentID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO progress (student_id, course_id, current_topic, current_difficulty, updated_at)
			 VALUES ($1, $2, $3, $4, clock_timestamp())
			 ON CONFLICT (student_id, course_id) DO UPDATE
			 SET current_topic = EXCLUDED.current_topic,
			     current_difficulty = EXCLUDED.current_difficulty,
			     updated_at = EXCLUDED.updated_at`,
			studentID,
			progress.CourseID,
			progress.CurrentTopic,
			string(progress.CurrentDifficulty),
		); err != nil {
			return fmt.Errorf("upsert progress: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM completed_topics WHERE student_id = $1 AND course_id = $2`,
			studentID,
			progress.CourseID,
		); err != nil {
			return fmt.Errorf("clear completed topics: %w", err)
		}

		topics := uniqueTopics(progress.CompletedTopics)
		if len(topics) == 0 {
			return nil
		}
		rows := make([][]any, len(topics))
		for i, topic := range topics {
			rows[i] = []any{studentID, progress.CourseID, i, topic}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"completed_topics"},
			[]string{"student_id", "course_id", "position", "topic_id"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("insert completed topics: %w", err)
		}
		return nil
	})
}

func ensureStudent(ctx context.Context, tx pgx.Tx, id string) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO students (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		id,
	); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
