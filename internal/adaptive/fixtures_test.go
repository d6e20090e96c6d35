package adaptive_test

import (
	"context"
	"strconv"
	"time"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

// testCatalog returns an intro programming course followed by a short
// tooling course.
//
//	variables -> loops, functions -> recursion -> sorting -> graphs
func testCatalog() curriculum.Catalog {
	return curriculum.Catalog{
		{
			ID:    "intro",
			Title: "Intro to Programming",
			Topics: []curriculum.Topic{
				{
					ID:    "variables",
					Title: "Variables",
					Resources: []curriculum.Resource{
						{ID: "r-var-b", Title: "Variables 101", Difficulty: "beginner"},
						{ID: "r-var-a", Title: "Memory layout", Difficulty: "advanced"},
					},
					Quizzes:   []curriculum.Activity{{ID: "q-var", Title: "Variables quiz"}},
					Exercises: []curriculum.Activity{{ID: "ex-var", Title: "Swap two values"}},
				},
				{
					ID:            "loops",
					Title:         "Loops",
					Prerequisites: []string{"variables"},
					KeyConcepts:   []string{"for", "while"},
					Resources: []curriculum.Resource{
						{ID: "r-loop-x", Title: "Loops (mis-tagged)", Difficulty: "Beginner"},
						{ID: "r-loop-b", Title: "Loop basics", Difficulty: "beginner"},
						{ID: "r-loop-i", Title: "Nested loops", Difficulty: "intermediate"},
						{ID: "r-loop-i2", Title: "Loop invariants", Difficulty: "intermediate"},
						{ID: "r-loop-u", Title: "Untagged loops"},
					},
					Quizzes:   []curriculum.Activity{{ID: "q-loops", Title: "Loop quiz"}},
					Exercises: []curriculum.Activity{{ID: "ex-loops", Title: "FizzBuzz"}},
				},
				{
					ID:            "functions",
					Title:         "Functions",
					Prerequisites: []string{"variables"},
					Quizzes:       []curriculum.Activity{{ID: "q-fn", Title: "Functions quiz"}},
				},
				{
					ID:                "recursion",
					Title:             "Recursion",
					Prerequisites:     []string{"functions", "loops"},
					Resources:         []curriculum.Resource{{ID: "r-rec-e", Title: "Tail calls", Difficulty: "expert"}},
					AdvancedExercises: []curriculum.Activity{{ID: "ax-rec", Title: "Ackermann"}},
				},
				{ID: "sorting", Title: "Sorting", Prerequisites: []string{"loops", "recursion"}},
				{ID: "graphs", Title: "Graphs", Prerequisites: []string{"sorting"}},
			},
		},
		{
			ID:    "tools",
			Title: "Developer Tools",
			Topics: []curriculum.Topic{
				{
					ID:                "git",
					Title:             "Git",
					Resources:         []curriculum.Resource{{ID: "r-git", Title: "Pro Git", Difficulty: "beginner"}},
					AdvancedExercises: []curriculum.Activity{{ID: "ax-git", Title: "Interactive rebase"}},
				},
				{ID: "testing", Title: "Testing", Resources: []curriculum.Resource{{ID: "r-test", Title: "Table tests", Difficulty: "intermediate"}}},
			},
		},
	}
}

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// records builds a chronological history from topic/score pairs.
func records(pairs ...any) []adaptive.AssessmentRecord {
	var out []adaptive.AssessmentRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		n := len(out)
		out = append(out, adaptive.AssessmentRecord{
			ID:    "a" + strconv.Itoa(n),
			Topic: pairs[i].(string),
			Score: float64(pairs[i+1].(int)),
			Date:  day0.AddDate(0, 0, n),
		})
	}
	return out
}

func topicIDs(recs []adaptive.TopicRecommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.TopicID
	}
	return ids
}

func predictionIDs(preds []adaptive.StrugglePrediction) []string {
	ids := make([]string, len(preds))
	for i, p := range preds {
		ids[i] = p.TopicID
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// stubForecaster returns fixed predictions or an error.
type stubForecaster struct {
	preds []adaptive.StrugglePrediction
	err   error
	panic bool
	calls int
}

func (s *stubForecaster) Forecast(_ context.Context, _ []adaptive.AssessmentRecord, _ []curriculum.Topic) ([]adaptive.StrugglePrediction, error) {
	s.calls++
	if s.panic {
		panic("forecaster exploded")
	}
	return s.preds, s.err
}
