package adaptive

import (
	"fmt"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

// RecommendPractice suggests quizzes and exercises for knowledge gaps, then
// advanced exercises for strengths.
func RecommendPractice(analysis PerformanceAnalysis, catalog curriculum.Catalog) []PracticeSuggestion {
	out, err := run("practice", func() ([]PracticeSuggestion, error) {
		return recommendPractice(analysis, catalog), nil
	})
	if err != nil {
		recordFallback("practice", err)
		return []PracticeSuggestion{}
	}
	return out
}

func recommendPractice(analysis PerformanceAnalysis, catalog curriculum.Catalog) []PracticeSuggestion {
	out := []PracticeSuggestion{}

	for _, gap := range truncate(analysis.KnowledgeGaps, maxPracticeGaps) {
		topic, ok := catalog.FindTopic(gap.Topic)
		if !ok {
			continue
		}
		if len(topic.Quizzes) > 0 {
			out = append(out, newPractice(PracticeQuiz, topic, topic.Quizzes[0], PriorityHigh,
				fmt.Sprintf("Check your understanding of %s", topic.DisplayTitle())))
		}
		if len(topic.Exercises) > 0 {
			out = append(out, newPractice(PracticeExercise, topic, topic.Exercises[0], PriorityHigh,
				fmt.Sprintf("Hands-on practice to close the gap in %s", topic.DisplayTitle())))
		}
	}

	for _, id := range truncate(analysis.Strengths, maxPracticeStrengths) {
		topic, ok := catalog.FindTopic(id)
		if !ok || len(topic.AdvancedExercises) == 0 {
			continue
		}
		out = append(out, newPractice(PracticeAdvancedExercise, topic, topic.AdvancedExercises[0], PriorityMedium,
			fmt.Sprintf("Stretch your strength in %s", topic.DisplayTitle())))
	}

	return truncate(out, maxPractice)
}

func newPractice(kind PracticeKind, topic curriculum.Topic, a curriculum.Activity, priority Priority, reason string) PracticeSuggestion {
	return PracticeSuggestion{
		Kind:       kind,
		TopicID:    topic.ID,
		TopicTitle: topic.DisplayTitle(),
		ActivityID: a.ID,
		Title:      a.Title,
		Priority:   priority,
		Reason:     reason,
	}
}
