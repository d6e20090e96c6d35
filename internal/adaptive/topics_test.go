package adaptive_test

import (
	"testing"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
)

func TestRecommendTopics_StartingTopics(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		progress adaptive.CurrentProgress
		want     []string
	}{
		{"no course uses whole catalog", adaptive.CurrentProgress{}, []string{"variables", "git", "testing"}},
		{"unknown course uses whole catalog", adaptive.CurrentProgress{CourseID: "nope", CurrentTopic: "loops"}, []string{"variables", "git", "testing"}},
		{"course without current topic", adaptive.CurrentProgress{CourseID: "tools"}, []string{"git", "testing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adaptive.RecommendTopics(adaptive.AnalyzePerformance(nil), tt.progress, catalog)
			if !equal(topicIDs(got), tt.want) {
				t.Fatalf("topics = %v, want %v", topicIDs(got), tt.want)
			}
			for _, r := range got {
				if r.Type != adaptive.TopicStarting {
					t.Errorf("%s type = %q, want starting", r.TopicID, r.Type)
				}
			}
		})
	}
}

func TestRecommendTopics_GapsBeforeSequence(t *testing.T) {
	// Three gaps in first-seen order; only the first two are remedial.
	analysis := adaptive.AnalyzePerformance(records("functions", 30, "loops", 40, "git", 20))
	progress := adaptive.CurrentProgress{CourseID: "intro", CurrentTopic: "variables", CurrentDifficulty: adaptive.Beginner}

	got := adaptive.RecommendTopics(analysis, progress, testCatalog())

	want := []string{"functions", "loops", "recursion"}
	if !equal(topicIDs(got), want) {
		t.Fatalf("topics = %v, want %v", topicIDs(got), want)
	}
	for i, kind := range []adaptive.TopicKind{adaptive.TopicRemedial, adaptive.TopicRemedial, adaptive.TopicSequential} {
		if got[i].Type != kind {
			t.Errorf("topics[%d].Type = %q, want %q", i, got[i].Type, kind)
		}
	}
	if got[0].Priority != adaptive.PriorityHigh || got[0].Title != "Functions" {
		t.Errorf("remedial entry = %+v, want high priority with catalog title", got[0])
	}
}

func TestRecommendTopics_SkipsCompleted(t *testing.T) {
	analysis := adaptive.AnalyzePerformance(records("loops", 10, "functions", 20))
	progress := adaptive.CurrentProgress{
		CourseID:        "intro",
		CurrentTopic:    "variables",
		CompletedTopics: []string{"variables", "loops", "recursion"},
	}

	got := adaptive.RecommendTopics(analysis, progress, testCatalog())

	want := []string{"functions", "sorting", "graphs"}
	if !equal(topicIDs(got), want) {
		t.Errorf("topics = %v, want %v", topicIDs(got), want)
	}
}

func TestRecommendTopics_ExplorationFillsShortList(t *testing.T) {
	analysis := adaptive.AnalyzePerformance(records("git", 95))
	progress := adaptive.CurrentProgress{CourseID: "intro", CurrentTopic: "sorting"}

	got := adaptive.RecommendTopics(analysis, progress, testCatalog())

	want := []string{"graphs", "testing"}
	if !equal(topicIDs(got), want) {
		t.Fatalf("topics = %v, want %v", topicIDs(got), want)
	}
	if got[1].Type != adaptive.TopicExploration {
		t.Errorf("testing type = %q, want exploration", got[1].Type)
	}
}

func TestRecommendTopics_NeverMoreThanFive(t *testing.T) {
	analysis := adaptive.AnalyzePerformance(records("variables", 95, "loops", 95, "functions", 95))
	progress := adaptive.CurrentProgress{CourseID: "intro", CurrentTopic: "variables"}

	got := adaptive.RecommendTopics(analysis, progress, testCatalog())
	if len(got) > 5 {
		t.Errorf("len = %d, want <= 5", len(got))
	}
}

func TestRecommendTopics_UnknownCurrentTopicFallsBack(t *testing.T) {
	progress := adaptive.CurrentProgress{CourseID: "intro", CurrentTopic: "quantum"}

	got := adaptive.RecommendTopics(adaptive.AnalyzePerformance(records("loops", 10)), progress, testCatalog())

	if !equal(topicIDs(got), []string{"variables"}) {
		t.Errorf("fallback topics = %v, want [variables]", topicIDs(got))
	}
}
