package adaptive_test

import (
	"math"
	"slices"
	"testing"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
)

func assertEmptyAnalysis(t *testing.T, a adaptive.PerformanceAnalysis) {
	t.Helper()
	if a.Strengths == nil || len(a.Strengths) != 0 {
		t.Errorf("Strengths = %v, want []", a.Strengths)
	}
	if a.Weaknesses == nil || len(a.Weaknesses) != 0 {
		t.Errorf("Weaknesses = %v, want []", a.Weaknesses)
	}
	if a.KnowledgeGaps == nil || len(a.KnowledgeGaps) != 0 {
		t.Errorf("KnowledgeGaps = %v, want []", a.KnowledgeGaps)
	}
	if a.MasteredTopics == nil || len(a.MasteredTopics) != 0 {
		t.Errorf("MasteredTopics = %v, want []", a.MasteredTopics)
	}
	if a.AverageScores == nil || len(a.AverageScores) != 0 {
		t.Errorf("AverageScores = %v, want {}", a.AverageScores)
	}
	if a.LearningTrends == nil || len(a.LearningTrends) != 0 {
		t.Errorf("LearningTrends = %v, want []", a.LearningTrends)
	}
}

func TestAnalyzePerformance_EmptyHistory(t *testing.T) {
	assertEmptyAnalysis(t, adaptive.AnalyzePerformance(nil))
	assertEmptyAnalysis(t, adaptive.AnalyzePerformance([]adaptive.AssessmentRecord{}))
}

func TestAnalyzePerformance_Boundaries(t *testing.T) {
	tests := []struct {
		name         string
		scores       []int
		wantStrength bool
		wantMastered bool
		wantGap      bool
	}{
		{"mean 90 is mastered", []int{90, 90}, true, true, false},
		{"mean 85 is strength only", []int{84, 86}, true, false, false},
		{"84 is neither", []int{84}, false, false, false},
		{"50 is a gap", []int{50}, false, false, true},
		{"51 is not a gap", []int{51}, false, false, false},
		{"mean 42.5 is a gap", []int{40, 45}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pairs []any
			for _, s := range tt.scores {
				pairs = append(pairs, "topic", s)
			}
			a := adaptive.AnalyzePerformance(records(pairs...))

			if got := slices.Contains(a.Strengths, "topic"); got != tt.wantStrength {
				t.Errorf("in Strengths = %v, want %v", got, tt.wantStrength)
			}
			if got := slices.Contains(a.MasteredTopics, "topic"); got != tt.wantMastered {
				t.Errorf("in MasteredTopics = %v, want %v", got, tt.wantMastered)
			}
			if got := slices.Contains(a.Weaknesses, "topic"); got != tt.wantGap {
				t.Errorf("in Weaknesses = %v, want %v", got, tt.wantGap)
			}
			if got := len(a.KnowledgeGaps) == 1; got != tt.wantGap {
				t.Errorf("has knowledge gap = %v, want %v", got, tt.wantGap)
			}
		})
	}
}

func TestAnalyzePerformance_GapsKeepFirstSeenOrder(t *testing.T) {
	history := records("loops", 45, "variables", 10, "loops", 40, "recursion", 95)

	a := adaptive.AnalyzePerformance(history)

	if len(a.KnowledgeGaps) != 2 {
		t.Fatalf("KnowledgeGaps = %+v, want 2 gaps", a.KnowledgeGaps)
	}
	// variables is more severe but loops was seen first.
	if a.KnowledgeGaps[0].Topic != "loops" || a.KnowledgeGaps[1].Topic != "variables" {
		t.Errorf("gap order = [%s %s], want [loops variables]", a.KnowledgeGaps[0].Topic, a.KnowledgeGaps[1].Topic)
	}
	if a.KnowledgeGaps[0].Score != 42.5 {
		t.Errorf("loops gap score = %v, want 42.5", a.KnowledgeGaps[0].Score)
	}
	if !equal(a.KnowledgeGaps[0].AssessmentIDs, []string{"a0", "a2"}) {
		t.Errorf("loops assessment ids = %v, want [a0 a2]", a.KnowledgeGaps[0].AssessmentIDs)
	}
	if a.AverageScores["recursion"] != 95 {
		t.Errorf("AverageScores[recursion] = %v, want 95", a.AverageScores["recursion"])
	}
}

func TestAnalyzePerformance_TrendsKeepInputOrder(t *testing.T) {
	history := records("b", 70, "a", 20)
	// Out of chronological order on purpose: no re-sorting happens.
	history[0].Date, history[1].Date = history[1].Date, history[0].Date
	history = append(history, adaptive.AssessmentRecord{ID: "untagged", Score: 60, Date: day0})

	a := adaptive.AnalyzePerformance(history)

	if len(a.LearningTrends) != 3 {
		t.Fatalf("LearningTrends len = %d, want 3", len(a.LearningTrends))
	}
	for i, p := range a.LearningTrends {
		if p.Type != adaptive.TrendAssessment {
			t.Errorf("trend[%d].Type = %q, want assessment", i, p.Type)
		}
		if p.Score != history[i].Score || !p.Date.Equal(history[i].Date) {
			t.Errorf("trend[%d] = %+v, want score %v date %v", i, p, history[i].Score, history[i].Date)
		}
	}
	if _, ok := a.AverageScores[""]; ok {
		t.Error("records without a topic must not be grouped")
	}
	if len(a.AverageScores) != 2 {
		t.Errorf("AverageScores = %v, want 2 topics", a.AverageScores)
	}
}

func TestAnalyzePerformance_InvalidScoreFallsBack(t *testing.T) {
	history := records("loops", 40)
	history = append(history, adaptive.AssessmentRecord{ID: "bad", Topic: "loops", Score: math.NaN()})

	assertEmptyAnalysis(t, adaptive.AnalyzePerformance(history))
}
