package adaptive

import (
	"fmt"
	"math"
)

// AnalyzePerformance diagnoses strengths, weaknesses and knowledge gaps from
// assessment history. It never fails: on any internal error the all-empty
// analysis is returned.
func AnalyzePerformance(history []AssessmentRecord) PerformanceAnalysis {
	analysis, err := run("analyzer", func() (PerformanceAnalysis, error) {
		return analyze(history)
	})
	if err != nil {
		recordFallback("analyzer", err)
		return emptyAnalysis()
	}
	return analysis
}

type topicScores struct {
	scores []float64
	ids    []string
}

func analyze(history []AssessmentRecord) (PerformanceAnalysis, error) {
	a := emptyAnalysis()

	// Topics keep first-seen order; knowledge gaps inherit it.
	var order []string
	byTopic := make(map[string]*topicScores)

	for _, rec := range history {
		if math.IsNaN(rec.Score) || math.IsInf(rec.Score, 0) {
			return emptyAnalysis(), fmt.Errorf("%w: record %q", ErrInvalidScore, rec.ID)
		}
		a.LearningTrends = append(a.LearningTrends, TrendPoint{
			Type:  TrendAssessment,
			Score: rec.Score,
			Date:  rec.Date,
		})

		if rec.Topic == "" {
			continue
		}
		ts, ok := byTopic[rec.Topic]
		if !ok {
			ts = &topicScores{}
			byTopic[rec.Topic] = ts
			order = append(order, rec.Topic)
		}
		ts.scores = append(ts.scores, rec.Score)
		if rec.ID != "" {
			ts.ids = append(ts.ids, rec.ID)
		}
	}

	for _, topic := range order {
		ts := byTopic[topic]
		avg := mean(ts.scores)
		a.AverageScores[topic] = avg

		if avg >= strengthScore {
			a.Strengths = append(a.Strengths, topic)
			if avg >= masteryScore {
				a.MasteredTopics = append(a.MasteredTopics, topic)
			}
		}
		if avg <= struggleScore {
			a.Weaknesses = append(a.Weaknesses, topic)
			ids := append([]string{}, ts.ids...)
			a.KnowledgeGaps = append(a.KnowledgeGaps, KnowledgeGap{
				Topic:         topic,
				Score:         avg,
				AssessmentIDs: ids,
			})
		}
	}

	return a, nil
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
