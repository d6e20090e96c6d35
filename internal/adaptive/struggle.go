package adaptive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

// DefaultForecastTimeout bounds one call to the forecast service.
const DefaultForecastTimeout = 8 * time.Second

// Forecaster predicts struggles on upcoming topics from raw history. It is
// only consulted when prerequisite analysis is inconclusive.
type Forecaster interface {
	Forecast(ctx context.Context, history []AssessmentRecord, upcoming []curriculum.Topic) ([]StrugglePrediction, error)
}

// StrugglePredictor forecasts which of the next topics will be hard for the
// student.
type StrugglePredictor struct {
	forecaster Forecaster
	timeout    time.Duration
}

// NewStrugglePredictor creates a predictor. A nil forecaster limits it to
// prerequisite analysis; a non-positive timeout uses DefaultForecastTimeout.
func NewStrugglePredictor(forecaster Forecaster, timeout time.Duration) *StrugglePredictor {
	if timeout <= 0 {
		timeout = DefaultForecastTimeout
	}
	return &StrugglePredictor{forecaster: forecaster, timeout: timeout}
}

// Predict returns at most three predictions, prerequisite-derived first.
// Forecast failures never surface; they yield no additional predictions.
func (p *StrugglePredictor) Predict(ctx context.Context, student Student, progress CurrentProgress, catalog curriculum.Catalog) []StrugglePrediction {
	out, err := run("struggle", func() ([]StrugglePrediction, error) {
		return p.predict(ctx, student, progress, catalog), nil
	})
	if err != nil {
		recordFallback("struggle", err)
		return []StrugglePrediction{}
	}
	return out
}

func (p *StrugglePredictor) predict(ctx context.Context, student Student, progress CurrentProgress, catalog curriculum.Catalog) []StrugglePrediction {
	upcoming := upcomingTopics(progress, catalog)
	if len(upcoming) == 0 {
		return []StrugglePrediction{}
	}

	predictions := prerequisitePredictions(student.History, upcoming, catalog)

	if len(predictions) < minPrereqPredictions && len(student.History) > 0 && p.forecaster != nil {
		predictions = mergePredictions(predictions, p.forecast(ctx, student, upcoming))
	}

	return truncate(predictions, maxPredictions)
}

func (p *StrugglePredictor) forecast(ctx context.Context, student Student, upcoming []curriculum.Topic) []StrugglePrediction {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	forecasts, err := run("forecast", func() ([]StrugglePrediction, error) {
		return p.forecaster.Forecast(ctx, student.History, upcoming)
	})
	if err != nil {
		slog.Warn("struggle forecast unavailable, using prerequisite analysis only",
			"student_id", student.ID,
			"error", err,
		)
		return nil
	}
	return forecasts
}

// upcomingTopics returns the three topics after the current one, or nothing
// when the current topic is not in the progress course.
func upcomingTopics(progress CurrentProgress, catalog curriculum.Catalog) []curriculum.Topic {
	course, ok := catalog.Course(progress.CourseID)
	if !ok {
		return nil
	}
	current := course.IndexOf(progress.CurrentTopic)
	if current < 0 {
		return nil
	}
	end := min(current+1+upcomingTopicCount, len(course.Topics))
	return course.Topics[current+1 : end]
}

func prerequisitePredictions(history []AssessmentRecord, upcoming []curriculum.Topic, catalog curriculum.Catalog) []StrugglePrediction {
	weak := make(map[string]bool)
	for _, rec := range history {
		if rec.Topic != "" && rec.Score < struggleScore {
			weak[rec.Topic] = true
		}
	}

	out := []StrugglePrediction{}
	for _, topic := range upcoming {
		if len(topic.Prerequisites) == 0 {
			continue
		}
		var weakPrereqs []string
		for _, pre := range topic.Prerequisites {
			if weak[pre] {
				weakPrereqs = append(weakPrereqs, pre)
			}
		}
		if len(weakPrereqs) == 0 {
			continue
		}

		titles := make([]string, len(weakPrereqs))
		prep := make([]string, len(weakPrereqs))
		for i, id := range weakPrereqs {
			titles[i] = id
			if t, ok := catalog.FindTopic(id); ok {
				titles[i] = t.DisplayTitle()
			}
			prep[i] = "Review " + titles[i]
		}

		out = append(out, StrugglePrediction{
			TopicID:                topic.ID,
			Title:                  topic.DisplayTitle(),
			Confidence:             float64(len(weakPrereqs)) / float64(len(topic.Prerequisites)),
			Reason:                 fmt.Sprintf("Low scores in prerequisite topics: %s", strings.Join(titles, ", ")),
			RecommendedPreparation: prep,
			Source:                 SourcePrerequisite,
		})
	}
	return out
}

// mergePredictions appends forecasts whose topic is not already predicted.
func mergePredictions(base, extra []StrugglePrediction) []StrugglePrediction {
	seen := make(map[string]bool, len(base)+len(extra))
	for _, p := range base {
		seen[p.TopicID] = true
	}
	for _, p := range extra {
		if p.TopicID == "" || seen[p.TopicID] {
			continue
		}
		seen[p.TopicID] = true
		p.Source = SourceForecast
		if p.RecommendedPreparation == nil {
			p.RecommendedPreparation = []string{}
		}
		base = append(base, p)
	}
	return base
}
