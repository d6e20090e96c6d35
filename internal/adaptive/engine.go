// Package adaptive implements the adaptive learning recommendation engine.
//
// The engine is a pure function of its inputs apart from one optional
// outbound call to a text-generation service for struggle forecasts. Every
// public entry point is total: component failures are replaced by documented
// fallback values, and the orchestrator degrades to a bundle built from the
// progress snapshot and the catalog alone.
package adaptive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

// EngineConfig holds dependencies for the engine.
type EngineConfig struct {
	Forecaster      Forecaster    // optional; nil disables forecasting
	ForecastTimeout time.Duration // default DefaultForecastTimeout
}

// Engine generates recommendation bundles. It holds no per-student state and
// is safe for concurrent use.
type Engine struct {
	predictor *StrugglePredictor
}

// NewEngine creates a new engine.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		predictor: NewStrugglePredictor(cfg.Forecaster, cfg.ForecastTimeout),
	}
}

// AnalyzePerformance exposes the diagnostics step on its own.
func (e *Engine) AnalyzePerformance(history []AssessmentRecord) PerformanceAnalysis {
	return AnalyzePerformance(history)
}

// GenerateRecommendations builds the full bundle. It never fails; if any
// stage breaks down the degraded bundle is returned instead.
func (e *Engine) GenerateRecommendations(ctx context.Context, student Student, catalog curriculum.Catalog, progress CurrentProgress) (bundle RecommendationBundle) {
	start := time.Now()
	defer func() {
		recommendationDuration.Observe(time.Since(start).Seconds())
	}()
	defer func() {
		if r := recover(); r != nil {
			recordFallback("orchestrator", fmt.Errorf("panic: %v", r))
			bundle = DegradedBundle(progress, catalog)
		}
	}()

	analysis := AnalyzePerformance(student.History)

	var (
		topics     []TopicRecommendation
		resources  []ResourceRecommendation
		practice   []PracticeSuggestion
		difficulty DifficultyAdjustment
		struggles  []StrugglePrediction
	)

	// Forecasting is the only stage that may block, so it runs alongside
	// the purely local ones.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := run("struggle", func() (struct{}, error) {
			struggles = e.predictor.Predict(gctx, student, progress, catalog)
			return struct{}{}, nil
		})
		return err
	})
	g.Go(func() error {
		_, err := run("local", func() (struct{}, error) {
			topics = RecommendTopics(analysis, progress, catalog)
			resources = RecommendResources(analysis, catalog)
			practice = RecommendPractice(analysis, catalog)
			difficulty = AdjustDifficulty(analysis, progress)
			return struct{}{}, nil
		})
		return err
	})
	if err := g.Wait(); err != nil {
		recordFallback("orchestrator", err)
		return DegradedBundle(progress, catalog)
	}

	slog.Debug("recommendations generated",
		"student_id", student.ID,
		"course_id", progress.CourseID,
		"next_topics", len(topics),
		"resources", len(resources),
		"practice", len(practice),
		"difficulty", difficulty.Level,
		"struggles", len(struggles),
	)

	return RecommendationBundle{
		NextTopics:              topics,
		ResourceRecommendations: resources,
		PracticeSuggestions:     practice,
		AdjustedDifficulty:      difficulty,
		PredictedStruggleAreas:  struggles,
	}
}

// DegradedBundle is built only from the progress snapshot and the raw
// catalog: no analysis and no forecasting.
func DegradedBundle(progress CurrentProgress, catalog curriculum.Catalog) RecommendationBundle {
	return RecommendationBundle{
		NextTopics:              sequenceTopics(progress, catalog, startingTopicCount),
		ResourceRecommendations: generalResources(catalog, nil, minResources),
		PracticeSuggestions:     []PracticeSuggestion{},
		AdjustedDifficulty:      fallbackDifficulty(progress),
		PredictedStruggleAreas:  []StrugglePrediction{},
		Degraded:                true,
	}
}
