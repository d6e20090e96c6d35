package adaptive

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/crypto/blake2b"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/ai"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

// ForecastCache stores validated forecast payloads. Get reports a miss with
// found == false and a nil error.
type ForecastCache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const forecastSystemPrompt = `You are an educational analytics assistant. You predict which upcoming course topics a student is likely to struggle with, based only on their assessment history. Respond with a JSON array and nothing else.`

const forecastSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["topicId", "title", "confidence", "reason", "recommendedPreparation"],
    "properties": {
      "topicId": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "confidence": {"type": "number", "minimum": 0, "maximum": 1},
      "reason": {"type": "string"},
      "recommendedPreparation": {"type": "array", "items": {"type": "string"}}
    }
  }
}`

var forecastSchema = mustSchema(forecastSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile forecast schema: %v", err))
	}
	return schema
}

// AIForecaster asks a text-generation service for struggle predictions.
type AIForecaster struct {
	completer ai.Completer
	model     string
	cache     ForecastCache
	cacheTTL  time.Duration
}

// AIForecasterOption configures an AIForecaster.
type AIForecasterOption func(*AIForecaster)

// WithForecastModel pins the model name sent with each request.
func WithForecastModel(model string) AIForecasterOption {
	return func(f *AIForecaster) {
		f.model = model
	}
}

// WithForecastCache caches validated responses keyed by prompt.
func WithForecastCache(cache ForecastCache, ttl time.Duration) AIForecasterOption {
	return func(f *AIForecaster) {
		f.cache = cache
		f.cacheTTL = ttl
	}
}

// NewAIForecaster creates a forecaster backed by completer.
func NewAIForecaster(completer ai.Completer, opts ...AIForecasterOption) *AIForecaster {
	f := &AIForecaster{completer: completer}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forecast returns at most two predictions. A reply that is not a JSON array
// of the expected shape yields ErrMalformedForecast.
func (f *AIForecaster) Forecast(ctx context.Context, history []AssessmentRecord, upcoming []curriculum.Topic) ([]StrugglePrediction, error) {
	prompt := BuildForecastPrompt(history, upcoming)
	key := forecastKey(f.model, prompt)

	if payload, ok := f.cached(ctx, key); ok {
		if preds, err := parseForecast(payload); err == nil {
			forecastRequestsTotal.WithLabelValues(outcomeCached).Inc()
			return preds, nil
		}
	}

	resp, err := f.completer.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: forecastSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Model:       f.model,
		MaxTokens:   600,
		Temperature: 0.2,
		Task:        ai.TaskPrediction,
	})
	if err != nil {
		forecastRequestsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("forecast completion: %w", err)
	}

	payload := extractJSONArray(resp.Content)
	preds, err := parseForecast(payload)
	if err != nil {
		forecastRequestsTotal.WithLabelValues(outcomeMalformed).Inc()
		return nil, err
	}
	forecastRequestsTotal.WithLabelValues(outcomeOK).Inc()

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, []byte(payload), f.cacheTTL); err != nil {
			slog.Warn("failed to cache forecast", "error", err)
		}
	}
	return preds, nil
}

func (f *AIForecaster) cached(ctx context.Context, key string) (string, bool) {
	if f.cache == nil {
		return "", false
	}
	payload, found, err := f.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("forecast cache read failed", "error", err)
		return "", false
	}
	return string(payload), found
}

// BuildForecastPrompt renders history and upcoming topics one per line.
func BuildForecastPrompt(history []AssessmentRecord, upcoming []curriculum.Topic) string {
	var b strings.Builder
	b.WriteString("Predict which of the upcoming topics this student is likely to struggle with.\n\n")

	b.WriteString("Assessment history:\n")
	for _, rec := range history {
		fmt.Fprintf(&b, "Topic: %s, Score: %s%%, Date: %s\n", rec.Topic, formatScore(rec.Score), formatDate(rec.Date))
	}

	b.WriteString("\nUpcoming topics:\n")
	for _, t := range upcoming {
		concepts := "N/A"
		if len(t.KeyConcepts) > 0 {
			concepts = strings.Join(t.KeyConcepts, ", ")
		}
		fmt.Fprintf(&b, "Topic ID: %s, Title: %s, Key Concepts: %s\n", t.ID, t.Title, concepts)
	}

	fmt.Fprintf(&b, "\nReturn at most %d predictions as a JSON array of objects with the fields "+
		"topicId (string), title (string), confidence (number between 0 and 1), reason (string) "+
		"and recommendedPreparation (array of strings). Return [] if no struggle is likely.", maxForecasts)
	return b.String()
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(time.DateOnly)
}

// extractJSONArray strips prose and code fences around the outermost array.
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return content
	}
	return content[start : end+1]
}

type forecastItem struct {
	TopicID                string   `json:"topicId"`
	Title                  string   `json:"title"`
	Confidence             float64  `json:"confidence"`
	Reason                 string   `json:"reason"`
	RecommendedPreparation []string `json:"recommendedPreparation"`
}

func parseForecast(payload string) ([]StrugglePrediction, error) {
	result, err := forecastSchema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedForecast, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedForecast, strings.Join(msgs, "; "))
	}

	var items []forecastItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedForecast, err)
	}

	out := make([]StrugglePrediction, 0, len(items))
	for _, it := range truncate(items, maxForecasts) {
		prep := it.RecommendedPreparation
		if prep == nil {
			prep = []string{}
		}
		out = append(out, StrugglePrediction{
			TopicID:                it.TopicID,
			Title:                  it.Title,
			Confidence:             it.Confidence,
			Reason:                 it.Reason,
			RecommendedPreparation: prep,
			Source:                 SourceForecast,
		})
	}
	return out, nil
}

func forecastKey(model, prompt string) string {
	sum := blake2b.Sum256([]byte(model + "\x00" + prompt))
	return "adaptive:forecast:" + hex.EncodeToString(sum[:])
}
