package adaptive_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/ai"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

func TestBuildForecastPrompt(t *testing.T) {
	history := []adaptive.AssessmentRecord{
		{ID: "a1", Topic: "loops", Score: 42.5, Date: day0},
		{ID: "a2", Topic: "functions", Score: 80},
	}
	upcoming := []curriculum.Topic{
		{ID: "loops", Title: "Loops", KeyConcepts: []string{"for", "while"}},
		{ID: "graphs", Title: "Graphs"},
	}

	prompt := adaptive.BuildForecastPrompt(history, upcoming)

	for _, line := range []string{
		"Topic: loops, Score: 42.5%, Date: 2024-03-01",
		"Topic: functions, Score: 80%, Date: unknown",
		"Topic ID: loops, Title: Loops, Key Concepts: for, while",
		"Topic ID: graphs, Title: Graphs, Key Concepts: N/A",
		"at most 2 predictions",
	} {
		if !strings.Contains(prompt, line) {
			t.Errorf("prompt missing %q:\n%s", line, prompt)
		}
	}
}

func TestAIForecaster_ParsesReply(t *testing.T) {
	reply := "Here is my analysis:\n```json\n" + `[
  {"topicId": "sorting", "title": "Sorting", "confidence": 0.8, "reason": "weak loops", "recommendedPreparation": ["Review Loops"]},
  {"topicId": "graphs", "title": "Graphs", "confidence": 0.4, "reason": "new material", "recommendedPreparation": []},
  {"topicId": "heaps", "title": "Heaps", "confidence": 0.3, "reason": "extra", "recommendedPreparation": []}
]` + "\n```"
	mock := ai.NewMockProvider(reply)
	f := adaptive.NewAIForecaster(mock, adaptive.WithForecastModel("gpt-test"))

	got, err := f.Forecast(context.Background(), records("loops", 40), testCatalog()[0].Topics[4:])
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}

	if !equal(predictionIDs(got), []string{"sorting", "graphs"}) {
		t.Errorf("predictions = %v, want the first two", predictionIDs(got))
	}
	if got[0].Confidence != 0.8 || got[0].Source != adaptive.SourceForecast {
		t.Errorf("first prediction = %+v", got[0])
	}

	req := mock.LastRequest()
	if req == nil {
		t.Fatal("no request sent")
	}
	if req.Task != ai.TaskPrediction || req.Model != "gpt-test" || req.Temperature != 0.2 {
		t.Errorf("request = task %v model %q temperature %v", req.Task, req.Model, req.Temperature)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want system then user", req.Messages)
	}
}

func TestAIForecaster_EmptyArray(t *testing.T) {
	f := adaptive.NewAIForecaster(ai.NewMockProvider("[]"))

	got, err := f.Forecast(context.Background(), records("loops", 40), nil)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("predictions = %v, want none", got)
	}
}

func TestAIForecaster_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose", "The student will be fine."},
		{"object", `{"topicId": "sorting"}`},
		{"missing field", `[{"topicId": "sorting", "title": "Sorting", "confidence": 0.5}]`},
		{"confidence out of range", `[{"topicId": "s", "title": "S", "confidence": 3, "reason": "r", "recommendedPreparation": []}]`},
		{"truncated", `[{"topicId": "s", "title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := adaptive.NewAIForecaster(ai.NewMockProvider(tt.reply))

			_, err := f.Forecast(context.Background(), records("loops", 40), nil)
			if !errors.Is(err, adaptive.ErrMalformedForecast) {
				t.Errorf("Forecast() error = %v, want ErrMalformedForecast", err)
			}
		})
	}
}

func TestAIForecaster_CompletionError(t *testing.T) {
	mock := &ai.MockProvider{Err: errors.New("rate limited")}
	f := adaptive.NewAIForecaster(mock)

	_, err := f.Forecast(context.Background(), records("loops", 40), nil)
	if err == nil || errors.Is(err, adaptive.ErrMalformedForecast) {
		t.Errorf("Forecast() error = %v, want a completion error", err)
	}
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  time.Duration
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	c.ttl = ttl
	return nil
}

func TestAIForecaster_Cache(t *testing.T) {
	mock := ai.NewMockProvider(`[{"topicId": "graphs", "title": "Graphs", "confidence": 0.5, "reason": "r", "recommendedPreparation": []}]`)
	cache := &memoryCache{}
	f := adaptive.NewAIForecaster(mock, adaptive.WithForecastCache(cache, 30*time.Minute))
	history := records("loops", 40)

	for range 3 {
		got, err := f.Forecast(context.Background(), history, nil)
		if err != nil {
			t.Fatalf("Forecast() error = %v", err)
		}
		if !equal(predictionIDs(got), []string{"graphs"}) {
			t.Fatalf("predictions = %v", predictionIDs(got))
		}
	}

	if mock.Calls() != 1 {
		t.Errorf("completion calls = %d, want 1", mock.Calls())
	}
	if cache.ttl != 30*time.Minute {
		t.Errorf("cache ttl = %v", cache.ttl)
	}

	// A different history is a different prompt.
	if _, err := f.Forecast(context.Background(), records("loops", 41), nil); err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if mock.Calls() != 2 {
		t.Errorf("completion calls = %d, want 2", mock.Calls())
	}
}

func TestAIForecaster_MalformedNotCached(t *testing.T) {
	mock := ai.NewMockProvider("nope")
	cache := &memoryCache{}
	f := adaptive.NewAIForecaster(mock, adaptive.WithForecastCache(cache, time.Minute))

	_, _ = f.Forecast(context.Background(), records("loops", 40), nil)

	if len(cache.data) != 0 {
		t.Errorf("cache holds %d entries, want 0", len(cache.data))
	}
}
