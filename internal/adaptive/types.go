package adaptive

import "time"

// AssessmentRecord is one historical score. Records without a topic are
// ignored by the analysis.
type AssessmentRecord struct {
	ID    string    `json:"id"`
	Topic string    `json:"topic"`
	Score float64   `json:"score"`
	Date  time.Time `json:"date"`
}

// Student is the read-only input describing a learner. History is expected
// in chronological order.
type Student struct {
	ID      string             `json:"id"`
	History []AssessmentRecord `json:"assessmentHistory"`
}

// CurrentProgress is a snapshot of where the student is in a course.
type CurrentProgress struct {
	CourseID          string     `json:"courseId"`
	CurrentTopic      string     `json:"currentTopic"`
	CurrentDifficulty Difficulty `json:"currentDifficulty,omitempty"`
	CompletedTopics   []string   `json:"completedTopics,omitempty"`
}

// Difficulty returns the current difficulty, defaulting to beginner.
func (p CurrentProgress) Difficulty() Difficulty {
	if p.CurrentDifficulty == "" {
		return Beginner
	}
	return p.CurrentDifficulty
}

func (p CurrentProgress) completedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedTopics))
	for _, id := range p.CompletedTopics {
		set[id] = true
	}
	return set
}

// TrendAssessment tags trend points that come from assessments.
const TrendAssessment = "assessment"

// TrendPoint is one entry of the learning trend.
type TrendPoint struct {
	Type  string    `json:"type"`
	Score float64   `json:"score"`
	Date  time.Time `json:"date"`
}

// KnowledgeGap is a topic whose average is at or below the struggle threshold.
type KnowledgeGap struct {
	Topic         string   `json:"topic"`
	Score         float64  `json:"score"`
	AssessmentIDs []string `json:"assessmentIds"`
}

// PerformanceAnalysis is derived from assessment history on every call.
type PerformanceAnalysis struct {
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	KnowledgeGaps  []KnowledgeGap     `json:"knowledgeGaps"`
	MasteredTopics []string           `json:"masteredTopics"`
	AverageScores  map[string]float64 `json:"averageScores"`
	LearningTrends []TrendPoint       `json:"learningTrends"`
}

func emptyAnalysis() PerformanceAnalysis {
	return PerformanceAnalysis{
		Strengths:      []string{},
		Weaknesses:     []string{},
		KnowledgeGaps:  []KnowledgeGap{},
		MasteredTopics: []string{},
		AverageScores:  map[string]float64{},
		LearningTrends: []TrendPoint{},
	}
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TopicKind says why a topic was recommended.
type TopicKind string

const (
	TopicRemedial    TopicKind = "remedial"
	TopicSequential  TopicKind = "sequential"
	TopicExploration TopicKind = "exploration"
	TopicStarting    TopicKind = "starting"
)

// TopicRecommendation is one entry of RecommendationBundle.NextTopics.
type TopicRecommendation struct {
	TopicID  string    `json:"topicId"`
	Title    string    `json:"title"`
	Priority Priority  `json:"priority"`
	Type     TopicKind `json:"type"`
	Reason   string    `json:"reason"`
}

// ResourceRecommendation is a learning resource chosen for the student.
type ResourceRecommendation struct {
	ResourceID string   `json:"resourceId"`
	Title      string   `json:"title"`
	Type       string   `json:"type,omitempty"`
	URL        string   `json:"url,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	TopicID    string   `json:"topicId"`
	Priority   Priority `json:"priority"`
	Rationale  string   `json:"rationale"`
}

// PracticeKind is the activity type of a practice suggestion.
type PracticeKind string

const (
	PracticeQuiz             PracticeKind = "quiz"
	PracticeExercise         PracticeKind = "exercise"
	PracticeAdvancedExercise PracticeKind = "advanced-exercise"
)

// PracticeSuggestion points at a quiz or exercise to attempt.
type PracticeSuggestion struct {
	Kind       PracticeKind `json:"type"`
	TopicID    string       `json:"topicId"`
	TopicTitle string       `json:"topicTitle"`
	ActivityID string       `json:"activityId"`
	Title      string       `json:"title"`
	Priority   Priority     `json:"priority"`
	Reason     string       `json:"reason"`
}

// Change is the direction of a difficulty adjustment.
type Change string

const (
	ChangeIncrease Change = "increase"
	ChangeDecrease Change = "decrease"
	ChangeMaintain Change = "maintain"
)

// DifficultyAdjustment is the output of the difficulty state machine.
type DifficultyAdjustment struct {
	Level  Difficulty `json:"level"`
	Change Change     `json:"change"`
	Reason string     `json:"reason"`
}

// Prediction sources.
const (
	SourcePrerequisite = "prerequisite"
	SourceForecast     = "forecast"
)

// StrugglePrediction forecasts difficulty with an upcoming topic.
type StrugglePrediction struct {
	TopicID                string   `json:"topicId"`
	Title                  string   `json:"title"`
	Confidence             float64  `json:"confidence"`
	Reason                 string   `json:"reason"`
	RecommendedPreparation []string `json:"recommendedPreparation"`
	Source                 string   `json:"source"`
}

// RecommendationBundle is the engine's sole output.
type RecommendationBundle struct {
	NextTopics              []TopicRecommendation    `json:"nextTopics"`
	ResourceRecommendations []ResourceRecommendation `json:"resourceRecommendations"`
	PracticeSuggestions     []PracticeSuggestion     `json:"practiceSuggestions"`
	AdjustedDifficulty      DifficultyAdjustment     `json:"adjustedDifficulty"`
	PredictedStruggleAreas  []StrugglePrediction     `json:"predictedStruggleAreas"`
	// Degraded is set when the bundle was built without performance analysis.
	Degraded bool `json:"degraded,omitempty"`
}
