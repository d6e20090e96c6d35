package adaptive

import "github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"

// Difficulty is a rung on the difficulty ladder.
type Difficulty string

const (
	Beginner     Difficulty = curriculum.Beginner
	Intermediate Difficulty = curriculum.Intermediate
	Advanced     Difficulty = curriculum.Advanced
	Expert       Difficulty = curriculum.Expert
)

// difficultyLevels is the fixed, totally ordered ladder.
var difficultyLevels = [...]Difficulty{Beginner, Intermediate, Advanced, Expert}

// DifficultyLevels returns the ladder from easiest to hardest.
func DifficultyLevels() []Difficulty {
	return difficultyLevels[:]
}

// Rung returns the position of d on the ladder, or -1 if d is not a level.
func (d Difficulty) Rung() int {
	for i, l := range difficultyLevels {
		if l == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is on the ladder.
func (d Difficulty) Valid() bool { return d.Rung() >= 0 }

// Scoring thresholds. Scores are percentages in [0, 100].
const (
	adaptationThreshold = 0.70
	struggleThreshold   = 0.50

	masteryScore  = 90.0
	strengthScore = 85.0
	advanceScore  = adaptationThreshold * 100
	struggleScore = struggleThreshold * 100
)

// List caps. Every list the engine returns is truncated to these sizes.
const (
	trendWindow = 5

	startingTopicCount = 3
	maxGapTopics       = 2
	maxSequenceTopics  = 3
	maxNextTopics      = 5
	minNextTopics      = 3

	maxResourceGaps     = 3
	resourcesPerGap     = 2
	maxResourceMastered = 2
	minResources        = 5
	maxResources        = 7

	maxPracticeGaps      = 4
	maxPracticeStrengths = 2
	maxPractice          = 5

	upcomingTopicCount   = 3
	minPrereqPredictions = 2
	maxForecasts         = 2
	maxPredictions       = 3
)

// truncate returns at most n leading elements of s.
func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
