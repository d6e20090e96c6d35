package adaptive

import "fmt"

// AdjustDifficulty moves the student at most one rung along the difficulty
// ladder based on the average of the last five assessments.
func AdjustDifficulty(analysis PerformanceAnalysis, progress CurrentProgress) DifficultyAdjustment {
	adj, err := run("difficulty", func() (DifficultyAdjustment, error) {
		return adjustDifficulty(analysis, progress)
	})
	if err != nil {
		recordFallback("difficulty", err)
		return fallbackDifficulty(progress)
	}
	return adj
}

func adjustDifficulty(analysis PerformanceAnalysis, progress CurrentProgress) (DifficultyAdjustment, error) {
	current := progress.Difficulty()
	rung := current.Rung()
	if rung < 0 {
		return DifficultyAdjustment{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, current)
	}

	window := recentAssessments(analysis.LearningTrends, trendWindow)
	if len(window) == 0 {
		return DifficultyAdjustment{Level: current, Change: ChangeMaintain, Reason: "insufficient data"}, nil
	}

	scores := make([]float64, len(window))
	for i, p := range window {
		scores[i] = p.Score
	}
	avg := mean(scores)
	top := len(difficultyLevels) - 1

	switch {
	case avg >= advanceScore:
		if rung == top {
			return DifficultyAdjustment{
				Level:  current,
				Change: ChangeMaintain,
				Reason: fmt.Sprintf("already at the ceiling difficulty (recent average %.1f%%)", avg),
			}, nil
		}
		return DifficultyAdjustment{
			Level:  difficultyLevels[rung+1],
			Change: ChangeIncrease,
			Reason: fmt.Sprintf("recent average %.1f%% meets the %.0f%% adaptation threshold", avg, advanceScore),
		}, nil
	case avg < struggleScore:
		if rung == 0 {
			return DifficultyAdjustment{
				Level:  current,
				Change: ChangeMaintain,
				Reason: fmt.Sprintf("already at the floor difficulty (recent average %.1f%%)", avg),
			}, nil
		}
		return DifficultyAdjustment{
			Level:  difficultyLevels[rung-1],
			Change: ChangeDecrease,
			Reason: fmt.Sprintf("recent average %.1f%% is below the %.0f%% struggle threshold", avg, struggleScore),
		}, nil
	default:
		return DifficultyAdjustment{
			Level:  current,
			Change: ChangeMaintain,
			Reason: fmt.Sprintf("appropriate performance for the current difficulty (recent average %.1f%%)", avg),
		}, nil
	}
}

// recentAssessments returns the last n assessment trend points in order.
func recentAssessments(trends []TrendPoint, n int) []TrendPoint {
	var out []TrendPoint
	for _, p := range trends {
		if p.Type == TrendAssessment {
			out = append(out, p)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// fallbackDifficulty keeps the student where they are. An off-ladder input
// collapses to beginner so the output is always a valid level.
func fallbackDifficulty(progress CurrentProgress) DifficultyAdjustment {
	level := progress.Difficulty()
	if !level.Valid() {
		level = Beginner
	}
	return DifficultyAdjustment{Level: level, Change: ChangeMaintain, Reason: "unable to compute"}
}
