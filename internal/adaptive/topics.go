package adaptive

import (
	"fmt"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

// RecommendTopics merges remedial, sequential and exploration topics into at
// most five recommendations, remedial first.
func RecommendTopics(analysis PerformanceAnalysis, progress CurrentProgress, catalog curriculum.Catalog) []TopicRecommendation {
	recs, err := run("topics", func() ([]TopicRecommendation, error) {
		return recommendTopics(analysis, progress, catalog)
	})
	if err != nil {
		recordFallback("topics", err)
		return sequenceTopics(progress, catalog, 1)
	}
	return recs
}

func recommendTopics(analysis PerformanceAnalysis, progress CurrentProgress, catalog curriculum.Catalog) ([]TopicRecommendation, error) {
	course, hasCourse := catalog.Course(progress.CourseID)
	if progress.CurrentTopic == "" || !hasCourse {
		return startingTopics(progress, catalog), nil
	}

	current := course.IndexOf(progress.CurrentTopic)
	if current < 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrTopicNotFound, progress.CurrentTopic, course.ID)
	}

	completed := progress.completedSet()
	list := newTopicList()

	list.add(gapTopics(analysis.KnowledgeGaps, completed, catalog)...)
	list.add(followingTopics(course, current, completed, maxSequenceTopics)...)
	list.items = truncate(list.items, maxNextTopics)

	if len(list.items) < minNextTopics {
		for _, rec := range explorationTopics(analysis.Strengths, completed, catalog) {
			if len(list.items) >= maxNextTopics {
				break
			}
			if rec.TopicID == progress.CurrentTopic {
				continue
			}
			list.add(rec)
		}
	}

	return list.items, nil
}

// topicList keeps the first recommendation for each topic id.
type topicList struct {
	items []TopicRecommendation
	seen  map[string]bool
}

func newTopicList() *topicList {
	return &topicList{items: []TopicRecommendation{}, seen: map[string]bool{}}
}

func (l *topicList) add(recs ...TopicRecommendation) {
	for _, r := range recs {
		if l.seen[r.TopicID] {
			continue
		}
		l.seen[r.TopicID] = true
		l.items = append(l.items, r)
	}
}

// gapTopics keeps the knowledge-gap order from the analysis, which is the
// first-seen order of each topic in the history, not severity.
func gapTopics(gaps []KnowledgeGap, completed map[string]bool, catalog curriculum.Catalog) []TopicRecommendation {
	var out []TopicRecommendation
	for _, gap := range gaps {
		if len(out) >= maxGapTopics {
			break
		}
		if completed[gap.Topic] {
			continue
		}
		title := gap.Topic
		if t, ok := catalog.FindTopic(gap.Topic); ok {
			title = t.DisplayTitle()
		}
		out = append(out, TopicRecommendation{
			TopicID:  gap.Topic,
			Title:    title,
			Priority: PriorityHigh,
			Type:     TopicRemedial,
			Reason:   fmt.Sprintf("Average score of %.1f%% shows a knowledge gap to close first", gap.Score),
		})
	}
	return out
}

// followingTopics returns up to limit uncompleted topics after position current.
func followingTopics(course curriculum.Course, current int, completed map[string]bool, limit int) []TopicRecommendation {
	out := []TopicRecommendation{}
	for _, t := range course.Topics[current+1:] {
		if len(out) >= limit {
			break
		}
		if completed[t.ID] {
			continue
		}
		out = append(out, TopicRecommendation{
			TopicID:  t.ID,
			Title:    t.DisplayTitle(),
			Priority: PriorityMedium,
			Type:     TopicSequential,
			Reason:   "Next in the course sequence",
		})
	}
	return out
}

// explorationTopics suggests uncompleted topics adjacent to a strength: those
// that list it as a prerequisite or directly follow it in its course.
func explorationTopics(strengths []string, completed map[string]bool, catalog curriculum.Catalog) []TopicRecommendation {
	var out []TopicRecommendation
	for _, strength := range strengths {
		for _, course := range catalog {
			idx := course.IndexOf(strength)
			for i, t := range course.Topics {
				if completed[t.ID] || t.ID == strength {
					continue
				}
				if !t.HasPrerequisite(strength) && !(idx >= 0 && i == idx+1) {
					continue
				}
				out = append(out, TopicRecommendation{
					TopicID:  t.ID,
					Title:    t.DisplayTitle(),
					Priority: PriorityLow,
					Type:     TopicExploration,
					Reason:   fmt.Sprintf("Builds on your strength in %s", strength),
				})
			}
		}
	}
	return out
}

// startingTopics returns the first topics without prerequisites, from the
// progress course when it exists and from the whole catalog otherwise.
func startingTopics(progress CurrentProgress, catalog curriculum.Catalog) []TopicRecommendation {
	topics := catalog.Topics()
	if course, ok := catalog.Course(progress.CourseID); ok {
		topics = course.Topics
	}

	out := []TopicRecommendation{}
	for _, t := range topics {
		if len(out) >= startingTopicCount {
			break
		}
		if len(t.Prerequisites) > 0 {
			continue
		}
		out = append(out, TopicRecommendation{
			TopicID:  t.ID,
			Title:    t.DisplayTitle(),
			Priority: PriorityMedium,
			Type:     TopicStarting,
			Reason:   "A good starting point with no prerequisites",
		})
	}
	return out
}

// sequenceTopics needs nothing but the progress snapshot and the catalog:
// up to limit uncompleted topics after the current one, or the starting
// topics when the position is unknown.
func sequenceTopics(progress CurrentProgress, catalog curriculum.Catalog, limit int) []TopicRecommendation {
	course, ok := catalog.Course(progress.CourseID)
	if !ok {
		return startingTopics(progress, catalog)
	}
	current := course.IndexOf(progress.CurrentTopic)
	if current < 0 {
		return startingTopics(progress, catalog)
	}

	return followingTopics(course, current, progress.completedSet(), limit)
}
