package adaptive

import (
	"fmt"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
)

var (
	remedialDifficulties = []string{curriculum.Beginner, curriculum.Intermediate}
	deepenDifficulties   = []string{curriculum.Advanced, curriculum.Expert}
)

// RecommendResources maps knowledge gaps and mastered topics to learning
// resources, padding with general-interest material.
func RecommendResources(analysis PerformanceAnalysis, catalog curriculum.Catalog) []ResourceRecommendation {
	recs, err := run("resources", func() ([]ResourceRecommendation, error) {
		return recommendResources(analysis, catalog), nil
	})
	if err != nil {
		recordFallback("resources", err)
		return generalResources(catalog, nil, minResources)
	}
	return recs
}

func recommendResources(analysis PerformanceAnalysis, catalog curriculum.Catalog) []ResourceRecommendation {
	out := []ResourceRecommendation{}

	for _, gap := range truncate(analysis.KnowledgeGaps, maxResourceGaps) {
		topic, ok := catalog.FindTopic(gap.Topic)
		if !ok {
			continue
		}
		for _, r := range truncate(filterByDifficulty(topic.Resources, remedialDifficulties), resourcesPerGap) {
			out = append(out, newResourceRecommendation(topic, r, PriorityHigh,
				fmt.Sprintf("Addresses your knowledge gap in %s (average %.1f%%)", topic.DisplayTitle(), gap.Score)))
		}
	}

	for _, id := range truncate(analysis.MasteredTopics, maxResourceMastered) {
		topic, ok := catalog.FindTopic(id)
		if !ok {
			continue
		}
		for _, r := range truncate(filterByDifficulty(topic.Resources, deepenDifficulties), 1) {
			out = append(out, newResourceRecommendation(topic, r, PriorityMedium, "Deepen expertise"))
		}
	}

	if len(out) < minResources {
		out = append(out, generalResources(catalog, out, minResources-len(out))...)
	}
	return truncate(out, maxResources)
}

// filterByDifficulty keeps resources whose difficulty tag exactly matches one
// of the wanted tags. Untagged resources never match.
func filterByDifficulty(resources []curriculum.Resource, wanted []string) []curriculum.Resource {
	var out []curriculum.Resource
	for _, r := range resources {
		for _, w := range wanted {
			if r.Difficulty == w {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// generalResources walks the catalog in order and returns up to n resources
// not already present in taken.
func generalResources(catalog curriculum.Catalog, taken []ResourceRecommendation, n int) []ResourceRecommendation {
	seen := make(map[string]bool, len(taken))
	for _, r := range taken {
		seen[r.TopicID+"/"+r.ResourceID] = true
	}

	out := []ResourceRecommendation{}
	for _, topic := range catalog.Topics() {
		for _, r := range topic.Resources {
			if len(out) >= n {
				return out
			}
			key := topic.ID + "/" + r.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, newResourceRecommendation(topic, r, PriorityLow, "General interest"))
		}
	}
	return out
}

func newResourceRecommendation(topic curriculum.Topic, r curriculum.Resource, priority Priority, rationale string) ResourceRecommendation {
	return ResourceRecommendation{
		ResourceID: r.ID,
		Title:      r.Title,
		Type:       r.Type,
		URL:        r.URL,
		Difficulty: r.Difficulty,
		TopicID:    topic.ID,
		Priority:   priority,
		Rationale:  rationale,
	}
}
