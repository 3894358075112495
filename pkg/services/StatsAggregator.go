package services

import (
	"sync"

	"github.com/minzhangphoto/portfolio/pkg/models"
)

func ComputeStats(projects []models.Project) models.Stats {
	result := models.Stats{
		TotalProjects: len(projects),
	}

	locations := map[string]struct{}{}

	for _, p := range projects {
		if p.HasCount() {
			result.TotalPhotos += p.Count
		} else {
			result.TotalPhotos += len(p.Images)
		}

		if p.Location != "" {
			locations[p.Location] = struct{}{}
		}
	}

	result.UniqueLocations = len(locations)
	return result
}

/*
StatsAggregator memoizes ComputeStats on the identity of the project set.
Sets are immutable, so the pointer is a sufficient cache key.
*/
type StatsAggregator struct {
	mu    sync.Mutex
	set   *models.ProjectSet
	stats models.Stats
	runs  int
}

func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{}
}

func (a *StatsAggregator) Stats(set *models.ProjectSet) models.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runs > 0 && a.set == set {
		return a.stats
	}

	a.set = set
	a.stats = ComputeStats(set.All())
	a.runs++

	return a.stats
}

// Computations reports how many times stats were actually recomputed.
func (a *StatsAggregator) Computations() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.runs
}
