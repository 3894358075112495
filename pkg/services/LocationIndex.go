package services

import (
	"github.com/minzhangphoto/portfolio/pkg/models"
)

/*
LocationIndex groups projects by location for the "by location" view. Keys
appear in first-encounter order and each group keeps project order. Projects
with no location share the single "Unknown" bucket.
*/
type LocationIndex struct {
	keys   []string
	groups map[string][]models.Project
}

func BuildLocationIndex(projects []models.Project) LocationIndex {
	result := LocationIndex{
		keys:   []string{},
		groups: map[string][]models.Project{},
	}

	for _, p := range projects {
		key := p.Location

		if key == "" {
			key = models.UnknownLocation
		}

		if _, ok := result.groups[key]; !ok {
			result.keys = append(result.keys, key)
		}

		result.groups[key] = append(result.groups[key], p)
	}

	return result
}

func (idx LocationIndex) Len() int {
	return len(idx.keys)
}

func (idx LocationIndex) Keys() []string {
	return append([]string{}, idx.keys...)
}

func (idx LocationIndex) Lookup(key string) ([]models.Project, bool) {
	projects, ok := idx.groups[key]

	if !ok {
		return nil, false
	}

	return append([]models.Project{}, projects...), true
}

func (idx LocationIndex) Groups() []models.LocationGroup {
	result := make([]models.LocationGroup, 0, len(idx.keys))

	for _, key := range idx.keys {
		result = append(result, models.LocationGroup{
			Location: key,
			Projects: append([]models.Project{}, idx.groups[key]...),
		})
	}

	return result
}
