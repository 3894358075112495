package models

import (
	"fmt"
	"slices"
)

const UnknownLocation = "Unknown"

type Project struct {
	ID            string  `json:"id"`
	DisplayID     int     `json:"displayId"`
	Title         string  `json:"title"`
	Location      string  `json:"location,omitempty"`
	Year          string  `json:"year,omitempty"`
	Cover         Image   `json:"cover"`
	Count         int     `json:"count,omitempty"`
	Images        []Image `json:"images"`
	PreviewImages []Image `json:"previewImages"`
}

// Key identifies the project for anchors and deep links. Falls back to the
// display ID when the source record had no id.
func (p Project) Key() string {
	if p.ID != "" {
		return p.ID
	}

	return fmt.Sprintf("display-%d", p.DisplayID)
}

func (p Project) DisplayNumber() string {
	return fmt.Sprintf("%02d", p.DisplayID)
}

func (p Project) HasCount() bool {
	return p.Count > 0
}

/*
ProjectSet is the normalized, load-ordered collection. It is never mutated
after construction; a reload replaces it wholesale.
*/
type ProjectSet struct {
	projects []Project
}

func NewProjectSet(projects []Project) *ProjectSet {
	return &ProjectSet{projects: slices.Clone(projects)}
}

func (s *ProjectSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.projects)
}

func (s *ProjectSet) At(index int) (Project, bool) {
	if s == nil || index < 0 || index >= len(s.projects) {
		return Project{}, false
	}

	return cloneProject(s.projects[index]), true
}

func (s *ProjectSet) FindByKey(key string) (Project, bool) {
	if s == nil {
		return Project{}, false
	}

	for _, p := range s.projects {
		if p.Key() == key {
			return cloneProject(p), true
		}
	}

	return Project{}, false
}

func (s *ProjectSet) All() []Project {
	if s == nil {
		return []Project{}
	}

	result := make([]Project, 0, len(s.projects))

	for _, p := range s.projects {
		result = append(result, cloneProject(p))
	}

	return result
}

func cloneProject(p Project) Project {
	p.Images = slices.Clone(p.Images)
	p.PreviewImages = slices.Clone(p.PreviewImages)

	if p.Images == nil {
		p.Images = []Image{}
	}

	if p.PreviewImages == nil {
		p.PreviewImages = []Image{}
	}

	return p
}
