package services

import (
	"strings"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/tidwall/gjson"
)

/*
NormalizeCollections converts raw records into the canonical project set.
Output order and length match the input. Display IDs are assigned here,
once, as a 1-based run over load order. Missing or oddly typed fields end
up as zero values; a single bad record never fails the batch.
*/
func NormalizeCollections(entries []models.RawCollectionEntry) *models.ProjectSet {
	projects := make([]models.Project, 0, len(entries))

	for index, entry := range entries {
		projects = append(projects, normalizeEntry(entry, index+1))
	}

	return models.NewProjectSet(projects)
}

func normalizeEntry(entry models.RawCollectionEntry, displayID int) models.Project {
	images := normalizeImages(entry.Field("images"))
	previewImages := normalizeImages(entry.Field("previewImages"))

	if len(images) == 0 {
		images = append([]models.Image{}, previewImages...)
	}

	return models.Project{
		ID:            scalarString(entry.Field("id")),
		DisplayID:     displayID,
		Title:         scalarString(entry.Field("title")),
		Location:      scalarString(entry.Field("location")),
		Year:          scalarString(entry.Field("year")),
		Cover:         normalizeImage(entry.Field("cover")),
		Count:         declaredCount(entry.Field("count")),
		Images:        images,
		PreviewImages: previewImages,
	}
}

func normalizeImages(value gjson.Result) []models.Image {
	result := []models.Image{}

	if !value.IsArray() {
		return result
	}

	for _, item := range value.Array() {
		result = append(result, normalizeImage(item))
	}

	return result
}

/*
normalizeImage accepts a bare string or an object with a url field. Anything
else still occupies its slot, with an empty path, so image indexes keep
lining up with the source.
*/
func normalizeImage(value gjson.Result) models.Image {
	switch {
	case value.Type == gjson.String:
		return models.Image{Path: strings.TrimSpace(value.Str)}

	case value.IsObject():
		url := value.Get("url")

		if url.Type == gjson.String {
			return models.Image{Path: strings.TrimSpace(url.Str)}
		}
	}

	return models.Image{}
}

func scalarString(value gjson.Result) string {
	switch value.Type {
	case gjson.String, gjson.Number:
		return value.String()

	default:
		return ""
	}
}

func declaredCount(value gjson.Result) int {
	var (
		count int64
	)

	switch value.Type {
	case gjson.Number:
		count = value.Int()

	case gjson.String:
		if !gjson.Valid(value.Str) {
			return 0
		}

		parsed := gjson.Parse(value.Str)

		if parsed.Type != gjson.Number {
			return 0
		}

		count = parsed.Int()
	}

	if count < 0 {
		return 0
	}

	return int(count)
}
