package models

type Stats struct {
	TotalProjects   int `json:"totalProjects"`
	TotalPhotos     int `json:"totalPhotos"`
	UniqueLocations int `json:"uniqueLocations"`
}
