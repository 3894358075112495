package models

type LocationGroup struct {
	Location string
	Projects []Project
}
