package models

// Preview is a downscaled JPEG of a list-row preview image.
type Preview struct {
	Key       string `db:"key"`
	SourceURL string `db:"source_url"`
	Width     int    `db:"width"`
	Height    int    `db:"height"`
	Data      []byte `db:"data"`
	UpdatedAt int64  `db:"updated_at"`
}
