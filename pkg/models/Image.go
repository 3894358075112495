package models

/*
Image is the single internal shape for an image reference. The payload may
carry either a bare path/URL string or an object with a url field; both
collapse into Path during normalization.
*/
type Image struct {
	Path string `json:"path"`
}

func (i Image) IsEmpty() bool {
	return i.Path == ""
}
