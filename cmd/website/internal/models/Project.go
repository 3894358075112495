package models

type ProjectRow struct {
	Key           string
	AnchorID      string
	DisplayNumber string
	Title         string
	Location      string
	Year          string
	CoverURL      string
	PreviewURLs   []string
	DetailLink    string
	GotoLink      string
}

type ProjectDetail struct {
	ProjectRow

	Images           []GalleryImage
	CloseLink        string
	ContactSheetLink string
}

type GalleryImage struct {
	Index     int
	Number    string
	AnchorID  string
	URL       string
	SheetLink string
}

type LocationGroup struct {
	Location string
	Projects []ProjectRow
}
