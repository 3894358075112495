package viewstate

type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusBrowsing
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusBrowsing:
		return "browsing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type FilterType string

const (
	FilterAll      FilterType = "all"
	FilterLocation FilterType = "location"
)

func ParseFilterType(value string) (FilterType, bool) {
	switch FilterType(value) {
	case FilterAll:
		return FilterAll, true
	case FilterLocation:
		return FilterLocation, true
	default:
		return FilterAll, false
	}
}
