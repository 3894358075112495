package viewmodels

import (
	internalmodels "github.com/minzhangphoto/portfolio/cmd/website/internal/models"
	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/viewstate"
)

type PortfolioPage struct {
	BaseViewModel

	Status     string
	IsLoading  bool
	IsEmpty    bool
	IsFailed   bool
	IsBrowsing bool

	Features       viewstate.Features
	ParallaxFactor string
	Stats          models.Stats
	Hero           *internalmodels.ProjectRow
	Projects       []internalmodels.ProjectRow
	LocationGroups []internalmodels.LocationGroup

	FilterType       string
	ShowNavMenu      bool
	Selected         *internalmodels.ProjectDetail
	ShowContactSheet bool
	ScrollLocked     bool

	// ScrollCommands is the JSON command list replayed by anchors.js.
	ScrollCommands string
}
