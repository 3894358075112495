package home

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/configuration"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/deeplink"
	internalmodels "github.com/minzhangphoto/portfolio/cmd/website/internal/models"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/viewmodels"
	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
	"github.com/minzhangphoto/portfolio/pkg/viewstate"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	RetryAction(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Catalog  services.CatalogServicer
	Config   *configuration.Config
	NewRand  func() *rand.Rand
	Renderer rendering.TemplateRenderer
	Resolver services.ImageURLResolver
}

type HomeController struct {
	catalog  services.CatalogServicer
	config   *configuration.Config
	newRand  func() *rand.Rand
	renderer rendering.TemplateRenderer
	resolver services.ImageURLResolver
}

func NewHomeController(config HomeControllerConfig) HomeController {
	newRand := config.NewRand

	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
		}
	}

	return HomeController{
		catalog:  config.Catalog,
		config:   config.Config,
		newRand:  newRand,
		renderer: config.Renderer,
		resolver: config.Resolver,
	}
}

/*
DeepLink is the view state a URL asks for. Image is -1 when absent.
*/
type DeepLink struct {
	Project string
	Sheet   bool
	Image   int
	Goto    string
	Filter  string
	Nav     bool
}

func DeepLinkFromRequest(r *http.Request) DeepLink {
	result := DeepLink{
		Project: httphelpers.GetFromRequest[string](r, "project"),
		Sheet:   httphelpers.GetFromRequest[string](r, "sheet") == "1",
		Image:   -1,
		Goto:    httphelpers.GetFromRequest[string](r, "goto"),
		Filter:  httphelpers.GetFromRequest[string](r, "filter"),
		Nav:     httphelpers.GetFromRequest[string](r, "nav") == "1",
	}

	if image, err := strconv.Atoi(httphelpers.GetFromRequest[string](r, "image")); err == nil && image >= 0 {
		result.Image = image
	}

	return result
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"

	viewData := c.BuildPage(r.Context(), DeepLinkFromRequest(r))
	viewData.IsHtmx = httphelpers.IsHtmx(r)

	c.renderer.Render(pageName, viewData, w)
}

/*
POST /retry
*/
func (c HomeController) RetryAction(w http.ResponseWriter, r *http.Request) {
	if !c.catalog.Failed() {
		slog.Debug("ignoring retry, collections are not in a failed state")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := c.catalog.Refresh(r.Context()); err != nil {
		slog.Error("retrying collections load failed", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*
BuildPage runs a fresh view state machine against the catalog, replays the
deep link into it, and flattens the result for the template.
*/
func (c HomeController) BuildPage(ctx context.Context, link DeepLink) viewmodels.PortfolioPage {
	recorder := deeplink.NewRecorder()

	machine := viewstate.NewMachine(viewstate.MachineConfig{
		EmphasisDuration: c.config.EmphasisDuration(),
		Features:         c.config.Features(),
		HeaderClearance:  float64(c.config.HeaderClearance),
		ParallaxFactor:   c.config.ParallaxFactor(),
		Rand:             c.newRand(),
		Scheduler:        recorder,
		ScrollLock:       recorder,
		SettleDelay:      c.config.SettleDelay(),
		Viewport:         recorder,
	})

	defer machine.Close()

	if c.catalog.Loaded() {
		_ = machine.Load(ctx, c.catalog)
	}

	if machine.Status() == viewstate.StatusBrowsing {
		c.applyDeepLink(machine, link)
	}

	return c.toViewModel(machine.Snapshot(), recorder)
}

func (c HomeController) applyDeepLink(machine *viewstate.Machine, link DeepLink) {
	for _, p := range machine.Snapshot().Projects {
		machine.Anchors().Register(viewstate.ProjectAnchor(p.Key()), deeplink.RelativeAnchor)
	}

	if filterType, ok := viewstate.ParseFilterType(link.Filter); ok {
		machine.SetFilterType(filterType)
	}

	if link.Nav {
		machine.SetNavMenu(true)
	}

	if link.Project != "" {
		machine.OpenDetailByID(link.Project)

		if selected := machine.Snapshot().SelectedProject; selected != nil {
			for index := range selected.Images {
				machine.Anchors().Register(viewstate.ImageAnchor(index), deeplink.RelativeAnchor)
			}
		}
	}

	if link.Sheet {
		machine.OpenContactSheet()
	}

	if link.Image >= 0 {
		if link.Sheet {
			machine.SelectImageInContactSheet(link.Image)
		} else {
			machine.ScrollToImage(link.Image)
		}
	}

	if link.Goto != "" {
		machine.ScrollToProject(link.Goto)
	}
}

func (c HomeController) toViewModel(snapshot viewstate.Snapshot, recorder *deeplink.Recorder) viewmodels.PortfolioPage {
	filter := string(snapshot.FilterType)

	result := viewmodels.PortfolioPage{
		Status:           snapshot.Status.String(),
		IsLoading:        snapshot.Status == viewstate.StatusLoading,
		IsEmpty:          snapshot.Status == viewstate.StatusEmpty,
		IsFailed:         snapshot.Status == viewstate.StatusFailed,
		IsBrowsing:       snapshot.Status == viewstate.StatusBrowsing,
		Features:         snapshot.Features,
		ParallaxFactor:   strconv.FormatFloat(snapshot.ParallaxFactor, 'f', -1, 64),
		Stats:            snapshot.Stats,
		Projects:         []internalmodels.ProjectRow{},
		LocationGroups:   []internalmodels.LocationGroup{},
		FilterType:       filter,
		ShowNavMenu:      snapshot.ShowNavMenu,
		ShowContactSheet: snapshot.ShowContactSheet,
		ScrollLocked:     recorder.Locked(),
		ScrollCommands:   recorder.JSON(),
	}

	switch {
	case result.IsFailed:
		result.IsError = true
		result.Message = "The portfolio could not be loaded right now."

	case result.IsEmpty:
		result.Message = "No projects found."
	}

	for _, p := range snapshot.Projects {
		result.Projects = append(result.Projects, c.toProjectRow(p, filter))
	}

	for _, group := range snapshot.Locations {
		converted := internalmodels.LocationGroup{
			Location: group.Location,
			Projects: []internalmodels.ProjectRow{},
		}

		for _, p := range group.Projects {
			converted.Projects = append(converted.Projects, c.toProjectRow(p, filter))
		}

		result.LocationGroups = append(result.LocationGroups, converted)
	}

	if snapshot.Hero != nil {
		hero := c.toProjectRow(*snapshot.Hero, filter)
		result.Hero = &hero
	}

	if snapshot.SelectedProject != nil {
		result.Selected = c.toProjectDetail(*snapshot.SelectedProject, filter)
	}

	return result
}

func (c HomeController) toProjectRow(p models.Project, filter string) internalmodels.ProjectRow {
	result := internalmodels.ProjectRow{
		Key:           p.Key(),
		AnchorID:      string(viewstate.ProjectAnchor(p.Key())),
		DisplayNumber: p.DisplayNumber(),
		Title:         p.Title,
		Location:      p.Location,
		Year:          p.Year,
		CoverURL:      c.resolver.ResolveImage(p.Cover),
		PreviewURLs:   []string{},
		DetailLink:    pageLink(filter, "project", p.Key()),
		GotoLink:      pageLink(filter, "goto", p.Key()),
	}

	for _, preview := range p.PreviewImages {
		if u := c.resolver.ResolveImage(preview); u != "" {
			result.PreviewURLs = append(result.PreviewURLs, "/previews/"+services.PreviewKey(u))
		}
	}

	return result
}

func (c HomeController) toProjectDetail(p models.Project, filter string) *internalmodels.ProjectDetail {
	result := &internalmodels.ProjectDetail{
		ProjectRow:       c.toProjectRow(p, filter),
		Images:           []internalmodels.GalleryImage{},
		CloseLink:        pageLink(filter),
		ContactSheetLink: pageLink(filter, "project", p.Key(), "sheet", "1"),
	}

	for index, image := range p.Images {
		result.Images = append(result.Images, internalmodels.GalleryImage{
			Index:     index,
			Number:    fmt.Sprintf("%02d", index+1),
			AnchorID:  string(viewstate.ImageAnchor(index)),
			URL:       c.resolver.ResolveImage(image),
			SheetLink: pageLink(filter, "project", p.Key(), "sheet", "1", "image", strconv.Itoa(index)),
		})
	}

	return result
}

func pageLink(filter string, pairs ...string) string {
	values := url.Values{}

	if filter != "" && filter != string(viewstate.FilterAll) {
		values.Set("filter", filter)
	}

	for i := 0; i+1 < len(pairs); i += 2 {
		values.Set(pairs[i], pairs[i+1])
	}

	if len(values) == 0 {
		return "/"
	}

	return "/?" + values.Encode()
}
