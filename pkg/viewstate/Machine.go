package viewstate

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
)

const DefaultParallaxFactor = 0.5

var (
	ErrNotLoading = errors.New("view is not waiting for a load")
	ErrNotFailed  = errors.New("view has not failed, nothing to retry")
	ErrStaleLoad  = errors.New("load result discarded, view was torn down")
)

type MachineConfig struct {
	EmphasisDuration time.Duration
	Features         Features
	HeaderClearance  float64
	ParallaxFactor   float64
	Rand             *rand.Rand
	Scheduler        Scheduler
	ScrollLock       ScrollLock
	SettleDelay      time.Duration
	Stats            *services.StatsAggregator
	Viewport         Viewport
}

/*
Machine is the portfolio view's controller. It owns load status, the loaded
project set, and every piece of overlay state. Renderers read Snapshot and
request transitions; nothing else writes these fields.

Overlay transitions are ignored unless the view is browsing. The nav menu and
the detail overlay are mutually exclusive: opening one closes the other.
*/
type Machine struct {
	features       Features
	parallaxFactor float64
	rand           *rand.Rand
	stats          *services.StatsAggregator
	viewport       Viewport

	anchors *ScrollAnchorController

	mu               sync.Mutex
	status           Status
	loadErr          error
	loading          bool
	generation       int
	cancelLoad       context.CancelFunc
	closed           bool
	detachScroll     func()
	projects         *models.ProjectSet
	projectStats     models.Stats
	locations        services.LocationIndex
	hero             *models.Project
	heroOffset       float64
	selectedProject  *models.Project
	showNavMenu      bool
	filterType       FilterType
	showContactSheet bool
	lock             scrollLockGuard
}

func NewMachine(config MachineConfig) *Machine {
	if config.Viewport == nil {
		config.Viewport = noopViewport{}
	}

	if config.ScrollLock == nil {
		config.ScrollLock = noopScrollLock{}
	}

	if config.Rand == nil {
		config.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	if config.Stats == nil {
		config.Stats = services.NewStatsAggregator()
	}

	if config.ParallaxFactor == 0 {
		config.ParallaxFactor = DefaultParallaxFactor
	}

	m := &Machine{
		features:       config.Features,
		parallaxFactor: config.ParallaxFactor,
		rand:           config.Rand,
		stats:          config.Stats,
		viewport:       config.Viewport,
		status:         StatusLoading,
		filterType:     FilterAll,
		projects:       models.NewProjectSet(nil),
		locations:      services.BuildLocationIndex(nil),
		lock:           scrollLockGuard{lock: config.ScrollLock},
	}

	m.anchors = newScrollAnchorController(m, ScrollAnchorControllerConfig{
		EmphasisDuration: config.EmphasisDuration,
		HeaderClearance:  config.HeaderClearance,
		Scheduler:        config.Scheduler,
		SettleDelay:      config.SettleDelay,
		Viewport:         config.Viewport,
	})

	return m
}

func (m *Machine) Anchors() *ScrollAnchorController {
	return m.anchors
}

/*
Load runs the one fetch for this view. Only valid while loading. If Close is
called while the fetch is in flight, the fetch is cancelled and its result
is dropped.
*/
func (m *Machine) Load(ctx context.Context, loader services.CollectionLoader) error {
	m.mu.Lock()

	if m.closed || m.status != StatusLoading || m.loading {
		m.mu.Unlock()
		return ErrNotLoading
	}

	loadCtx, cancel := context.WithCancel(ctx)
	m.loading = true
	m.generation++
	generation := m.generation
	m.cancelLoad = cancel
	m.mu.Unlock()

	entries, err := loader.LoadCollections(loadCtx)
	cancel()

	m.mu.Lock()

	if m.closed || generation != m.generation {
		m.mu.Unlock()
		slog.Debug("discarding stale collections load")
		return ErrStaleLoad
	}

	m.loading = false
	m.cancelLoad = nil

	if err != nil {
		slog.Debug("collections load failed", "error", err)
		m.status = StatusFailed
		m.loadErr = err
		m.mu.Unlock()
		return err
	}

	m.projects = services.NormalizeCollections(entries)
	m.projectStats = m.stats.Stats(m.projects)
	m.locations = services.BuildLocationIndex(m.projects.All())
	m.hero = nil

	if hero, ok := PickHero(m.projects, m.rand); ok {
		m.hero = &hero
	}

	m.status = StatusEmpty

	if m.projects.Len() > 0 {
		m.status = StatusBrowsing
	}

	observe := m.status == StatusBrowsing && m.features.ParallaxHero
	m.mu.Unlock()

	slog.Debug("collections loaded", "projects", m.projects.Len(), "status", m.status.String())

	if observe {
		m.observeScroll()
	}

	return nil
}

// Retry goes back to loading after a failure and tries again.
func (m *Machine) Retry(ctx context.Context, loader services.CollectionLoader) error {
	m.mu.Lock()

	if m.closed || m.status != StatusFailed {
		m.mu.Unlock()
		return ErrNotFailed
	}

	m.status = StatusLoading
	m.loadErr = nil
	m.mu.Unlock()

	return m.Load(ctx, loader)
}

func (m *Machine) observeScroll() {
	detach := m.viewport.OnScroll(func(y float64) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if !m.closed {
			m.heroOffset = y * m.parallaxFactor
		}
	})

	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		detach()
		return
	}

	m.detachScroll = detach
	m.mu.Unlock()
}

/*
Close tears the view down: cancels an in-flight load, detaches scroll
observation, stops pending anchor work, and releases the scroll lock.
*/
func (m *Machine) Close() {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return
	}

	m.closed = true

	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}

	detach := m.detachScroll
	m.detachScroll = nil
	m.selectedProject = nil
	m.showContactSheet = false
	m.showNavMenu = false
	m.lock.reconcile(false)
	m.mu.Unlock()

	if detach != nil {
		detach()
	}

	m.anchors.Close()
}

/*
transition applies fn under the lock when the view is browsing, then brings
the scroll lock and contact sheet back in line with the selection.
*/
func (m *Machine) transition(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.status != StatusBrowsing {
		return
	}

	fn()
	m.reconcileLocked()
}

func (m *Machine) reconcileLocked() {
	if m.selectedProject == nil {
		m.showContactSheet = false
	}

	if m.selectedProject != nil {
		m.showNavMenu = false
	}

	m.lock.reconcile(m.selectedProject != nil)
}

func (m *Machine) OpenDetail(p models.Project) {
	m.OpenDetailByID(p.Key())
}

// OpenDetailByID selects the project with the given key. Unknown keys are ignored.
func (m *Machine) OpenDetailByID(projectKey string) {
	m.transition(func() {
		project, ok := m.projects.FindByKey(projectKey)

		if !ok {
			slog.Debug("ignoring detail request for unknown project", "project", projectKey)
			return
		}

		if m.selectedProject != nil && m.selectedProject.Key() != project.Key() {
			m.showContactSheet = false
		}

		m.selectedProject = &project
		m.showNavMenu = false
	})
}

func (m *Machine) CloseDetail() {
	m.transition(func() {
		m.selectedProject = nil
		m.showContactSheet = false
	})
}

func (m *Machine) ToggleNavMenu() {
	m.transition(func() {
		m.setNavMenuLocked(!m.showNavMenu)
	})
}

func (m *Machine) SetNavMenu(open bool) {
	m.transition(func() {
		m.setNavMenuLocked(open)
	})
}

func (m *Machine) setNavMenuLocked(open bool) {
	if open {
		m.selectedProject = nil
		m.showContactSheet = false
	}

	m.showNavMenu = open
}

func (m *Machine) SetFilterType(filterType FilterType) {
	m.transition(func() {
		switch filterType {
		case FilterAll:
			m.filterType = FilterAll

		case FilterLocation:
			if m.features.LocationGrouping {
				m.filterType = FilterLocation
			}
		}
	})
}

// OpenContactSheet layers the contact sheet over the open detail overlay.
func (m *Machine) OpenContactSheet() {
	m.transition(func() {
		if m.selectedProject != nil && m.features.ContactSheet {
			m.showContactSheet = true
		}
	})
}

func (m *Machine) CloseContactSheet() {
	m.transition(func() {
		m.showContactSheet = false
	})
}

func (m *Machine) SelectImageInContactSheet(index int) {
	m.mu.Lock()

	if m.closed || m.status != StatusBrowsing || m.selectedProject == nil {
		m.mu.Unlock()
		return
	}

	m.showContactSheet = false
	m.mu.Unlock()

	m.anchors.ScrollToImage(index)
}

func (m *Machine) ScrollToImage(index int) {
	m.anchors.ScrollToImage(index)
}

func (m *Machine) ScrollToProject(projectKey string) {
	if m.Status() != StatusBrowsing {
		return
	}

	m.anchors.ScrollToProject(projectKey)
}

func (m *Machine) detailImages() (string, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.status != StatusBrowsing || m.selectedProject == nil {
		return "", 0, false
	}

	return m.selectedProject.Key(), len(m.selectedProject.Images), true
}

func (m *Machine) dismissContactSheet() {
	m.CloseContactSheet()
}

func (m *Machine) dismissNavMenu() {
	m.SetNavMenu(false)
}

func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.status
}

func (m *Machine) ScrollLockHeld() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lock.held
}

type Snapshot struct {
	Status           Status
	LoadError        error
	Features         Features
	Projects         []models.Project
	Stats            models.Stats
	Locations        []models.LocationGroup
	Hero             *models.Project
	HeroOffset       float64
	ParallaxFactor   float64
	SelectedProject  *models.Project
	ShowNavMenu      bool
	FilterType       FilterType
	ShowContactSheet bool
}

// Snapshot returns a copy of the current view state for rendering.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := Snapshot{
		Status:           m.status,
		LoadError:        m.loadErr,
		Features:         m.features,
		Projects:         m.projects.All(),
		Stats:            m.projectStats,
		Locations:        m.locations.Groups(),
		HeroOffset:       m.heroOffset,
		ParallaxFactor:   m.parallaxFactor,
		ShowNavMenu:      m.showNavMenu,
		FilterType:       m.filterType,
		ShowContactSheet: m.showContactSheet,
	}

	if m.hero != nil {
		hero := *m.hero
		result.Hero = &hero
	}

	if m.selectedProject != nil {
		selected, _ := m.projects.FindByKey(m.selectedProject.Key())
		result.SelectedProject = &selected
	}

	return result
}
