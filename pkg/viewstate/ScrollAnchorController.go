package viewstate

import (
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultHeaderClearance  float64 = 100
	DefaultSettleDelay              = 400 * time.Millisecond
	DefaultEmphasisDuration         = 1200 * time.Millisecond
)

/*
anchorHost is the part of the view state machine the controller may consult
or ask to change. The controller never mutates view state directly.
*/
type anchorHost interface {
	detailImages() (projectKey string, count int, open bool)
	dismissContactSheet()
	dismissNavMenu()
}

type ScrollAnchorControllerConfig struct {
	EmphasisDuration time.Duration
	HeaderClearance  float64
	Scheduler        Scheduler
	SettleDelay      time.Duration
	Viewport         Viewport
}

/*
ScrollAnchorController maps project and image identities to rendered anchors,
scrolls to them, and briefly emphasizes a chosen image. A missing anchor is
never an error, only a skipped scroll.
*/
type ScrollAnchorController struct {
	emphasisDuration time.Duration
	headerClearance  float64
	host             anchorHost
	scheduler        Scheduler
	settleDelay      time.Duration
	viewport         Viewport

	mu      sync.Mutex
	anchors map[AnchorKey]Anchor
	closed  bool
	seq     int
	settle  Timer
	reverts map[AnchorKey]Timer
}

func newScrollAnchorController(host anchorHost, config ScrollAnchorControllerConfig) *ScrollAnchorController {
	if config.Viewport == nil {
		config.Viewport = noopViewport{}
	}

	if config.Scheduler == nil {
		config.Scheduler = TimerScheduler{}
	}

	if config.SettleDelay <= 0 {
		config.SettleDelay = DefaultSettleDelay
	}

	if config.EmphasisDuration <= 0 {
		config.EmphasisDuration = DefaultEmphasisDuration
	}

	return &ScrollAnchorController{
		emphasisDuration: config.EmphasisDuration,
		headerClearance:  config.HeaderClearance,
		host:             host,
		scheduler:        config.Scheduler,
		settleDelay:      config.SettleDelay,
		viewport:         config.Viewport,
		anchors:          map[AnchorKey]Anchor{},
		reverts:          map[AnchorKey]Timer{},
	}
}

func (c *ScrollAnchorController) Register(key AnchorKey, anchor Anchor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.anchors[key] = anchor
}

func (c *ScrollAnchorController) Unregister(key AnchorKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.anchors, key)
}

func (c *ScrollAnchorController) Registered(key AnchorKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.anchors[key]
	return ok
}

func (c *ScrollAnchorController) lookup(key AnchorKey) (Anchor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false
	}

	anchor, ok := c.anchors[key]
	return anchor, ok
}

/*
ScrollToProject scrolls so the project's row sits just below the fixed
header, then closes the nav menu. Reports whether a scroll happened.
*/
func (c *ScrollAnchorController) ScrollToProject(projectKey string) bool {
	key := ProjectAnchor(projectKey)
	anchor, ok := c.lookup(key)

	if !ok {
		slog.Debug("project anchor not registered, skipping scroll", "anchor", key)
		return false
	}

	c.viewport.ScrollTo(ScrollTarget{
		Key: key,
		Top: anchor.Top() - c.headerClearance,
	})

	c.host.dismissNavMenu()
	return true
}

/*
ScrollToImage closes the contact sheet, waits for it to get out of the way,
then scrolls the detail view to the image and emphasizes it. Reports whether
the reveal was scheduled. A newer request supersedes a pending one.
*/
func (c *ScrollAnchorController) ScrollToImage(index int) bool {
	projectKey, count, open := c.host.detailImages()

	if !open || index < 0 || index >= count {
		slog.Debug("image index not reachable, skipping scroll", "index", index, "detailOpen", open, "imageCount", count)
		return false
	}

	c.host.dismissContactSheet()

	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return false
	}

	c.seq++
	seq := c.seq
	previous := c.settle
	c.settle = nil
	c.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}

	timer := c.scheduler.AfterFunc(c.settleDelay, func() {
		c.revealImage(projectKey, index, seq)
	})

	c.mu.Lock()

	if c.seq == seq && !c.closed {
		c.settle = timer
	}

	c.mu.Unlock()
	return true
}

func (c *ScrollAnchorController) revealImage(projectKey string, index, seq int) {
	c.mu.Lock()

	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}

	key := ImageAnchor(index)
	_, registered := c.anchors[key]
	c.mu.Unlock()

	// The detail overlay may have closed or moved to another project while
	// the contact sheet was settling.
	if selected, count, open := c.host.detailImages(); !open || selected != projectKey || index >= count {
		slog.Debug("detail changed before image reveal", "index", index, "project", projectKey)
		return
	}

	if !registered {
		slog.Debug("image anchor not registered, skipping scroll", "anchor", key)
		return
	}

	c.viewport.ScrollIntoView(key)
	c.viewport.SetEmphasis(key, true)

	c.mu.Lock()
	previous := c.reverts[key]
	delete(c.reverts, key)
	c.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}

	timer := c.scheduler.AfterFunc(c.emphasisDuration, func() {
		c.mu.Lock()
		delete(c.reverts, key)
		c.mu.Unlock()

		c.viewport.SetEmphasis(key, false)
	})

	c.mu.Lock()

	if !c.closed {
		c.reverts[key] = timer
	}

	c.mu.Unlock()
}

// Close stops pending reveals and drops any emphasis still showing.
func (c *ScrollAnchorController) Close() {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	settle := c.settle
	reverts := c.reverts
	c.settle = nil
	c.reverts = map[AnchorKey]Timer{}
	c.mu.Unlock()

	if settle != nil {
		settle.Stop()
	}

	for key, timer := range reverts {
		if timer.Stop() {
			c.viewport.SetEmphasis(key, false)
		}
	}
}
