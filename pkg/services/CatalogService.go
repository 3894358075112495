package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCatalogNotLoaded     = errors.New("catalog has not finished loading")
	ErrCatalogAlreadyLoaded = errors.New("catalog already loaded, nothing to refresh")
)

type CatalogServicer interface {
	CollectionLoader
	Failed() bool
	Loaded() bool
	Refresh(ctx context.Context) error
}

type CatalogServiceConfig struct {
	Source  CollectionLoader
	Timeout time.Duration
}

/*
CatalogService holds the result of the one startup fetch. Page requests load
from it instead of the origin. Refresh is the retry affordance after a failed
load; concurrent refreshes collapse into a single fetch. Once a fetch has
succeeded the entries never change again.
*/
type CatalogService struct {
	source  CollectionLoader
	timeout time.Duration
	group   *singleflight.Group
	state   *catalogState
}

type catalogState struct {
	mu      sync.RWMutex
	loaded  bool
	entries []models.RawCollectionEntry
	err     error
}

func NewCatalogService(config CatalogServiceConfig) CatalogService {
	return CatalogService{
		source:  config.Source,
		timeout: config.Timeout,
		group:   &singleflight.Group{},
		state:   &catalogState{},
	}
}

func (s CatalogService) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	if !s.state.loaded {
		return nil, ErrCatalogNotLoaded
	}

	if s.state.err != nil {
		return nil, s.state.err
	}

	return append([]models.RawCollectionEntry{}, s.state.entries...), nil
}

func (s CatalogService) Loaded() bool {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return s.state.loaded
}

// Failed reports whether the last fetch failed and a refresh may help.
func (s CatalogService) Failed() bool {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return s.state.loaded && s.state.err != nil
}

func (s CatalogService) succeeded() bool {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return s.state.loaded && s.state.err == nil
}

/*
Refresh fetches from the source. It is the startup load and the retry after
a failure; once a fetch has succeeded it returns ErrCatalogAlreadyLoaded
without fetching. The fetch is detached from ctx's cancellation because its
result is shared with every caller.
*/
func (s CatalogService) Refresh(ctx context.Context) error {
	if s.succeeded() {
		return ErrCatalogAlreadyLoaded
	}

	_, err, shared := s.group.Do("collections", func() (any, error) {
		if s.succeeded() {
			return nil, ErrCatalogAlreadyLoaded
		}

		fetchCtx := context.WithoutCancel(ctx)

		if s.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, s.timeout)
			defer cancel()
		}

		entries, err := s.source.LoadCollections(fetchCtx)

		s.state.mu.Lock()
		defer s.state.mu.Unlock()

		s.state.loaded = true

		if err != nil {
			slog.Error("error loading collections", "error", err)
			s.state.err = err
			return nil, err
		}

		s.state.err = nil
		s.state.entries = entries
		return nil, nil
	})

	if shared {
		slog.Debug("catalog refresh shared with an in-flight fetch")
	}

	return err
}
