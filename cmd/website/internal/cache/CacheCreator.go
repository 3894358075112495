package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
	"github.com/nfnt/resize"
)

type CacheCreator interface {
	CreateCache()
}

type CacheCreatorConfig struct {
	Catalog         services.CatalogServicer
	HTTPClient      *http.Client
	MaxCacheWorkers int
	PreviewMaxSize  int
	PreviewService  services.PreviewServicer
	Resolver        services.ImageURLResolver
	ShutdownCtx     context.Context
}

/*
CacheCreatorService downscales every project's list-row preview images and
stores them so the list can load small JPEGs instead of originals.
*/
type CacheCreatorService struct {
	catalog         services.CatalogServicer
	httpClient      *http.Client
	maxCacheWorkers int
	previewMaxSize  uint
	previewService  services.PreviewServicer
	resolver        services.ImageURLResolver
	shutdownCtx     context.Context
}

func NewCacheCreatorService(config CacheCreatorConfig) CacheCreatorService {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: time.Minute}
	}

	if config.MaxCacheWorkers <= 0 {
		config.MaxCacheWorkers = 1
	}

	if config.PreviewMaxSize <= 0 {
		config.PreviewMaxSize = 300
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return CacheCreatorService{
		catalog:         config.Catalog,
		httpClient:      config.HTTPClient,
		maxCacheWorkers: config.MaxCacheWorkers,
		previewMaxSize:  uint(config.PreviewMaxSize),
		previewService:  config.PreviewService,
		resolver:        config.Resolver,
		shutdownCtx:     config.ShutdownCtx,
	}
}

func (c CacheCreatorService) CreateCache() {
	var (
		err     error
		entries []models.RawCollectionEntry
		exists  bool
	)

	slog.Info("starting preview cache creation...")

	if entries, err = c.catalog.LoadCollections(c.shutdownCtx); err != nil {
		slog.Info("collections not available, skipping preview cache", "error", err)
		return
	}

	sources := services.PreviewSources(services.NormalizeCollections(entries).All(), c.resolver)
	slog.Info("checking previews...", "numPreviews", len(sources))

	pool := pond.NewPool(c.maxCacheWorkers, pond.WithContext(c.shutdownCtx))

	for key, sourceURL := range sources {
		if exists, err = c.previewService.Exists(key); err != nil {
			slog.Error("error checking for cached preview", "key", key, "error", err)
			continue
		}

		if exists {
			continue
		}

		pool.Submit(func() {
			slog.Info("creating preview...", "key", key, "sourceURL", sourceURL)

			if err := c.createPreview(key, sourceURL); err != nil {
				slog.Error("error creating preview", "key", key, "sourceURL", sourceURL, "error", err)
			}
		})
	}

	_ = pool.Stop().Wait()
}

func (c CacheCreatorService) createPreview(key, sourceURL string) error {
	var (
		err error
		img image.Image
		buf bytes.Buffer
	)

	if img, err = c.resizeUrl(sourceURL, c.previewMaxSize); err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding image for preview: %w", err)
	}

	bounds := img.Bounds()

	err = c.previewService.Save(models.Preview{
		Key:       key,
		SourceURL: sourceURL,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Data:      buf.Bytes(),
		UpdatedAt: time.Now().Unix(),
	})

	if err != nil {
		return fmt.Errorf("error storing preview: %w", err)
	}

	return nil
}

func (c CacheCreatorService) resizeUrl(url string, maxSize uint) (image.Image, error) {
	var (
		err      error
		request  *http.Request
		response *http.Response
	)

	if request, err = http.NewRequestWithContext(c.shutdownCtx, http.MethodGet, url, nil); err != nil {
		return nil, fmt.Errorf("error building request for '%s': %w", url, err)
	}

	if response, err = c.httpClient.Do(request); err != nil {
		return nil, fmt.Errorf("error downloading image from '%s': %w", url, err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading image from '%s', status: %s", url, response.Status)
	}

	return c.resizeReader(response.Body, maxSize)
}

func (c CacheCreatorService) resizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return fitWithin(img, maxSize), nil
}

/*
fitWithin scales img so its longest edge is maxSize. Images already smaller
are left alone.
*/
func fitWithin(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight uint

	if width > height {
		// Landscape
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		// Portrait or square
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
