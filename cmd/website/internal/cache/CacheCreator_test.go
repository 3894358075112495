package cache

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPreviewStore struct {
	mu       sync.Mutex
	previews map[string]models.Preview
}

func newMemoryPreviewStore() *memoryPreviewStore {
	return &memoryPreviewStore{previews: map[string]models.Preview{}}
}

func (s *memoryPreviewStore) Exists(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.previews[key]
	return ok, nil
}

func (s *memoryPreviewStore) Get(key string) (*models.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[key]

	if !ok {
		return &models.Preview{}, services.ErrPreviewNotFound
	}

	return &p, nil
}

func (s *memoryPreviewStore) Save(preview models.Preview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.previews[preview.Key] = preview
	return nil
}

type payloadCatalog struct {
	payload string
	err     error
}

func (c payloadCatalog) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	if c.err != nil {
		return nil, c.err
	}

	return services.ParseCollections([]byte(c.payload))
}

func (c payloadCatalog) Failed() bool                      { return c.err != nil }
func (c payloadCatalog) Loaded() bool                      { return true }
func (c payloadCatalog) Refresh(ctx context.Context) error { return c.err }

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func newImageServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	landscape := jpegBytes(t, 600, 400)
	small := jpegBytes(t, 50, 80)
	var mu sync.Mutex
	hits := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()

		switch r.URL.Path {
		case "/landscape.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(landscape)

		case "/small.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(small)

		default:
			http.NotFound(w, r)
		}
	}))

	t.Cleanup(server.Close)
	return server, &hits
}

func TestCreateCache_StoresResizedPreviews(t *testing.T) {
	server, _ := newImageServer(t)
	store := newMemoryPreviewStore()

	creator := NewCacheCreatorService(CacheCreatorConfig{
		Catalog:         payloadCatalog{payload: `[{"id":"a","previewImages":["/landscape.jpg","/small.jpg","/missing.jpg"]}]`},
		MaxCacheWorkers: 2,
		PreviewMaxSize:  300,
		PreviewService:  store,
		Resolver:        services.NewImageURLResolver(services.ImageURLResolverConfig{BaseOrigin: server.URL}),
		ShutdownCtx:     context.Background(),
	})

	creator.CreateCache()

	landscape, err := store.Get(services.PreviewKey(server.URL + "/landscape.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 300, landscape.Width)
	assert.Equal(t, 200, landscape.Height)
	assert.Equal(t, server.URL+"/landscape.jpg", landscape.SourceURL)

	decoded, err := jpeg.Decode(bytes.NewReader(landscape.Data))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())

	small, err := store.Get(services.PreviewKey(server.URL + "/small.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 50, small.Width)
	assert.Equal(t, 80, small.Height)

	_, err = store.Get(services.PreviewKey(server.URL + "/missing.jpg"))
	assert.ErrorIs(t, err, services.ErrPreviewNotFound)
}

func TestCreateCache_SkipsExistingPreviews(t *testing.T) {
	server, hits := newImageServer(t)
	store := newMemoryPreviewStore()
	key := services.PreviewKey(server.URL + "/landscape.jpg")

	require.NoError(t, store.Save(models.Preview{Key: key, Data: []byte{1}}))

	creator := NewCacheCreatorService(CacheCreatorConfig{
		Catalog:        payloadCatalog{payload: `[{"id":"a","previewImages":["/landscape.jpg"]}]`},
		PreviewService: store,
		Resolver:       services.NewImageURLResolver(services.ImageURLResolverConfig{BaseOrigin: server.URL}),
	})

	creator.CreateCache()

	assert.Equal(t, 0, *hits)

	stored, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, stored.Data)
}

func TestCreateCache_NoCatalogIsANoop(t *testing.T) {
	store := newMemoryPreviewStore()

	creator := NewCacheCreatorService(CacheCreatorConfig{
		Catalog:        payloadCatalog{err: services.ErrCatalogNotLoaded},
		PreviewService: store,
	})

	creator.CreateCache()
	assert.Empty(t, store.previews)
}

func TestFitWithin(t *testing.T) {
	portrait := image.NewRGBA(image.Rect(0, 0, 400, 800))
	got := fitWithin(portrait, 200)

	assert.Equal(t, 100, got.Bounds().Dx())
	assert.Equal(t, 200, got.Bounds().Dy())

	tiny := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Same(t, tiny, fitWithin(tiny, 200))
}
