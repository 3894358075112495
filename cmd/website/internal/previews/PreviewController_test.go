package previews

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
	"github.com/stretchr/testify/assert"
)

type fakePreviewStore struct {
	previews map[string]models.Preview
	err      error
}

func (s *fakePreviewStore) Exists(key string) (bool, error) {
	_, ok := s.previews[key]
	return ok, s.err
}

func (s *fakePreviewStore) Get(key string) (*models.Preview, error) {
	if s.err != nil {
		return &models.Preview{}, s.err
	}

	p, ok := s.previews[key]

	if !ok {
		return &models.Preview{}, services.ErrPreviewNotFound
	}

	return &p, nil
}

func (s *fakePreviewStore) Save(preview models.Preview) error {
	s.previews[preview.Key] = preview
	return nil
}

type stubCatalog struct {
	payload string
	err     error
}

func (s stubCatalog) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	if s.err != nil {
		return nil, s.err
	}

	return services.ParseCollections([]byte(s.payload))
}

func (s stubCatalog) Failed() bool {
	return s.err != nil
}

func (s stubCatalog) Loaded() bool {
	return s.err == nil
}

func (s stubCatalog) Refresh(ctx context.Context) error {
	return s.err
}

func serve(c PreviewController, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /previews/{key}", c.PreviewImage)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func newController(store services.PreviewServicer, catalog services.CatalogServicer) PreviewController {
	return NewPreviewController(PreviewControllerConfig{
		Catalog:        catalog,
		PreviewService: store,
		Resolver:       services.NewImageURLResolver(services.ImageURLResolverConfig{BaseOrigin: "https://api.example.com"}),
	})
}

func TestPreviewImage_ServesStoredPreview(t *testing.T) {
	store := &fakePreviewStore{previews: map[string]models.Preview{
		"abc": {Key: "abc", Data: []byte{0xff, 0xd8, 0xff}},
	}}

	w := serve(newController(store, stubCatalog{payload: `[]`}), "/previews/abc")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, w.Body.Bytes())
}

func TestPreviewImage_RedirectsToOriginalWhenNotCached(t *testing.T) {
	store := &fakePreviewStore{previews: map[string]models.Preview{}}
	catalog := stubCatalog{payload: `[{"id":"a","previewImages":["/a.jpg"]}]`}
	key := services.PreviewKey("https://api.example.com/a.jpg")

	w := serve(newController(store, catalog), "/previews/"+key)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://api.example.com/a.jpg", w.Header().Get("Location"))
}

func TestPreviewImage_StoreErrorFallsBackToOriginal(t *testing.T) {
	store := &fakePreviewStore{err: errors.New("database is locked")}
	catalog := stubCatalog{payload: `[{"id":"a","previewImages":["/a.jpg"]}]`}
	key := services.PreviewKey("https://api.example.com/a.jpg")

	w := serve(newController(store, catalog), "/previews/"+key)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPreviewImage_UnknownKey(t *testing.T) {
	store := &fakePreviewStore{previews: map[string]models.Preview{}}

	w := serve(newController(store, stubCatalog{payload: `[{"id":"a","previewImages":["/a.jpg"]}]`}), "/previews/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(newController(store, stubCatalog{err: services.ErrCatalogNotLoaded}), "/previews/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
