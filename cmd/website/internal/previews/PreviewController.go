package previews

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
)

type PreviewHandlers interface {
	PreviewImage(w http.ResponseWriter, r *http.Request)
}

type PreviewControllerConfig struct {
	Catalog        services.CatalogServicer
	PreviewService services.PreviewServicer
	Resolver       services.ImageURLResolver
}

type PreviewController struct {
	catalog        services.CatalogServicer
	previewService services.PreviewServicer
	resolver       services.ImageURLResolver
}

func NewPreviewController(config PreviewControllerConfig) PreviewController {
	return PreviewController{
		catalog:        config.Catalog,
		previewService: config.PreviewService,
		resolver:       config.Resolver,
	}
}

/*
GET /previews/{key}
*/
func (c PreviewController) PreviewImage(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		preview *models.Preview
		entries []models.RawCollectionEntry
	)

	key := httphelpers.GetFromRequest[string](r, "key")

	if key == "" {
		http.NotFound(w, r)
		return
	}

	preview, err = c.previewService.Get(key)

	if err == nil && len(preview.Data) > 0 {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(preview.Data)))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(preview.Data)
		return
	}

	if err != nil && !errors.Is(err, services.ErrPreviewNotFound) {
		slog.Error("error reading preview", "key", key, "error", err)
	}

	/*
	 * Not cached yet. Send the browser to the original.
	 */
	if entries, err = c.catalog.LoadCollections(r.Context()); err != nil {
		slog.Debug("no catalog to resolve preview against", "key", key, "error", err)
		http.NotFound(w, r)
		return
	}

	projects := services.NormalizeCollections(entries).All()

	if sourceURL, ok := services.PreviewSources(projects, c.resolver)[key]; ok {
		http.Redirect(w, r, sourceURL, http.StatusFound)
		return
	}

	http.NotFound(w, r)
}
