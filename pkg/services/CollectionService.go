package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/tidwall/gjson"
)

const DefaultCollectionsPath = "/api/collections"

type CollectionLoader interface {
	LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error)
}

type HTTPCollectionServiceConfig struct {
	BaseOrigin      string
	CollectionsPath string
	HTTPClient      *http.Client
	Timeout         time.Duration
}

/*
HTTPCollectionService performs the single GET against the data origin. There
is no pagination, authentication, or query string.
*/
type HTTPCollectionService struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
}

func NewHTTPCollectionService(config HTTPCollectionServiceConfig) HTTPCollectionService {
	client := config.HTTPClient

	if client == nil {
		client = &http.Client{}
	}

	return HTTPCollectionService{
		url:        collectionsURL(config.BaseOrigin, config.CollectionsPath),
		httpClient: client,
		timeout:    config.Timeout,
	}
}

func (s HTTPCollectionService) URL() string {
	return s.url
}

func (s HTTPCollectionService) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	var (
		err      error
		request  *http.Request
		response *http.Response
		body     []byte
	)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	l := slog.With("url", s.url)
	l.Debug("fetching collections")

	if request, err = http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil); err != nil {
		return nil, models.NewNetworkFailure(s.url, err)
	}

	request.Header.Set("Accept", "application/json")

	if response, err = s.httpClient.Do(request); err != nil {
		return nil, models.NewNetworkFailure(s.url, err)
	}

	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, models.NewNetworkFailure(s.url, fmt.Errorf("unexpected status %s", response.Status))
	}

	if body, err = io.ReadAll(response.Body); err != nil {
		return nil, models.NewNetworkFailure(s.url, err)
	}

	entries, err := ParseCollections(body)

	if err != nil {
		return nil, models.NewParseFailure(s.url, err)
	}

	l.Info("fetched collections", "count", len(entries))
	return entries, nil
}

var errNotAnArray = errors.New("payload is not a JSON array")

/*
ParseCollections splits a JSON array payload into raw entries. Only the
outer shape is checked; entries themselves are taken as-is.
*/
func ParseCollections(body []byte) ([]models.RawCollectionEntry, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}

	parsed := gjson.ParseBytes(body)

	if !parsed.IsArray() {
		return nil, errNotAnArray
	}

	items := parsed.Array()
	result := make([]models.RawCollectionEntry, 0, len(items))

	for _, item := range items {
		result = append(result, models.NewRawCollectionEntry(item))
	}

	return result, nil
}

func collectionsURL(baseOrigin, collectionsPath string) string {
	base := strings.TrimRight(baseOrigin, "/")
	path := strings.TrimSpace(collectionsPath)

	if path == "" || path == "/" {
		return base
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return base + path
}
