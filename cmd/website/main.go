package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	_ "github.com/glebarez/sqlite"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/cache"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/configuration"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/home"
	"github.com/minzhangphoto/portfolio/cmd/website/internal/previews"
	"github.com/minzhangphoto/portfolio/pkg/services"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	Version string = "development"
	appName string = "minzhangphoto"

	//go:embed app
	appFS embed.FS

	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	config configuration.Config

	/* Services */
	cacheCreatorService cache.CacheCreator
	catalogService      services.CatalogServicer
	db                  *sqlz.DB
	previewService      services.PreviewServicer
	renderer            rendering.TemplateRenderer
	resolver            services.ImageURLResolver

	/* Controllers */
	homeController    home.HomeHandlers
	previewController previews.PreviewHandlers
)

func main() {
	var (
		err    error
		source services.CollectionLoader
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("dataSource", config.DataSource),
		slog.String("baseOrigin", config.BaseOrigin),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	if db, err = sqlz.Connect("sqlite", config.DSN); err != nil {
		panic(err)
	}

	migrateDatabase()

	if source, err = setupCollectionSource(); err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	catalogService = services.NewCatalogService(services.CatalogServiceConfig{
		Source:  source,
		Timeout: config.FetchTimeout(),
	})

	resolver = services.NewImageURLResolver(services.ImageURLResolverConfig{
		BaseOrigin: config.BaseOrigin,
	})

	previewService = services.NewPreviewService(services.PreviewServiceConfig{
		DB: db,
	})

	cacheCreatorService = cache.NewCacheCreatorService(cache.CacheCreatorConfig{
		Catalog:         catalogService,
		MaxCacheWorkers: config.MaxCacheWorkers,
		PreviewMaxSize:  config.PreviewMaxSize,
		PreviewService:  previewService,
		Resolver:        resolver,
		ShutdownCtx:     shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		Catalog:  catalogService,
		Config:   &config,
		Renderer: renderer,
		Resolver: resolver,
	})

	previewController = previews.NewPreviewController(previews.PreviewControllerConfig{
		Catalog:        catalogService,
		PreviewService: previewService,
		Resolver:       resolver,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	catalogReadyMiddleware := newCatalogReadyMiddleware(
		catalogService,
		[]string{
			"/static",
			"/heartbeat",
		},
	)

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: []mux.MiddlewareFunc{catalogReadyMiddleware}},
		{Path: "POST /retry", HandlerFunc: homeController.RetryAction},
		{Path: "GET /previews/{key}", HandlerFunc: previewController.PreviewImage},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Fetch collections once, then keep previews warm
	 */
	go func() {
		if err := catalogService.Refresh(shutdownCtx); err != nil {
			slog.Error("initial collections load failed. pages will offer a retry", "error", err)
		}

		setupCacheCreator(shutdownCtx)
	}()

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func setupCollectionSource() (services.CollectionLoader, error) {
	var (
		err error
	)

	if config.DataSource != "s3" {
		return services.NewHTTPCollectionService(services.HTTPCollectionServiceConfig{
			BaseOrigin:      config.BaseOrigin,
			CollectionsPath: config.CollectionsPath,
			Timeout:         config.FetchTimeout(),
		}), nil
	}

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		return nil, err
	}

	bucket := services.NewS3SnapshotBucket(services.S3SnapshotBucketConfig{
		Bucket:   config.AwsBucket,
		Prefix:   config.SnapshotPrefix,
		S3Client: s3Client,
	})

	return services.NewS3CollectionService(services.S3CollectionServiceConfig{
		Bucket: bucket,
	}), nil
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func migrateDatabase() {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		panic(err)
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if strings.HasPrefix(d.Name(), "commit") {
			if b, err = fs.ReadFile(sqlMigrationsFs, filepath.Join("sql-migrations", d.Name())); err != nil {
				panic(err)
			}

			if err = runSqlScript(b); err != nil {
				if !isIgnorableError(err) {
					panic(err)
				}
			}
		}
	}
}

func runSqlScript(script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	if strings.Contains(err.Error(), "duplicate column") {
		return true
	}

	return false
}

func setupCacheCreator(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	runner := func() {
		cacheCreatorService.CreateCache()
		slog.Info("preview cache creator finished.")
	}

	runner()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			runner()
		}
	}
}
