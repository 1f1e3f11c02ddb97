// Package server wires configuration, storage, the classifier and the HTTP
// API together and runs them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/config"
	"github.com/dmitrijs2005/clinicportal/internal/server/httpapi"
	"github.com/dmitrijs2005/clinicportal/internal/server/inference"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clinicportal/internal/server/services"
	"github.com/dmitrijs2005/clinicportal/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	classifier *inference.Classifier
	runtime    *inference.ONNXRuntime
	router     http.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	images, err := storage.NewS3Store(ctx, storage.S3Options{
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		BaseEndpoint:  c.S3BaseEndpoint,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.S3PublicBaseURL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	fetcher, err := newModelFetcher(ctx, c)
	if err != nil {
		db.Close()
		return nil, err
	}

	runtime := inference.NewONNXRuntime(c.ModelRuntimeLibrary)
	classifier := inference.NewClassifier(inference.DefaultRegistry(), fetcher, runtime,
		c.MaxImagePixels, logger.With("module", "inference"))
	if err := classifier.Load(ctx); err != nil {
		runtime.Close()
		db.Close()
		return nil, fmt.Errorf("model init error: %w", err)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Patients:  services.NewPatientService(db, rm, c, logger),
		Doctors:   services.NewDoctorService(db, rm),
		Images:    services.NewImageService(db, rm, images, logger),
		Contact:   services.NewContactService(logger),
		Diagnosis: services.NewDiagnosisService(classifier, images, c, logger),
		DB:        db,
		Models:    classifier,
		Logger:    logger,
	}, httpapi.RouterConfig{
		CORSAllowOrigins: c.CORSAllowOrigins,
		MaxUploadSize:    c.MaxUploadSize,
	})

	return &App{config: c, logger: logger, db: db, classifier: classifier, runtime: runtime, router: router}, nil
}

// newModelFetcher picks where classifier artifacts come from.
func newModelFetcher(ctx context.Context, c *config.Config) (inference.Fetcher, error) {
	switch c.ModelSource {
	case config.ModelSourceHub:
		return &inference.HubFetcher{
			BaseURL:  c.ModelHubBaseURL,
			RepoID:   c.ModelRepoID,
			CacheDir: c.ModelCacheDir,
			Client:   &http.Client{},
		}, nil
	case config.ModelSourceS3:
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.ModelBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("model storage init error: %w", err)
		}
		return &inference.StoreFetcher{Store: store}, nil
	default:
		return nil, fmt.Errorf("unknown model source %q", c.ModelSource)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.classifier.Close(); err != nil {
		app.logger.Error(ctx, "model close error", "error", err)
	}
	if err := app.runtime.Close(); err != nil {
		app.logger.Error(ctx, "runtime close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
