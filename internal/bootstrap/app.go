package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/application/auth"
	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/application/importjob"
	"github.com/geritapp/gerit/internal/application/review"
	"github.com/geritapp/gerit/internal/config"
	authdomain "github.com/geritapp/gerit/internal/domain/auth"
	reviewdomain "github.com/geritapp/gerit/internal/domain/review"
	"github.com/geritapp/gerit/internal/infrastructure/clientsapi"
	"github.com/geritapp/gerit/internal/infrastructure/file"
	"github.com/geritapp/gerit/internal/infrastructure/gemini"
	"github.com/geritapp/gerit/internal/infrastructure/metrics"
	"github.com/geritapp/gerit/internal/infrastructure/session"
	httpecho "github.com/geritapp/gerit/internal/interfaces/http/echo"
	"github.com/geritapp/gerit/internal/seed"
)

var errReviewerNotConfigured = errors.New("GEMINI_API_KEY is not set")

type unconfiguredReviewer struct{}

func (unconfiguredReviewer) Review(context.Context, reviewdomain.ChangeList) (reviewdomain.AIReview, error) {
	return reviewdomain.AIReview{}, errReviewerNotConfigured
}

// App is the wired service: catalogs, auth, reviews, the import worker and
// the HTTP server in front of them.
type App struct {
	Server  *echo.Echo
	Console *fieldservice.Console
	Worker  *importjob.Worker

	storage *Storage
	redis   *redis.Client
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.storage.Close()
}

// NewConsole opens storage and loads every catalog. It is shared by the
// API and the command line tool.
func NewConsole(ctx context.Context, cfg *config.Configuration, observer *metrics.Metrics) (*fieldservice.Console, *Storage, error) {
	logger := cfg.Logger()

	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := fieldservice.Options{Recorder: storage.Jobs, Logger: logger}
	if observer != nil {
		opts.Observer = observer
	}
	if cfg.ClientsAPIURL != "" {
		api, err := clientsapi.New(cfg.ClientsAPIURL, nil)
		if err != nil {
			storage.Close()
			return nil, nil, err
		}
		opts.ClientsAPI = api
	}

	console := fieldservice.NewConsole(storage.Stores, opts)

	var data fieldservice.Seed
	if cfg.SeedData {
		data = seed.FieldService()
	}
	if err := console.Load(ctx, data); err != nil {
		storage.Close()
		return nil, nil, fmt.Errorf("load catalogs: %w", err)
	}
	return console, storage, nil
}

func New(ctx context.Context, cfg *config.Configuration) (*App, error) {
	logger := cfg.Logger()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	}

	console, storage, err := NewConsole(ctx, cfg, m)
	if err != nil {
		return nil, err
	}
	app := &App{Console: console, storage: storage}

	authSvc, err := app.authService(ctx, cfg, logger, m)
	if err != nil {
		app.Close()
		return nil, err
	}

	reviewOpts := []review.Option{review.WithLogger(logger)}
	if m != nil {
		reviewOpts = append(reviewOpts, review.WithObserver(m))
	}
	reviewSvc := review.NewService(review.Static(seed.Changes()), newReviewer(ctx, cfg, logger), reviewOpts...)

	if err := os.MkdirAll(cfg.Import.UploadDir, 0o755); err != nil {
		app.Close()
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	uploads := file.NewLocalSource(cfg.Import.UploadDir)

	if cfg.Import.Workers > 0 {
		app.Worker = importjob.NewWorker(storage.Jobs, uploads, console, importjob.WorkerConfig{
			Workers:       cfg.Import.Workers,
			PollInterval:  cfg.Import.PollInterval,
			LeaseDuration: cfg.Import.LeaseDuration,
			Logger:        logger,
		})
	}

	known := func(name string) bool {
		_, err := console.Entity(name)
		return err == nil
	}

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(strconv.FormatInt(cfg.MaxUploadSize+(1<<20), 10)))
	server.Use(httpecho.RequestLogger(logger))
	if m != nil {
		server.Use(m.Middleware())
	}

	paging := httpecho.Paging{PageSize: cfg.PageSize, MaxPageSize: cfg.MaxPageSize}
	routes := httpecho.Routes{
		Logger:  logger,
		Session: authSvc,
		Auth:    httpecho.NewAuthHandler(authSvc),
		Entities: []httpecho.EntityRoutes{
			{Name: fieldservice.EntityClients, Handler: httpecho.NewEntityHandler(console.Clients, paging)},
			{Name: fieldservice.EntityTeam, Handler: httpecho.NewEntityHandler(console.Team, paging)},
			{Name: fieldservice.EntityVehicles, Handler: httpecho.NewEntityHandler(console.Vehicles, paging)},
			{Name: fieldservice.EntityEquipment, Handler: httpecho.NewEntityHandler(console.Equipment, paging)},
			{Name: fieldservice.EntityInterventions, Handler: httpecho.NewEntityHandler(console.Interventions, paging)},
		},
		Imports: httpecho.NewImportHandler(httpecho.ImportHandlerConfig{
			Entities:  console,
			Uploads:   uploads,
			Start:     importjob.NewStartImport(storage.Jobs, known, cfg.Import.MaxAttempts),
			GetJob:    importjob.NewGetImportJob(storage.Jobs),
			ListJobs:  importjob.NewListImportJobs(storage.Jobs),
			MaxUpload: cfg.MaxUploadSize,
		}),
		Exports:   httpecho.NewExportHandler(console),
		Dashboard: httpecho.NewDashboardHandler(console),
		Reviews:   httpecho.NewReviewHandler(reviewSvc),
	}
	if m != nil {
		routes.Metrics = m.Handler()
	}
	httpecho.RegisterRoutes(server, routes)

	app.Server = server
	return app, nil
}

func (a *App) authService(ctx context.Context, cfg *config.Configuration, logger *logrus.Logger, m *metrics.Metrics) (*auth.Service, error) {
	accounts := make([]authdomain.Account, 0, len(seed.Credentials()))
	for _, c := range seed.Credentials() {
		account, err := auth.NewAccount(c.User, c.Password)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	short := session.NewMemoryStore(nil)
	var long authdomain.Store = short
	if cfg.Session.RedisURL != "" {
		client, err := session.OpenRedis(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = client
		long = session.NewRedisStore(client)
	}

	authCfg := auth.Config{
		Short:       short,
		Long:        long,
		TTL:         cfg.Session.TTL,
		RememberTTL: cfg.Session.RememberTTL,
		Logger:      logger,
	}
	if m != nil {
		authCfg.Observer = m
	}
	return auth.NewService(accounts, authCfg), nil
}

func newReviewer(ctx context.Context, cfg *config.Configuration, logger *logrus.Logger) reviewdomain.Reviewer {
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI review disabled")
		return unconfiguredReviewer{}
	}
	r, err := gemini.NewReviewer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.WithError(err).Warn("gemini client unavailable, AI review disabled")
		return unconfiguredReviewer{}
	}
	return r
}

// Run starts the worker and serves HTTP until ctx ends.
func (a *App) Run(ctx context.Context, addr string) error {
	if a.Worker != nil {
		a.Worker.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
