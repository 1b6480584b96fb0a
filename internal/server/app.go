// Package server wires the identity server together: storage backend,
// password scheme, token issuer, photo storage, metrics and the gRPC endpoint.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/config"
	"github.com/dmitrijs2005/telepharmacy/internal/server/metrics"
	"github.com/dmitrijs2005/telepharmacy/internal/server/passwords"
	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/telepharmacy/internal/server/services"
	"github.com/dmitrijs2005/telepharmacy/internal/server/storage/photos"
	"github.com/dmitrijs2005/telepharmacy/internal/server/tokens"

	gs "github.com/dmitrijs2005/telepharmacy/internal/server/grpc"
)

var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	newPhotoStorage = func(ctx context.Context, cfg photos.Config) (photos.Storage, error) {
		return photos.NewS3Storage(ctx, cfg)
	}
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	repos             repomanager.RepositoryManager
	metrics           *metrics.Metrics
	tokens            tokens.Authority
	credentialService *services.CredentialService
	profileService    *services.ProfileService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	var (
		repos  repomanager.RepositoryManager
		scheme passwords.Scheme
	)

	if c.UsesPostgres() {
		repos, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		scheme = passwords.Bcrypt{}
	} else {
		repos = repomanager.NewInMemoryRepositoryManager()
		scheme = passwords.Plain{}
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var issuer tokens.Authority = tokens.NewMockIssuer()
	if c.SignsTokens() {
		issuer = tokens.NewJWTIssuer([]byte(c.SecretKey), c.TokenValidityDuration)
	}

	// a nil interface, not a typed nil, keeps photo uploads disabled
	var storage photos.Storage
	if c.PhotosEnabled() {
		storage, err = newPhotoStorage(ctx, photos.Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("photo storage init error: %w", err)
		}
	}

	var m *metrics.Metrics
	if c.MetricsAddr != "" {
		m = metrics.New()
	}

	return &App{
		config:            c,
		logger:            logger,
		repos:             repos,
		metrics:           m,
		tokens:            issuer,
		credentialService: services.NewCredentialService(repos.Credentials(), scheme, issuer, logger),
		profileService:    services.NewProfileService(repos.Profiles(), storage, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.credentialService, app.profileService, app.tokens, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the listeners fails, then releases the storage backend.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"postgres", app.config.UsesPostgres(),
		"signed_tokens", app.config.SignsTokens(),
		"photos", app.config.PhotosEnabled(),
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.metrics != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
