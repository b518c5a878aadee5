// Package server initializes and runs the application: it wires the storage
// backends picked by configuration, runs migrations, starts the HTTP API and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/annagruz/taskvault/internal/logging"
	"github.com/annagruz/taskvault/internal/server/auth"
	"github.com/annagruz/taskvault/internal/server/avatars"
	"github.com/annagruz/taskvault/internal/server/config"
	"github.com/annagruz/taskvault/internal/server/credentials"
	"github.com/annagruz/taskvault/internal/server/httpapi"
	"github.com/annagruz/taskvault/internal/server/identity"
	"github.com/annagruz/taskvault/internal/server/images"
	"github.com/annagruz/taskvault/internal/server/notifications"
	"github.com/annagruz/taskvault/internal/server/repositories/repomanager"
	"github.com/annagruz/taskvault/internal/server/repositories/sessions"
	"github.com/annagruz/taskvault/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager
	http   *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := buildLogger(cfg.LogFormat)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	registry, err := buildRegistry(cfg, db, repos)
	if err != nil {
		return nil, err
	}

	avatarStore, err := buildAvatarStore(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	notifier := buildNotifier(cfg, logger)

	hasher := credentials.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenValidity)

	accountSvc := services.NewAccountService(
		db, repos, registry, hasher, tokens,
		avatarStore, images.NewPNGNormalizer(), notifier, logger,
	)
	taskSvc := services.NewTaskService(db, repos, logger)
	resolver := identity.NewResolver(repos.Accounts(db), registry, tokens)

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, resolver, accountSvc, taskSvc, logger)

	return &App{config: cfg, logger: logger, db: db, repos: repos, http: httpServer}, nil
}

func buildLogger(format string) logging.Logger {
	if format == "console" {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		return logging.NewZerologLogger(l)
	}
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func buildRegistry(cfg *config.Config, db *sql.DB, repos repomanager.RepositoryManager) (sessions.Registry, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return sessions.NewRedisRegistry(client, cfg.TokenValidity), nil
	case config.SessionBackendPostgres:
		return repos.Sessions(db), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func buildAvatarStore(ctx context.Context, cfg *config.Config, db *sql.DB) (avatars.Store, error) {
	switch cfg.AvatarBackend {
	case config.AvatarBackendS3:
		return avatars.NewS3Store(ctx, avatars.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
		})
	case config.AvatarBackendPostgres:
		return avatars.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown avatar backend %q", cfg.AvatarBackend)
	}
}

func buildNotifier(cfg *config.Config, logger logging.Logger) notifications.Notifier {
	if cfg.SMTPAddr == "" {
		return notifications.NewLogNotifier(logger)
	}
	return notifications.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server stopped", "err", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "err", err)
	}

	app.logger.Info(ctx, "app stopped")
	return nil
}
