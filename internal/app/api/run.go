package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	usersserver "github.com/Apurer/go-gin-users-api/go"
	usermemory "github.com/Apurer/go-gin-users-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-users-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-users-api/internal/domains/users/adapters/persistence/postgres"
	userstorage "github.com/Apurer/go-gin-users-api/internal/domains/users/adapters/storage/local"
	userapp "github.com/Apurer/go-gin-users-api/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-users-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-users-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-users-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-users-api/internal/platform/postgres"
)

const shutdownTimeout = 10 * time.Second

// Run boots the users HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.ServiceName,
		platformobservability.WithLogLevel(cfg.SlogLevel()),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildUserRepository(ctx, cfg, logger)
	defer cleanupRepo()
	userService := userobs.New(
		userapp.NewService(repo),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	pictures := userstorage.NewStore(cfg.UploadDir)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newEngine(cfg, logger, userService, pictures),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("users API listening",
			slog.String("addr", server.Addr),
			slog.String("upload_dir", pictures.Dir()),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("users API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down users API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// newEngine mounts the users routes behind tracing, recovery, request ids and access logs.
func newEngine(cfg Config, logger *slog.Logger, service userports.Service, pictures userports.PictureStore) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	engine := gin.New()
	engine.MaxMultipartMemory = cfg.MultipartMemoryBytes()
	engine.Use(
		otelgin.Middleware(cfg.ServiceName),
		gin.Recovery(),
		usersserver.RequestID(),
		usersserver.AccessLog(logger),
	)
	handlers := usersserver.ApiHandleFunctions{
		UserAPI: usersserver.NewUserAPI(service, pictures, logger),
	}
	return usersserver.NewRouterWithGinEngine(engine, handlers)
}

// buildUserRepository picks Postgres when a DSN is configured and memory otherwise.
// An unreachable database is logged and kept so the pool can recover once it comes up;
// the schema is then created by the repository on its first call.
func buildUserRepository(ctx context.Context, cfg Config, logger *slog.Logger) (userports.Repository, func()) {
	dsn := cfg.DSN()
	if dsn == "" {
		logger.Warn("POSTGRES_DSN and DB_HOST not set, falling back to in-memory user repository")
		return usermemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn, platformpostgres.Options{
		Driver:         cfg.PostgresDriver,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if db == nil {
		logger.Warn("failed to open postgres, falling back to memory", slog.String("error", err.Error()))
		return usermemory.NewRepository(), func() {}
	}
	cleanup := func() {
		if err := platformpostgres.Close(db); err != nil {
			logger.Warn("failed to close postgres pool", slog.String("error", err.Error()))
		}
	}
	if err != nil {
		logger.Error("unable to connect to the database, users schema will be ensured on first use",
			slog.String("driver", cfg.PostgresDriver),
			slog.String("error", err.Error()),
		)
		return userpostgres.NewRepository(db, userpostgres.WithSchema(migrations.Run)), cleanup
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		logger.Error("failed to migrate users schema, retrying on first use", slog.String("error", err.Error()))
		return userpostgres.NewRepository(db, userpostgres.WithSchema(migrations.Run)), cleanup
	}
	logger.Info("user repository configured with postgres", slog.String("driver", cfg.PostgresDriver))
	return userpostgres.NewRepository(db), cleanup
}
