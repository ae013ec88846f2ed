package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-bearer-auth"
	"github.com/goliatone/go-bearer-auth/activitymap"
	"github.com/goliatone/go-bearer-auth/types"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("authd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db,
		auth.WithUsersOptions(
			auth.WithPasswordCost(cfg.PasswordCost),
			auth.WithHashidIDs(cfg.HashidIDs),
		),
		auth.WithTypesOptions(types.WithDefaultNames(cfg.DefaultTypes...)),
	)
	repo.MustValidate()

	srv := NewApp(cfg, repo, lgr.GetLogger)

	go func() {
		if err := srv.Serve(cfg.HTTPAddr); err != nil {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	logger.Info("authd listening", "addr", cfg.HTTPAddr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
}

func openDB(ctx context.Context, cfg *Config) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.GetServer())
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)

	return auth.OpenDB(ctx, cfg, sqldb)
}

// NewApp wires the authenticator, the auth routes and the protected routes.
// getLogger returns the named logger for each component.
func NewApp(cfg *Config, repo auth.RepositoryManager, getLogger func(name string) glog.Logger) router.Server[*fiber.App] {
	activityLogger := getLogger("auth:activity")

	auther := auth.NewAuthenticator(repo.Users(), repo.Types(), cfg).
		WithLogger(getLogger("auth:authz")).
		WithActivitySink(auth.ActivitySinkFunc(func(ctx context.Context, event auth.ActivityEvent) error {
			record := activitymap.Normalize(event, activitymap.WithRedactedKeys("email"))
			activityLogger.Info("auth activity",
				"verb", record.Verb,
				"actor_id", record.ActorID,
				"object_id", record.ObjectID,
				"metadata", record.Metadata,
			)
			return nil
		}))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			AppName:               "authd",
			DisableStartupMessage: true,
		})
	})

	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithControllerAuther(auther),
		auth.WithControllerLogger(getLogger("auth:ctrl")),
		auth.WithControllerDebug(cfg.Debug),
	)

	gate := auth.NewHTTPAuthenticator(auther, cfg).WithLogger(getLogger("auth:http"))

	api := srv.Router().Group("/api")
	api.Get("/me", func(ctx router.Context) error {
		user, ok := auth.FromContext(ctx.Context())
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).Send(nil)
		}
		return ctx.JSON(fiber.StatusOK, user)
	}, gate.ProtectedRoute()).SetName("me.get")

	return srv
}
