package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"lodgeiq/internal/adapters/blob"
	server "lodgeiq/internal/adapters/http_server"
	"lodgeiq/internal/adapters/observability"
	redisad "lodgeiq/internal/adapters/redis"
	"lodgeiq/internal/app"
	"lodgeiq/internal/auth"
	"lodgeiq/internal/shared"
	mysqlrepo "lodgeiq/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db: opened here, closed here; nothing else owns the handle
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	blobs, err := blob.New(cfg.BlobBase, cfg.BlobToken, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("blob client init failed")
	}
	verifier := auth.NewVerifier(cfg.AuthSecret)
	policy := auth.RolePolicy{}

	hotels := app.NewHotelService(repo, repo, policy, cache)
	inspections := app.NewInspectionService(repo, repo, policy, cache)
	uploads := app.NewUploadService(blobs, repo, policy)
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Hotels:      hotels,
		Inspections: inspections,
		Uploads:     uploads,
		Q:           q,
	}, server.Auth(verifier, repo))

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("db close failed")
	}
}
