package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicore/hospital-booking/internal/api"
	"github.com/medicore/hospital-booking/internal/appointment"
	"github.com/medicore/hospital-booking/internal/auth"
	"github.com/medicore/hospital-booking/internal/catalog"
	"github.com/medicore/hospital-booking/internal/config"
	"github.com/medicore/hospital-booking/internal/db"
	"github.com/medicore/hospital-booking/internal/events"
	"github.com/medicore/hospital-booking/internal/message"
	redisclient "github.com/medicore/hospital-booking/internal/redis"
	"github.com/medicore/hospital-booking/internal/user"
)

const version = "1.0.0"

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api-server").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	publisher := events.NewRedisPublisher(rdb)
	tokens := auth.NewIssuer(cfg.JWTSecret)

	appointments := appointment.NewService(appointment.NewPgRepository(pgPool), publisher, log)
	services := catalog.NewManager(catalog.NewPgRepository(pgPool), publisher, log)
	users := user.NewService(user.NewPgRepository(pgPool), publisher, tokens, log)
	messages := message.NewService(message.NewPgRepository(pgPool), publisher, log)

	router := api.NewRouter(api.RouterConfig{
		Appointments: appointments,
		Catalog:      services,
		Users:        users,
		Messages:     messages,
		Tokens:       tokens,
		PgPool:       pgPool,
		Redis:        rdb,
		Log:          log,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
