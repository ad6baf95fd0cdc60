package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicore/hospital-booking/internal/appointment"
	"github.com/medicore/hospital-booking/internal/config"
	"github.com/medicore/hospital-booking/internal/db"
	"github.com/medicore/hospital-booking/internal/events"
	redisclient "github.com/medicore/hospital-booking/internal/redis"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "cleanup-worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	log.Info().Str("env", cfg.Env).Int("cleanup_hour", cfg.CleanupHour).Msg("cleanup-worker starting up")

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

	repo := appointment.NewPgRepository(pgPool)
	svc := appointment.NewService(repo, events.NewRedisPublisher(rdb), log)

	// Sweep once at startup to catch up after downtime, then on the daily
	// schedule.
	runOnce(rootCtx, svc, log)

	for {
		next := nextRunAt(time.Now(), cfg.CleanupHour)
		log.Info().Time("next_run", next).Msg("sleeping until next sweep")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-rootCtx.Done():
			timer.Stop()
			log.Info().Msg("shutdown signal received, stopping cleanup worker")
			return
		case <-timer.C:
			runOnce(rootCtx, svc, log)
		}
	}
}

// nextRunAt returns the next occurrence of the configured local hour strictly
// after now.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func runOnce(ctx context.Context, svc *appointment.Service, log zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	start := time.Now()
	res, err := svc.CleanupExpired(runCtx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup run error")
		return
	}
	log.Info().
		Int64("completed_deleted", res.CompletedDeleted).
		Int64("cancelled_deleted", res.CancelledDeleted).
		Dur("took", time.Since(start)).
		Msg("cleanup run complete")
}
