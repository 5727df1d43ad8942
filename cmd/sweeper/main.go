// The sweeper transitions reservations whose session has ended to
// PASSED. It runs as a separate process on a fixed interval so the API
// never mutates status on read paths.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avokadim/coworking-backend/internal/config"
	"github.com/avokadim/coworking-backend/internal/database"
	"github.com/avokadim/coworking-backend/internal/logger"
	"github.com/avokadim/coworking-backend/internal/repository"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewReservationRepo(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("sweeper started", zap.Duration("interval", sweepInterval))
	sweep(ctx, repo, log)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper stopped")
			return
		case <-ticker.C:
			sweep(ctx, repo, log)
		}
	}
}

func sweep(ctx context.Context, repo *repository.ReservationRepo, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := repo.MarkPassed(ctx, time.Now())
	if err != nil {
		log.Error("sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("reservations passed", zap.Int64("count", n))
	}
}
