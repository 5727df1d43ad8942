package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/avokadim/coworking-backend/internal/config"
	"github.com/avokadim/coworking-backend/internal/database"
	"github.com/avokadim/coworking-backend/internal/handler"
	"github.com/avokadim/coworking-backend/internal/logger"
	appmw "github.com/avokadim/coworking-backend/internal/middleware"
	"github.com/avokadim/coworking-backend/internal/queue"
	"github.com/avokadim/coworking-backend/internal/repository"
	"github.com/avokadim/coworking-backend/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("migrations failed", zap.Error(err))
	}
	cancel()
	if v, err := database.Version(context.Background(), db); err == nil {
		log.Info("database ready", zap.Int64("schema_version", v))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		// Sessions live in Redis; auth cannot work without it.
		log.Fatal("redis unavailable")
	}

	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(rdb)
	coworkingRepo := repository.NewCoworkingRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, sessionRepo)
	adminH := handler.NewAdminHandler(coworkingRepo, seatRepo)
	browseH := handler.NewBrowseHandler(coworkingRepo, seatRepo)
	reservationH := handler.NewReservationHandler(coworkingRepo, seatRepo, reservationRepo, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(appmw.RequestLogger(log))
	e.Use(appmw.RateLimit(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, rdb)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterReservations(e, reservationH, cfg.JWTSecret)

	go func() {
		if err := queue.StartReservationConsumer(log); err != nil {
			log.Warn("reservation consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
