package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/kinoreserve/movie-reservation/internal/config"
	"github.com/kinoreserve/movie-reservation/internal/database"
	"github.com/kinoreserve/movie-reservation/internal/handler"
	"github.com/kinoreserve/movie-reservation/internal/middleware"
	"github.com/kinoreserve/movie-reservation/internal/queue"
	"github.com/kinoreserve/movie-reservation/internal/repository"
	"github.com/kinoreserve/movie-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "movie-reservation").Logger()
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	genres := repository.NewGenreRepo(db)
	movies := repository.NewMovieRepo(db)
	rooms := repository.NewRoomRepo(db)
	seats := repository.NewSeatRepo(db)
	showings := repository.NewShowingRepo(db)
	reservations := repository.NewReservationRepo(db)

	if cfg.AMQPURL != "" {
		go queue.StartReservationConsumer(cfg.AMQPURL, log)
	} else {
		log.Warn().Msg("AMQP_URL not set, reservation events disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.Register(e, router.Handlers{
		Health:       handler.NewHealthHandler(db, rdb),
		Auth:         handler.NewAuthHandler(users, tokens, cfg),
		Users:        handler.NewUserHandler(users, tokens, cfg),
		Genres:       handler.NewGenreHandler(genres),
		Movies:       handler.NewMovieHandler(movies, showings, reservations),
		Rooms:        handler.NewRoomHandler(rooms, seats),
		Showings:     handler.NewShowingHandler(showings, movies, rooms),
		Reservations: handler.NewReservationHandler(reservations, showings, movies, rooms, seats, cfg.AMQPURL, log),
		Availability: handler.NewAvailabilityHandler(reservations, showings),
	}, cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
