package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/config"
	"github.com/alfredjmgdev/darien-technology-test/internal/auth"
	"github.com/alfredjmgdev/darien-technology-test/internal/bootstrap"
	"github.com/alfredjmgdev/darien-technology-test/internal/cache"
	"github.com/alfredjmgdev/darien-technology-test/internal/kafka"
	"github.com/alfredjmgdev/darien-technology-test/internal/policy"
	"github.com/alfredjmgdev/darien-technology-test/internal/repository"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/reservations"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/spaces"
	"github.com/alfredjmgdev/darien-technology-test/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SpacesCacheTTLSec)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)

	spaceRepo := repository.NewSpaceRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	bookingPolicy := policy.NewBookingPolicy(spaceRepo, reservationRepo, cfg.Booking.WeeklyQuota)
	lockTTL := time.Duration(cfg.Booking.SpaceLockTTLSec) * time.Second

	userService := users.NewUserService(userRepo, tokens)
	spaceService := spaces.NewSpaceService(spaceRepo, bookingPolicy, redisCache, lockTTL)
	reservationService := reservations.NewReservationService(
		reservationRepo,
		bookingPolicy,
		redisCache,
		producer,
		cfg.Kafka.ReservationsTopic,
		lockTTL,
		reservations.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, tokens, userService, spaceService, reservationService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
