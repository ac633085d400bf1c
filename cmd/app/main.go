package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/bootstrap"
	"github.com/Domenick1991/flightledger/internal/cache"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/registry"
	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/Domenick1991/flightledger/internal/service/flights"
	"github.com/Domenick1991/flightledger/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	pgStore := store.NewPGStore(pool)
	snap, err := pgStore.LoadAll(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("load snapshot")
	}

	reg := registry.New(initialDate(cfg, snap, logger))
	if err := reg.Restore(snap.Customers, snap.Flights, snap.Bookings, reg.SystemDate()); err != nil {
		logger.Fatal().Err(err).Msg("restore registry")
	}
	logger.Info().
		Int("customers", len(snap.Customers)).
		Int("flights", len(snap.Flights)).
		Int("bookings", len(snap.Bookings)).
		Msg("ledger loaded")

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightService := flights.NewFlightService(reg, redisCache)
	bookingService := booking.NewBookingService(
		reg,
		pgStore,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService, logger); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// initialDate prefers the persisted system date and falls back to the
// configured one (or today) on first run.
func initialDate(cfg *config.Config, snap *store.Snapshot, logger zerolog.Logger) time.Time {
	if !snap.SystemDate.IsZero() {
		return snap.SystemDate
	}
	if cfg.Booking.InitialDate != "" {
		d, err := time.Parse("2006-01-02", cfg.Booking.InitialDate)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse booking.initial_date")
		}
		return d
	}
	return time.Now()
}
