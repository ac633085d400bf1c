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
	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/email"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			logger.Warn().Err(err).Msg("consumer stopped")
		}
	}()

	reportTicker := time.NewTicker(time.Duration(cfg.Worker.ReportSweepMinutes) * time.Minute)
	defer reportTicker.Stop()

	for {
		select {
		case <-reportTicker.C:
			if err := reportDepartedFlights(ctx, pgStore, logger); err != nil {
				logger.Warn().Err(err).Msg("departed flights report")
			}
		case <-ctx.Done():
			logger.Info().Msg("shutting down")
			return
		}
	}
}

// reportDepartedFlights reads the latest snapshot and logs flights that have
// departed while still carrying boarded passengers. Purely informational.
func reportDepartedFlights(ctx context.Context, st store.Store, logger zerolog.Logger) error {
	snap, err := st.LoadAll(ctx)
	if err != nil {
		return err
	}

	boarded := make(map[int64]int)
	for _, b := range snap.Bookings {
		if b.Status == domain.BookingStatusActive {
			boarded[b.FlightID]++
		}
	}

	for _, f := range snap.Flights {
		if !f.DepartsBefore(snap.SystemDate) {
			continue
		}
		if n := boarded[f.ID]; n > 0 {
			logger.Info().
				Int64("flight_id", f.ID).
				Str("number", f.Number).
				Int("passengers", n).
				Msg("flight departed with boarded passengers")
		}
	}
	return nil
}
