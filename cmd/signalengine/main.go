package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scarramanga/stackmotive-signal-engine/internal/api"
	"github.com/scarramanga/stackmotive-signal-engine/internal/config"
	"github.com/scarramanga/stackmotive-signal-engine/internal/database"
	"github.com/scarramanga/stackmotive-signal-engine/internal/evaluator"
	"github.com/scarramanga/stackmotive-signal-engine/internal/kafka"
	"github.com/scarramanga/stackmotive-signal-engine/internal/marketdata"
	"github.com/scarramanga/stackmotive-signal-engine/internal/notify"
	"github.com/scarramanga/stackmotive-signal-engine/internal/strategy"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Level(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Str("host", cfg.Database.Host).Msg("connected to database")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	market := marketdata.NewCachedProvider(
		marketdata.NewClient(marketdata.ClientOptions{
			BaseURL: cfg.MarketData.BaseURL,
			APIKey:  cfg.MarketData.APIKey,
		}),
		rdb,
		cfg.Redis.PriceTTL,
	)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.SignalEventsTopic)
	defer producer.Close()

	dispatcher := notify.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic)
	defer dispatcher.Close()

	managerCfg := strategy.DefaultConfig()
	managerCfg.HistoryBars = cfg.Engine.HistoryBars
	managerCfg.Interval = cfg.Engine.Interval
	managerCfg.SentimentWindow = cfg.Engine.SentimentWindow

	manager := strategy.NewManager(managerCfg, market, db, evaluator.New(), dispatcher, producer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RunRequestsTopic, cfg.Kafka.ConsumerGroup, manager)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("run-request consumer stopped")
		}
	}()

	router := api.SetupRoutes(api.NewHandler(db, manager))
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
