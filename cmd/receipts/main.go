package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-kasir/internal/config"
	"github.com/ariefcatur/go-kasir/internal/events"
	kafkax "github.com/ariefcatur/go-kasir/internal/kafka"
	"github.com/ariefcatur/go-kasir/internal/logx"
	"github.com/ariefcatur/go-kasir/internal/postgres"
	"github.com/ariefcatur/go-kasir/internal/receipts"
	"github.com/ariefcatur/go-kasir/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logx.New(cfg.ServiceName+"-receipts", cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB + skema
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, int32(cfg.ReceiptsWorkers)+1)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer db.Close()

	// Redis (dedup)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &receipts.Service{
		Repo:  &receipts.Repo{DB: db},
		Redis: rdb,
		Log:   logger,
		Group: cfg.ReceiptsGroup,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ReceiptsGroup, events.TopicTransactionCompleted, cfg.ReceiptsWorkers, logger)
	go func() {
		logger.Info("receipt consumer started",
			zap.String("group", cfg.ReceiptsGroup),
			zap.String("topic", events.TopicTransactionCompleted),
			zap.Int("workers", cfg.ReceiptsWorkers),
		)
		if err := cons.Start(ctx, svc.HandleTransactionCompleted); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
