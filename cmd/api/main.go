package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/catalog"
	"github.com/ariefcatur/go-kasir/internal/checkout"
	"github.com/ariefcatur/go-kasir/internal/config"
	"github.com/ariefcatur/go-kasir/internal/events"
	"github.com/ariefcatur/go-kasir/internal/httpx"
	kafkax "github.com/ariefcatur/go-kasir/internal/kafka"
	"github.com/ariefcatur/go-kasir/internal/logx"
	"github.com/ariefcatur/go-kasir/internal/payment"
	"github.com/ariefcatur/go-kasir/internal/postgres"
	"github.com/ariefcatur/go-kasir/internal/receipts"
	"github.com/ariefcatur/go-kasir/internal/redisx"
	"github.com/ariefcatur/go-kasir/internal/report"
	"github.com/ariefcatur/go-kasir/internal/session"
	"github.com/ariefcatur/go-kasir/internal/stockio"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logx.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("report timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: transaksi & import (dua topic berbeda)
	pTrx := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicTransactionCompleted, 1024, logger)
	pTrx.Start(ctx)
	pImp := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicProductsImported, 256, logger)
	pImp.Start(ctx)

	// Postgres hanya untuk riwayat struk; API tetap jalan tanpa itu
	var receiptLister httpx.ReceiptLister
	if db, err := postgres.Connect(ctx, cfg.PostgresDSN, 4); err != nil {
		logger.Warn("postgres unavailable, /receipts disabled", zap.Error(err))
	} else {
		defer db.Close()
		receiptLister = &receipts.Repo{DB: db}
	}

	api := backend.New(cfg.BackendURL, backend.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}))

	h := &httpx.Handler{
		Sessions: session.NewManager(api, api, session.NewRedisStore(rdb, redisx.TTLSession), logger),
		Backend:  api,
		Catalog:  catalog.NewFetcher(api, catalog.NewRedisCache(rdb, redisx.TTLCatalog), logger),
		Carts:    checkout.NewRegistry(),
		Payments: payment.NewSubmitter(api, &payment.KafkaPublisher{Producer: pTrx, Service: cfg.ServiceName}, logger),
		Reports:  report.NewAggregator(loc),
		Exporter: stockio.Exporter{Loc: loc},
		Importer: stockio.NewImporter(api, &stockio.KafkaPublisher{Producer: pImp, Service: cfg.ServiceName}, logger),
		Receipts: receiptLister,
		Redis:    rdb,
		Log:      logger,
	}
	// keranjang dari sesi yang sudah kedaluwarsa
	go h.Carts.RunSweeper(ctx, 10*time.Minute, redisx.TTLSession, logger)

	router := httpx.NewRouter()
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pTrx.Close() // tutup inbox -> flush & close writer
	pImp.Close()
	cancel()
	pTrx.WaitClosed()
	pImp.WaitClosed()
}
