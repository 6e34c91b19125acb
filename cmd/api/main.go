package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/enkhjin/monshop/internal/catalog"
	"github.com/enkhjin/monshop/internal/checkout"
	"github.com/enkhjin/monshop/internal/config"
	"github.com/enkhjin/monshop/internal/httpx"
	kafkax "github.com/enkhjin/monshop/internal/kafka"
	"github.com/enkhjin/monshop/internal/metrics"
	"github.com/enkhjin/monshop/internal/order"
	"github.com/enkhjin/monshop/internal/postgres"
	"github.com/enkhjin/monshop/internal/redisx"
	"github.com/enkhjin/monshop/internal/session"
	"github.com/enkhjin/monshop/internal/telegram"
	"github.com/enkhjin/monshop/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for OrderAccepted events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, order.TopicOrderAccepted, 1024)
	prod.Start(ctx)

	zone, err := time.LoadLocation(cfg.OrderTimezone)
	if err != nil {
		log.Printf("timezone %q: %v, falling back to UTC", cfg.OrderTimezone, err)
		zone = time.UTC
	}

	// Notification transport: webhook when configured, Telegram otherwise.
	var transport checkout.Transport
	if cfg.OrderWebhookURL != "" {
		transport = webhook.New(cfg.OrderWebhookURL)
	} else {
		transport = telegram.Notifier{C: telegram.New(cfg.TelegramAPIURL, cfg.TelegramToken, cfg.TelegramChatID)}
	}

	m := metrics.New(cfg.ServiceName)

	repo := &catalog.Repo{DB: db}
	cache := &catalog.Cache{RDB: rdb}

	sessions := session.NewManager(2 * time.Hour)
	sessions.Start(ctx)

	svc := &checkout.Service{
		Composer:  &order.Composer{Fee: cfg.DeliveryFee, Zone: zone},
		Transport: transport,
		Producer:  prod,
		Metrics:   m,
		Service:   cfg.ServiceName,
	}

	router := httpx.NewRouter()
	router.Handle("/metrics", metrics.Handler())
	(&httpx.CatalogHandler{Store: repo, Cache: cache}).Register(router)
	(&httpx.CartHandler{Sessions: sessions, Store: repo, Checkout: svc}).Register(router)
	(&httpx.AdminHandler{
		Store:    repo,
		Cache:    cache,
		Tokens:   &redisx.AdminSessions{RDB: rdb},
		Password: cfg.AdminPassword,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}
