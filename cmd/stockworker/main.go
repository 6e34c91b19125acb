package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/enkhjin/monshop/internal/config"
	kafkax "github.com/enkhjin/monshop/internal/kafka"
	"github.com/enkhjin/monshop/internal/order"
	"github.com/enkhjin/monshop/internal/postgres"
	"github.com/enkhjin/monshop/internal/redisx"
	"github.com/enkhjin/monshop/internal/stock"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stock.Service{
		Repo:  &stock.Repo{DB: db},
		Dedup: &redisx.Deduper{RDB: rdb, Service: "stockworker"},
	}

	group := getenv("STOCK_GROUP", "stock-worker")
	workers := mustAtoi(os.Getenv("STOCK_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, order.TopicOrderAccepted, workers)

	go func() {
		log.Printf("stock consumer started: group=%s topic=%s workers=%d", group, order.TopicOrderAccepted, workers)
		if err := cons.Start(ctx, svc.HandleOrderAccepted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
