package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"worksync/internal/config"
	"worksync/internal/eventlog"
	"worksync/internal/telemetry"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
)

// eventlog subscribes to the change-event subject and archives every event in ClickHouse.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.NATS.URL == "" {
		log.Fatal("NATS_URL is required for the event log")
	}
	gin.SetMode(cfg.GinMode)

	shutdownTelemetry := telemetry.Setup(cfg.Telemetry, "worksync-eventlog")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	db, err := sql.Open("clickhouse", cfg.EventLog.ClickHouseDSN)
	if err != nil {
		log.Fatalf("failed to connect to ClickHouse: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := eventlog.NewClickhouseRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to prepare ClickHouse schema: %v", err)
	}
	cons := eventlog.NewConsumer(repo, cfg.EventLog.BatchSize)

	router := gin.New()
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", func(c *gin.Context) {
		if !nc.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "nats disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "pending": cons.Pending()})
	})
	healthSrv := &http.Server{Addr: ":" + cfg.EventLog.HealthPort, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Printf("starting health server on %s", healthSrv.Addr)
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("health server failed: %v", err)
		}
	}()

	sub, err := nc.Subscribe(cfg.NATS.Subject, func(msg *nats.Msg) {
		if err := cons.HandleMessage(context.Background(), msg.Data); err != nil {
			log.Printf("failed to handle message: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to subscribe to subject %s: %v", cfg.NATS.Subject, err)
	}

	flusherCtx, stopFlusher := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cons.RunFlusher(flusherCtx, cfg.EventLog.FlushInterval)
	}()

	<-ctx.Done()
	log.Printf("shutting down event log...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("health server shutdown failed: %v", err)
	}
	if err := sub.Unsubscribe(); err != nil {
		log.Printf("failed to unsubscribe: %v", err)
	}
	// the flusher writes whatever is still buffered before returning
	stopFlusher()
	wg.Wait()
}
