package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	actorstore "github.com/Malmz/TalesFromTheSprawl/internal/actor/store"
	"github.com/Malmz/TalesFromTheSprawl/internal/arbiter"
	claimhandler "github.com/Malmz/TalesFromTheSprawl/internal/claim/handler"
	claimservice "github.com/Malmz/TalesFromTheSprawl/internal/claim/service"
	"github.com/Malmz/TalesFromTheSprawl/internal/groupdir"
	handleservice "github.com/Malmz/TalesFromTheSprawl/internal/handle/service"
	handlestore "github.com/Malmz/TalesFromTheSprawl/internal/handle/store"
	"github.com/Malmz/TalesFromTheSprawl/internal/ledger"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/config"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/health"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/httpserver"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/logger"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/metrics"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/postgres"
	redisplatform "github.com/Malmz/TalesFromTheSprawl/internal/platform/redis"
	templatestore "github.com/Malmz/TalesFromTheSprawl/internal/template/store"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/audit"
)

// main wires dependencies and owns the process lifecycle. All identity
// rules live in internal services; swapping a store here never changes
// claim semantics.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Handle store: Postgres when configured, in-memory for development.
	var db *sql.DB
	var handles handlestore.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		handles = handlestore.NewPostgres(db)
		log.Info("handle store: postgres")
	} else {
		handles = handlestore.NewInMemoryStore()
		log.Info("handle store: in-memory")
	}

	// Arbitration slot: Redis shares the gate across nodes; the in-memory
	// slot only serializes claims within one process.
	var slot arbiter.SlotStore = arbiter.NewInMemorySlot()
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		slot = arbiter.NewRedisSlot(redisClient.Client, "")
		log.Info("arbitration slot: redis")
	}

	// Audit pipeline: events flow through a buffered inbox into either
	// Kafka or the in-memory store.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if len(cfg.Audit.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.Audit.Brokers, cfg.Audit.Topic)
		if err != nil {
			log.Error("kafka audit store init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("audit store: kafka", "topic", cfg.Audit.Topic)
	}
	auditInbox := make(chan audit.Event, 256)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)

	registry := handleservice.NewRegistry(handles, handleservice.WithLogger(log))
	gate := arbiter.New(slot, arbiter.WithLogger(log), arbiter.WithMetrics(m))
	templates := templatestore.NewFileStore(cfg.TemplatesPath)

	claims := claimservice.New(
		gate,
		registry,
		actorstore.NewInMemoryStore(),
		templates,
		ledger.NewInMemoryLedger(),
		groupdir.NewInMemoryDirectory(),
		claimservice.WithLogger(log),
		claimservice.WithMetrics(m),
		claimservice.WithAuditPublisher(audit.NewAsyncPublisher(auditInbox)),
	)

	checks := map[string]health.Check{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Health
	}

	router := chi.NewRouter()
	claimhandler.New(claims, registry, templates, cfg.AdminToken, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", health.Handler(log, checks))

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := auditWorker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
