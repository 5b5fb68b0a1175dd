package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/1shammah/symptom-checker/internal/analytics"
	"github.com/1shammah/symptom-checker/internal/auth/ratelimit"
	"github.com/1shammah/symptom-checker/internal/auth/session"
	"github.com/1shammah/symptom-checker/internal/auth/user"
	"github.com/1shammah/symptom-checker/internal/catalog"
	"github.com/1shammah/symptom-checker/internal/checker/cache"
	"github.com/1shammah/symptom-checker/internal/checker/handler"
	"github.com/1shammah/symptom-checker/internal/checker/router"
	"github.com/1shammah/symptom-checker/internal/recommender"
	"github.com/1shammah/symptom-checker/pkg/config"
	"github.com/1shammah/symptom-checker/pkg/health"
	"github.com/1shammah/symptom-checker/pkg/kafka"
	"github.com/1shammah/symptom-checker/pkg/logger"
	"github.com/1shammah/symptom-checker/pkg/metrics"
	"github.com/1shammah/symptom-checker/pkg/postgres"
	pkgredis "github.com/1shammah/symptom-checker/pkg/redis"
	"github.com/1shammah/symptom-checker/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting symptom checker", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	store := catalog.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}
	users := user.NewStore(db)

	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	sessions := session.NewManager(redisClient, cfg.Redis.SessionTTL)
	checkCache := cache.New(redisClient, cfg.Redis)
	slog.Info("check cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)

	// Load the corpus snapshot before accepting traffic. The catalog may
	// still be starting up alongside us, so retry with backoff.
	var engine *recommender.Engine
	err = resilience.Retry(ctx, "load corpus", resilience.RetryConfig{
		MaxAttempts:  cfg.Checker.LoadMaxAttempts,
		InitialDelay: cfg.Checker.LoadRetryDelay,
	}, func() error {
		profiles, err := store.Profiles(ctx)
		if err != nil {
			return err
		}
		snap, err := recommender.Load(profiles)
		if err != nil {
			return err
		}
		engine = recommender.NewEngine(snap)
		return nil
	})
	if err != nil {
		slog.Error("failed to load disease corpus", "error", err)
		os.Exit(1)
	}
	snap := engine.Snapshot()
	slog.Info("disease corpus loaded",
		"diseases", snap.NumDiseases(),
		"vocabulary_size", snap.VocabularySize(),
	)

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.CorpusDiseases.Set(float64(snap.NumDiseases()))
		m.CorpusVocabularySize.Set(float64(snap.VocabularySize()))
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.CheckEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()

	aggregator := analytics.NewAggregator()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CheckEvents, analytics.HandleEvent(aggregator))
	aggregator.SetConsumer(consumer)
	go func() {
		if err := aggregator.Start(ctx); err != nil {
			slog.Error("analytics aggregator error", "error", err)
		}
	}()
	statsHandler := analytics.NewHandler(aggregator)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := db.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		snap := engine.Snapshot()
		if snap.NumDiseases() == 0 {
			return health.ComponentHealth{Status: health.StatusDown, Message: "empty corpus"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d diseases", snap.NumDiseases()),
		}
	})

	limiter := ratelimit.New(cfg.Auth.RateLimitPerMinute, cfg.Auth.RateLimitBurst)
	h := handler.New(engine, store, checkCache, collector, users, sessions, m,
		cfg.Checker.DefaultTopK, cfg.Checker.MaxTopK)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.New(h, statsHandler, sessions, limiter, checker, m),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("symptom checker listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("symptom checker stopped")
}
