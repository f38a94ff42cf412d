// Command server runs the covera API: registration, login and life insurance
// recommendations. Backends are optional; without DATABASE_URL, REDIS_URL or
// KAFKA_BROKERS it runs entirely in memory, which is how local development
// and the test suite use it.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"covera/internal/audit"
	authhandler "covera/internal/auth/handler"
	authservice "covera/internal/auth/service"
	authstore "covera/internal/auth/store"
	"covera/internal/jwttoken"
	"covera/internal/platform/config"
	"covera/internal/platform/httpserver"
	"covera/internal/platform/logger"
	"covera/internal/platform/postgres"
	"covera/internal/platform/redis"
	"covera/internal/ratelimit"
	"covera/internal/recommendation"
	rechandler "covera/internal/recommendation/handler"
	"covera/internal/recommendation/metrics"
	recservice "covera/internal/recommendation/service"
	recstore "covera/internal/recommendation/store"
	"covera/internal/recommendation/store/cache"
	httptransport "covera/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres, or in-memory when unconfigured.
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}

	var (
		userStore  authservice.UserStore
		recStore   recservice.Store
		auditStore audit.Store
	)
	if db != nil {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		userStore = authstore.NewPostgres(db)
		recStore = recstore.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
		log.Info("postgres connected")
	} else {
		userStore = authstore.NewInMemory()
		recStore = recstore.NewInMemory()
		auditStore = audit.NewInMemoryStore()
		log.Warn("no DATABASE_URL set, using in-memory stores")
	}

	// Redis cache for the latest recommendation. Optional.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}

	// Kafka sink for audit events. Optional.
	kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Error("kafka unavailable", "error", err)
		os.Exit(1)
	}

	publisher := audit.NewPublisher(256, log)
	var sink audit.Sink
	if kafkaSink != nil {
		sink = kafkaSink
		defer kafkaSink.Close()
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.Topic)
	}
	worker := audit.NewWorker(auditStore, sink, publisher.Inbox(), log)

	tokens := jwttoken.New(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTokenTTL)

	authSvc, err := authservice.New(userStore, tokens, log, authservice.WithAuditor(publisher))
	if err != nil {
		log.Error("auth service init failed", "error", err)
		os.Exit(1)
	}

	recOpts := []recservice.Option{
		recservice.WithAuditor(publisher),
		recservice.WithMetrics(metrics.New()),
	}
	if redisClient != nil {
		recOpts = append(recOpts, recservice.WithCache(cache.New(redisClient.Client, cache.DefaultTTL)))
		defer redisClient.Close()
		log.Info("redis cache enabled")
	}

	recSvc, err := recservice.New(
		recommendation.NewEngine(recommendation.DefaultPricingPolicy()),
		recStore,
		log,
		recOpts...,
	)
	if err != nil {
		log.Error("recommendation service init failed", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(
		ratelimit.NewBucket(cfg.RateLimit.Requests, cfg.RateLimit.Window),
		log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:            authhandler.New(authSvc, log),
		Recommendations: rechandler.New(recSvc, log),
		TokenValidator:  tokens,
		RateLimit:       limiter,
		Logger:          log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
