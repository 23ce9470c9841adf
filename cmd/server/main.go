package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	authhandler "refgate/internal/auth/handler"
	"refgate/internal/deeplink"
	"refgate/internal/events"
	"refgate/internal/identity"
	"refgate/internal/jwttoken"
	"refgate/internal/platform/config"
	"refgate/internal/platform/httpserver"
	"refgate/internal/platform/logger"
	"refgate/internal/platform/postgres"
	platformredis "refgate/internal/platform/redis"
	referralhandler "refgate/internal/referral/handler"
	"refgate/internal/referral/metrics"
	"refgate/internal/referral/service"
	"refgate/internal/referral/store"
	"refgate/internal/referral/validation"
	httptransport "refgate/internal/transport/http"
)

// main wires dependencies explicitly and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	referrals, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	validator, err := validation.New(referrals,
		validation.WithLogger(log),
		validation.WithMaxConversions(cfg.MaxConversionsPerDay),
	)
	if err != nil {
		log.Error("validator init failed", "error", err)
		os.Exit(1)
	}

	resolver := identity.NewHTTPResolver(cfg.UserServiceURL, nil)
	provider := buildDeepLinkProvider(cfg)

	m := metrics.New()
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
	}

	publisher, stopEvents := buildEvents(ctx, cfg, log)
	if publisher != nil {
		opts = append(opts, service.WithEventPublisher(publisher))
	}
	defer stopEvents()

	svc, err := service.New(referrals, resolver, validator, provider, opts...)
	if err != nil {
		log.Error("service init failed", "error", err)
		os.Exit(1)
	}

	tokens := jwttoken.New(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := httptransport.NewRouter(httptransport.RouterParams{
		Referrals:           referralhandler.New(svc, log),
		Auth:                authhandler.New(tokens, cfg.IsDevelopment(), log),
		JWTValidator:        tokens,
		ServerSignatureHash: cfg.ServerSignatureHash,
		Logger:              log,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting refgate", "addr", cfg.Addr, "env", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildStore selects the referral store backing: postgres when a DSN is
// configured, redis as the next choice, in-memory otherwise.
func buildStore(ctx context.Context, cfg config.Server) (store.ReferralStore, func(), error) {
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(db), func() { _ = db.Close() }, nil
	}
	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client.Client), func() { _ = client.Close() }, nil
	}
	return store.NewInMemoryStore(), func() {}, nil
}

func buildDeepLinkProvider(cfg config.Server) deeplink.Provider {
	if cfg.DeepLinkAPIURL != "" {
		return deeplink.NewHTTPProvider(cfg.DeepLinkAPIURL, cfg.DeepLinkAPIKey, nil)
	}
	return deeplink.NewStaticProvider(cfg.DeepLinkBase)
}

// buildEvents wires the conversion event pipeline when Kafka is
// configured. Returns a nil publisher otherwise; conversions work without
// event fan-out.
func buildEvents(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Publisher, func()) {
	if cfg.KafkaBrokers == "" {
		return nil, func() {}
	}

	client, err := events.NewKafkaClient(strings.Split(cfg.KafkaBrokers, ","))
	if err != nil {
		log.Error("kafka init failed, events disabled", "error", err)
		return nil, func() {}
	}

	sink := events.NewKafkaSink(client, cfg.KafkaTopic)
	publisher := events.NewChannelPublisher(cfg.EventBuffer, log)
	worker := events.NewWorker(sink, publisher.Inbox(), log)

	workerCtx, cancel := context.WithCancel(ctx)
	go func() { _ = worker.Run(workerCtx) }()

	return publisher, func() {
		publisher.Close()
		cancel()
		sink.Close()
	}
}
