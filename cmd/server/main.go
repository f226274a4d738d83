// Command server runs the voice feedback platform: session lifecycle over
// HTTP, the completion pipeline, and the outbound event feed. All backends
// are optional; without Redis, Postgres, or Kafka configured the process
// serves from memory stores, which is the single-instance pilot topology.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocilia/internal/business"
	businesshandler "vocilia/internal/business/handler"
	"vocilia/internal/events"
	eventsmetrics "vocilia/internal/events/metrics"
	"vocilia/internal/fraud"
	"vocilia/internal/fraud/device"
	fraudmetrics "vocilia/internal/fraud/metrics"
	"vocilia/internal/fraud/store/burst"
	"vocilia/internal/fraud/store/contentindex"
	"vocilia/internal/fraud/store/deviceusage"
	"vocilia/internal/fraud/store/geohistory"
	"vocilia/internal/platform/config"
	"vocilia/internal/platform/httpserver"
	"vocilia/internal/platform/logger"
	"vocilia/internal/platform/postgres"
	"vocilia/internal/platform/redis"
	"vocilia/internal/reward"
	rewardmetrics "vocilia/internal/reward/metrics"
	"vocilia/internal/reward/store/usage"
	"vocilia/internal/scoring"
	scoringmetrics "vocilia/internal/scoring/metrics"
	"vocilia/internal/session"
	sessionhandler "vocilia/internal/session/handler"
	sessionmetrics "vocilia/internal/session/metrics"
	"vocilia/internal/tier"
	httptransport "vocilia/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional backends. A nil client means the memory implementation serves.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("opening postgres: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	// Business context and tier policy are read-only lookups; the cache
	// keeps per-completion reads off Postgres.
	var businessStore business.ContextStore = business.NewInMemoryContextStore()
	var tierStore tier.PolicyStore = tier.NewInMemoryPolicyStore()
	if db != nil {
		businessStore = business.NewCachedContextStore(business.NewPostgresContextStore(db), config.ContextCacheTTL)
		tierStore = tier.NewCachedPolicyStore(tier.NewPostgresPolicyStore(db), config.ContextCacheTTL)
	}

	// Fraud signal stores. Device and burst counters must be shared across
	// instances, so they flip to Redis when it is configured.
	var deviceUsage fraud.DeviceUsageStore = deviceusage.NewInMemoryStore()
	var bursts fraud.BurstStore = burst.NewInMemoryStore()
	if redisClient != nil {
		deviceUsage = deviceusage.NewRedisStore(redisClient.Client)
		bursts = burst.NewRedisStore(redisClient.Client)
	}

	deviceSignal, err := fraud.NewDeviceSignal(deviceUsage, device.NewService(true), fraud.DefaultDeviceLimits())
	if err != nil {
		return fmt.Errorf("building device signal: %w", err)
	}
	temporalSignal, err := fraud.NewTemporalSignal(bursts, fraud.DefaultBurstLimit, fraud.DefaultBurstWindow)
	if err != nil {
		return fmt.Errorf("building temporal signal: %w", err)
	}
	contentSignal, err := fraud.NewContentSignal(contentindex.NewInMemoryIndex(0), 0)
	if err != nil {
		return fmt.Errorf("building content signal: %w", err)
	}
	geoSignal, err := fraud.NewGeoSignal(fraud.NewStaticLocationResolver(), geohistory.NewInMemoryStore(), 0)
	if err != nil {
		return fmt.Errorf("building geo signal: %w", err)
	}

	assessor, err := fraud.New(
		[]fraud.SignalSource{deviceSignal, temporalSignal, contentSignal, geoSignal, fraud.NewVoiceSignal()},
		fraud.WithLogger(log),
		fraud.WithMetrics(fraudmetrics.New()),
	)
	if err != nil {
		return fmt.Errorf("building fraud assessor: %w", err)
	}

	scorer := scoring.NewEngine(
		scoring.WithLogger(log),
		scoring.WithMetrics(scoringmetrics.New()),
	)

	var usageStore reward.UsageStore = usage.NewInMemoryStore()
	if redisClient != nil {
		usageStore, err = usage.NewRedisStore(redisClient.Client)
		if err != nil {
			return fmt.Errorf("building usage store: %w", err)
		}
	}
	calculator, err := reward.NewCalculator(reward.DefaultPercentagePolicy(), usageStore,
		reward.WithLogger(log),
		reward.WithMetrics(rewardmetrics.New()),
	)
	if err != nil {
		return fmt.Errorf("building reward calculator: %w", err)
	}

	// Event feed. With brokers configured, sessions emit into a buffered
	// channel and a worker drains it to Kafka so delivery never blocks a
	// turn. Without brokers the feed lands in a process-local store.
	evMetrics := eventsmetrics.New()
	var publisher events.Publisher
	var workerDone chan struct{}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			events.WithKafkaLogger(log),
			events.WithKafkaMetrics(evMetrics),
		)
		if err != nil {
			return fmt.Errorf("connecting kafka: %w", err)
		}
		if err := kafkaPub.EnsureTopic(ctx, 3, 1); err != nil {
			return fmt.Errorf("ensuring kafka topic: %w", err)
		}

		channel := events.NewChannelPublisher(0,
			events.WithChannelLogger(log),
			events.WithChannelMetrics(evMetrics),
		)
		worker, err := events.NewWorker(kafkaPub, channel.Inbox(),
			events.WithWorkerLogger(log),
			events.WithWorkerMetrics(evMetrics),
		)
		if err != nil {
			return fmt.Errorf("building event worker: %w", err)
		}

		workerDone = make(chan struct{})
		go func() {
			defer close(workerDone)
			_ = worker.Run(ctx)
		}()
		publisher = channel
	} else {
		publisher, err = events.NewStorePublisher(events.NewInMemoryStore())
		if err != nil {
			return fmt.Errorf("building event store: %w", err)
		}
	}

	// Session core.
	tokens, err := session.NewTokenIssuer(cfg.JWTSigningKey, "vocilia", cfg.Session.TurnTokenTTL)
	if err != nil {
		return fmt.Errorf("building token issuer: %w", err)
	}

	sessMetrics := sessionmetrics.New()
	pipeline, err := session.NewPipeline(scorer, assessor, calculator, businessStore, tierStore,
		session.WithPipelineLogger(log),
		session.WithPipelineMetrics(sessMetrics),
	)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	manager, err := session.NewManager(session.NewInMemoryStore(), businessStore, pipeline, tokens,
		session.WithLogger(log),
		session.WithMetrics(sessMetrics),
		session.WithEvents(publisher),
		session.WithTimeouts(session.Timeouts{
			SilenceWarning: cfg.Session.SilenceWarning,
			Abandon:        cfg.Session.AbandonAfter,
			Ceiling:        cfg.Session.SessionCeiling,
		}),
		session.WithMaxTranscriptTurns(cfg.Session.MaxTranscriptTurns),
	)
	if err != nil {
		return fmt.Errorf("building session manager: %w", err)
	}

	// HTTP surface.
	handlers := []httptransport.Registrar{
		sessionhandler.New(manager, tokens, log),
		businesshandler.New(businessStore, log),
	}
	var checks []httptransport.ReadyCheck
	if redisClient != nil {
		checks = append(checks, redisClient.Health)
	}
	if db != nil {
		checks = append(checks, db.PingContext)
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handlers, checks...))

	serveErr := make(chan error, 1)
	go func() {
		log.Info("vocilia listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	// The worker drains buffered events after cancellation; wait for it
	// before flushing the producer.
	if workerDone != nil {
		<-workerDone
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(shutdownCtx); err != nil {
			log.Error("kafka flush failed", "error", err)
		}
	}
	return nil
}
