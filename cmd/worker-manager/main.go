// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"suggestion-workers/internal/common/cache"
	"suggestion-workers/internal/common/camunda"
	"suggestion-workers/internal/common/config"
	"suggestion-workers/internal/common/database"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/observability"
	"suggestion-workers/internal/providers/avoidance"
	"suggestion-workers/internal/providers/novelty"
	"suggestion-workers/internal/providers/preferences"
	"suggestion-workers/internal/providers/weather"
	"suggestion-workers/internal/ranking/filter"
	"suggestion-workers/internal/ranking/personalization"
	"suggestion-workers/internal/ranking/smartfilter"
	"suggestion-workers/internal/ranking/stats"

	ass "suggestion-workers/internal/workers/suggestions/aggregate-suggestion-stats"
	cps "suggestion-workers/internal/workers/suggestions/calculate-personalization-score"
	fs "suggestion-workers/internal/workers/suggestions/filter-suggestions"
	gsf "suggestion-workers/internal/workers/suggestions/generate-smart-filters"
	vfc "suggestion-workers/internal/workers/suggestions/validate-filter-criteria"
)

const serviceName = "suggestion-workers"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	obs := observability.New(serviceName, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", nil)

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()

	log.Info("datastores connected", nil)

	// --- Collaborators ---
	kv := cache.NewRedisCache(rdb.Client, "")
	weatherClient := weather.NewClient(cfg.APIs.Weather, log)
	prefStore := preferences.NewStore(pg.DB, kv, config.GetSeconds(cfg.Ranking.PreferenceCacheTTL), log)
	scorer := personalization.NewScorer(
		novelty.NewEngine(es.Client, cfg.Ranking.NoveltyIndex, log),
		avoidance.NewTracker(pg.DB, cfg.Ranking.AvoidanceWindowDays, log),
		log,
	)

	// --- Ranking core ---
	var pipelineOpts []filter.Option
	if cfg.Ranking.PersonalizePipeline {
		pipelineOpts = append(pipelineOpts, filter.WithPersonalizer(&filter.ScoringPersonalizer{
			Scorer:      scorer,
			Preferences: prefStore,
			Concurrency: cfg.Ranking.PersonalizationConcurrency,
		}))
	}
	pipeline := filter.NewPipeline(log, pipelineOpts...)

	generator := smartfilter.NewGenerator(kv, weatherClient, log,
		smartfilter.WithTTL(config.GetSeconds(cfg.Ranking.SmartFilterTTL)),
		smartfilter.WithDefaultRadius(cfg.Ranking.DefaultRadiusMeters),
		smartfilter.WithLocation(cfg.Ranking.Location()),
	)
	aggregator := stats.NewAggregator(cfg.Ranking.Location(), log)

	// --- Workers ---
	var workers []worker.JobWorker
	register := func(taskType string, handle worker.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		wc := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, handle, obs, log))
	}
	timeoutFor := func(taskType string, fallback time.Duration) time.Duration {
		if wc, ok := cfg.Workers[taskType]; ok && wc.Timeout > 0 {
			return config.GetDuration(wc.Timeout)
		}
		return fallback
	}

	fsCfg := fs.LoadConfig()
	fsCfg.Timeout = timeoutFor(fs.TaskType, fsCfg.Timeout)
	register(fs.TaskType, fs.NewHandler(fsCfg, pipeline, aggregator, log).Handle)

	gsfCfg := gsf.LoadConfig()
	gsfCfg.Timeout = timeoutFor(gsf.TaskType, gsfCfg.Timeout)
	register(gsf.TaskType, gsf.NewHandler(gsfCfg, generator, log).Handle)

	cpsCfg := cps.LoadConfig()
	cpsCfg.Timeout = timeoutFor(cps.TaskType, cpsCfg.Timeout)
	register(cps.TaskType, cps.NewHandler(cpsCfg, scorer, prefStore, log).Handle)

	assCfg := ass.LoadConfig()
	assCfg.Timeout = timeoutFor(ass.TaskType, assCfg.Timeout)
	register(ass.TaskType, ass.NewHandler(assCfg, aggregator, log).Handle)

	vfcCfg := vfc.LoadConfig()
	vfcCfg.Timeout = timeoutFor(vfc.TaskType, vfcCfg.Timeout)
	register(vfc.TaskType, vfc.NewHandler(vfcCfg, log).Handle)

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"weatherBreaker": weatherClient.BreakerState()}
		status := http.StatusOK
		for name, check := range map[string]func(context.Context) error{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"redis":         rdb.Ping,
			"elasticsearch": es.Ping,
		} {
			if err := check(checkCtx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		writeJSON(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, jw := range workers {
		jw.Close()
	}
	for _, jw := range workers {
		jw.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
