// cmd/pipeline-manager/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recruiting-pipeline/internal/api"
	"recruiting-pipeline/internal/common/config"
	"recruiting-pipeline/internal/common/database"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/common/observability"
	"recruiting-pipeline/internal/orchestrator"
	"recruiting-pipeline/internal/pipeline"
	"recruiting-pipeline/internal/scheduler"
	"recruiting-pipeline/internal/scorecard"
	"recruiting-pipeline/internal/storage"
	"recruiting-pipeline/pkg/catalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting pipeline manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// ==========================================
	// INFRASTRUCTURE
	// ==========================================

	var pg *database.PostgresClient
	err = retryWithBackoff(5, 2*time.Second, func() error {
		var connErr error
		pg, connErr = database.NewPostgres(cfg.Database.Postgres)
		return connErr
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pg.Close()

	var rdb *database.RedisClient
	err = retryWithBackoff(5, 2*time.Second, func() error {
		var connErr error
		rdb, connErr = database.NewRedis(cfg.Database.Redis)
		return connErr
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	var es *database.ElasticsearchClient
	err = retryWithBackoff(5, 2*time.Second, func() error {
		var connErr error
		es, connErr = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if connErr != nil {
			return connErr
		}
		return es.Ping()
	})
	if err != nil {
		// Search is an enrichment; the funnel works without it.
		log.Warn("elasticsearch unavailable, search disabled", map[string]interface{}{"error": err.Error()})
		es = nil
	}

	// ==========================================
	// DOMAIN WIRING
	// ==========================================

	db := pg.GetDB()
	applications := storage.NewPostgresApplicationStore(db)
	interviews := storage.NewPostgresInterviewStore(db)
	scorecards := storage.NewPostgresScorecardStore(db)

	var templateStore storage.TemplateStore = storage.NewPostgresTemplateStore(db)
	if cfg.Pipeline.TemplateCatalog != "" {
		templateStore, err = catalog.NewFileTemplateStore(cfg.Pipeline.TemplateCatalog)
		if err != nil {
			zapLogger.Fatal("failed to load template catalog", zap.Error(err))
		}
		log.Info("serving templates from catalog file", map[string]interface{}{
			"path": cfg.Pipeline.TemplateCatalog,
		})
	}

	var index storage.ApplicationIndex
	if es != nil {
		index = storage.NewESApplicationIndex(es.Client, cfg.Database.Elasticsearch.Index)
	}

	templates, err := scorecard.NewTemplateClient(
		templateStore,
		rdb.GetClient(),
		time.Duration(cfg.Pipeline.TemplateCacheTTL)*time.Second,
		log,
	)
	if err != nil {
		zapLogger.Fatal("failed to build template client", zap.Error(err))
	}

	engine := scorecard.NewEngine(scorecards, interviews, templates, log)
	controller := pipeline.NewController(applications, log)
	sched := scheduler.NewScheduler(interviews, applications, log)

	orch := orchestrator.New(orchestrator.Deps{
		Applications: applications,
		Index:        index,
		Controller:   controller,
		Scheduler:    sched,
		Engine:       engine,
		Templates:    templates,
		Cache:        rdb.GetClient(),
		CacheTTL:     time.Duration(cfg.Pipeline.BoardCacheTTL) * time.Second,
		Obs:          obs,
		Logger:       log,
	})

	// ==========================================
	// SERVERS
	// ==========================================

	apiServer := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewServer(orch, log).Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Millisecond,
	}
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.HTTP.Address})
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.HTTP.MetricsAddress, Handler: metricsMux}
	go func() {
		log.Info("metrics server listening", map[string]interface{}{"address": cfg.HTTP.MetricsAddress})
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	// ==========================================
	// SHUTDOWN
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Warn("http shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Warn("metrics shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	log.Info("pipeline manager stopped", nil)
}

func retryWithBackoff(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(delay * time.Duration(i+1))
	}
	return err
}
