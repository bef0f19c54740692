package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/symptomcheck/pkg/catalog"
	"github.com/synaptica-ai/symptomcheck/pkg/common/config"
	"github.com/synaptica-ai/symptomcheck/pkg/common/database"
	"github.com/synaptica-ai/symptomcheck/pkg/common/kafka"
	"github.com/synaptica-ai/symptomcheck/pkg/common/logger"
	"github.com/synaptica-ai/symptomcheck/pkg/dlp"
	"github.com/synaptica-ai/symptomcheck/pkg/gateway/middleware"
	"github.com/synaptica-ai/symptomcheck/pkg/llm"
	"github.com/synaptica-ai/symptomcheck/pkg/observability/metrics"
	"github.com/synaptica-ai/symptomcheck/pkg/prediction"
	"github.com/synaptica-ai/symptomcheck/pkg/storage"
)

func main() {
	logger.Init("symptom-service")
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load symptom catalog")
	}
	if missing := cat.Validate(); len(missing) > 0 {
		logger.Log.WithField("conditions", missing).Warn("Conditions without display metadata; fallback text will be used")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ts := llm.TokenSource(ctx, llm.AuthConfig{
		APIKey:       cfg.LLMAPIKey,
		TokenURL:     cfg.LLMTokenURL,
		ClientID:     cfg.LLMClientID,
		ClientSecret: cfg.LLMClientSecret,
	})
	modelClient := llm.NewHTTPClient(ts, cfg.ModelTimeout)

	var generator prediction.Generator
	if ts != nil {
		generator = llm.NewGenerativeEngine(modelClient, cfg.LLMBaseURL, cfg.LLMModelName, cfg.ModelRetryAttempts, cat.Conditions())
	} else {
		logger.Log.Warn("No model credentials configured; generative engine disabled")
	}

	var classifier prediction.Classifier
	if cfg.ZeroShotURL != "" {
		classifier = llm.NewZeroShotEngine(modelClient, cfg.ZeroShotURL, cat.Conditions(), cfg.ModelRetryAttempts)
	}

	redisClient := database.GetRedis(cfg)
	defer database.CloseRedis()
	cache := storage.NewResultCache(redisClient, cfg.PredictionCacheTTL)

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.PredictionTopic)
	defer producer.Close()

	rules, err := dlp.LoadRules(cfg.RedactionRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load redaction rules")
	}
	redactor, err := dlp.NewRedactor(rules)
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid redaction rule")
	}

	svc := prediction.NewService(cat, generator, classifier, cache, producer).WithRedactor(redactor)
	handler := prediction.NewHTTPHandler(svc, cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.CORS)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	handler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":     cfg.ServerHost,
			"port":     cfg.ServerPort,
			"symptoms": cat.Symptoms.Len(),
		}).Info("Symptom Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down Symptom Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Symptom Service stopped")
}
