package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/phuslu/log"

	"github.com/uptrade-media/audit-engine/internal/application"
	appai "github.com/uptrade-media/audit-engine/internal/application/ai"
	appaudits "github.com/uptrade-media/audit-engine/internal/application/audits"
	"github.com/uptrade-media/audit-engine/internal/config"
	domai "github.com/uptrade-media/audit-engine/internal/domain/ai"
	"github.com/uptrade-media/audit-engine/internal/domain/auditerrors"
	domain "github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/domain/insights"
	openaiClient "github.com/uptrade-media/audit-engine/internal/infra/ai/openai"
	"github.com/uptrade-media/audit-engine/internal/infra/analyzers/fetch"
	pageAnalyzer "github.com/uptrade-media/audit-engine/internal/infra/analyzers/page"
	"github.com/uptrade-media/audit-engine/internal/infra/analyzers/pagespeed"
	pwaAnalyzer "github.com/uptrade-media/audit-engine/internal/infra/analyzers/pwa"
	mysqlp "github.com/uptrade-media/audit-engine/internal/infra/db/mysql"
	postgresp "github.com/uptrade-media/audit-engine/internal/infra/db/postgres"
	"github.com/uptrade-media/audit-engine/internal/infra/httpserver"
	"github.com/uptrade-media/audit-engine/internal/infra/notify"
	"github.com/uptrade-media/audit-engine/internal/infra/reaper"
	minioStore "github.com/uptrade-media/audit-engine/internal/infra/storage"
	"github.com/uptrade-media/audit-engine/internal/middleware"
)

func main() {
	log.DefaultLogger = log.Logger{
		Level:      log.InfoLevel,
		TimeFormat: time.RFC3339,
		Writer:     &log.IOWriter{Writer: os.Stderr},
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	db, auditRepo, insightRepo, errorRepo, err := connectDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database connect error")
	}
	defer db.Close()

	// report artifact store is optional; audits still complete without it
	var reports domain.ReportStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio init error")
		}
		reports = store
	}

	// narrative client is optional too
	var aiClient domai.Client
	if cfg.OpenAI.APIKey != "" {
		aiClient = openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
	aiSvc := appai.NewService(aiClient, insightRepo)

	pages := fetch.NewCache(cfg.FetchTimeout())

	svc := &appaudits.Service{
		Repo:        auditRepo,
		Errors:      errorRepo,
		Insights:    aiSvc,
		Performance: pagespeed.New(cfg.PageSpeed.BaseURL, cfg.PageSpeed.APIKey, cfg.PageSpeedTimeout()),
		Page:        pageAnalyzer.New(pages),
		Pwa:         pwaAnalyzer.New(pages),
		Reports:     reports,
		Notifier:    notify.NewLogNotifier(),
		Clock:       application.SystemClock{},
	}

	rp := reaper.New(svc, cfg.StaleAfter(), cfg.ReapEvery())
	if err := rp.Start(); err != nil {
		log.Fatal().Err(err).Msg("reaper start error")
	}
	defer rp.Stop()

	health := middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	})

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
		mux.Use(middleware.RequireValidTenant)
	}
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}
	mux.Mount("/", httpserver.NewRouter(svc, aiSvc, errorRepo, health))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
		// audits run synchronously inside the request, so the write timeout
		// has to cover a full pipeline run
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, insights.Repository, auditerrors.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return db, postgresp.NewAuditRepository(db), postgresp.NewInsightRepository(db), postgresp.NewAuditErrorRepository(db), nil
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return db, mysqlp.NewAuditRepository(db), mysqlp.NewInsightRepository(db), mysqlp.NewAuditErrorRepository(db), nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
