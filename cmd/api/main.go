package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/report-vault/internal/application"
	appai "github.com/bryanwahyu/report-vault/internal/application/ai"
	appauth "github.com/bryanwahyu/report-vault/internal/application/auth"
	appreports "github.com/bryanwahyu/report-vault/internal/application/reports"
	"github.com/bryanwahyu/report-vault/internal/config"
	"github.com/bryanwahyu/report-vault/internal/domain/activity"
	domreports "github.com/bryanwahyu/report-vault/internal/domain/reports"
	"github.com/bryanwahyu/report-vault/internal/infra/ai/openai"
	"github.com/bryanwahyu/report-vault/internal/infra/credstore"
	mysqlp "github.com/bryanwahyu/report-vault/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/report-vault/internal/infra/db/postgres"
	"github.com/bryanwahyu/report-vault/internal/infra/httpserver"
	filestore "github.com/bryanwahyu/report-vault/internal/infra/store/file"
	mongostore "github.com/bryanwahyu/report-vault/internal/infra/store/mongo"
	minioStore "github.com/bryanwahyu/report-vault/internal/infra/storage"
	"github.com/bryanwahyu/report-vault/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{}

	// select report backend
	var backend domreports.Backend
	switch cfg.Storage.Backend {
	case "mongodb":
		repo := mongostore.NewReportRepository(ctx, cfg.MongoURI(), cfg.Storage.MongoDB.Database)
		if !repo.Connected() {
			log.Printf("warning: document store unreachable, operations will fail closed")
		}
		defer repo.Close(context.Background())
		checkers["mongodb"] = &middleware.BackendHealthChecker{Backend: repo}
		backend = repo
	default:
		backend = filestore.NewReportRepository(cfg.Storage.File.Dir)
	}

	// credential store + session manager
	creds := credstore.New(cfg.Auth.UsersFile)
	sessionTimeout := time.Duration(cfg.Auth.SessionTimeoutSeconds) * time.Second

	// optional activity log
	var auditRepo activity.Repository
	switch cfg.Activity.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Printf("warning: activity log disabled, mysql connect error: %v", err)
		} else {
			defer db.Close()
			checkers["activity_db"] = &middleware.DatabaseHealthChecker{DB: db}
			auditRepo = mysqlp.NewActivityRepository(db)
		}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Printf("warning: activity log disabled, postgres connect error: %v", err)
		} else {
			defer db.Close()
			checkers["activity_db"] = &middleware.DatabaseHealthChecker{DB: db}
			auditRepo = postgresp.NewActivityRepository(db)
		}
	}

	sessions := appauth.NewManager(creds, auditRepo, application.SystemClock{}, sessionTimeout)

	// optional archive mirror
	var archive domreports.ArchiveStore
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Printf("warning: archive disabled, minio init error: %v", err)
		} else {
			archive = store
		}
	}

	// report store facade
	svc := appreports.NewService(backend, archive, application.SystemClock{})

	// optional AI summarizer
	var aiSvc *appai.Service
	if cfg.AI.APIKey != "" {
		aiSvc = appai.NewService(openai.NewClient(cfg.AI.APIKey, cfg.AI.Model))
	} else {
		aiSvc = appai.NewService(nil)
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	// session auth runs first so the logging and rate-limit layers see the
	// resolved username in the request context
	mux.Use(middleware.SessionAuth(sessions))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(60, 10))
	mux.Mount("/", httpserver.NewRouter(svc, sessions, aiSvc, auditRepo, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s (backend=%s)", addr, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
