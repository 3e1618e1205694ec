// ==============================================================================
// VERIFICATION SERVICE - cmd/verid/main.go
// ==============================================================================
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"verid/internal/export"
	"verid/internal/gateway"
	"verid/internal/handler"
	"verid/internal/middleware"
	"verid/internal/pipeline"
	"verid/internal/repository/postgres"
	"verid/internal/session"
	"verid/pkg/cache"
	"verid/pkg/config"
	"verid/pkg/logger"
	"verid/pkg/mailer"
	"verid/pkg/validator"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("verid")

	log.Info("Starting verification service", map[string]interface{}{
		"port":     cfg.Server.Port,
		"upstream": cfg.Upstream.BaseURL,
	})

	redisCache, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redisCache.Close()

	// The database is optional: without it runs are simply not audited.
	var runRepo *postgres.VerificationRunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal("Failed to connect to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		defer db.Close()

		runRepo = postgres.NewVerificationRunRepository(db)
		log.Info("Run auditing enabled", nil)
	} else {
		log.Warn("DATABASE_URL not set, run auditing disabled", nil)
	}

	gwClient := gateway.New(gateway.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		RequestTimeout: cfg.Upstream.RequestTimeout,
		RetryMax:       cfg.Upstream.RetryMax,
	}, log)

	pdfWriter := export.NewPDFWriter()
	excelWriter := export.NewExcelWriter()

	var emailSender pipeline.EmailSender
	switch cfg.Email.Strategy {
	case "smtp":
		emailSender = pipeline.NewSMTPEmailSender(mailer.New(mailer.Config{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.SMTPFrom,
			UseTLS:   cfg.Email.SMTPUseTLS,
		}))
	case "gateway":
		emailSender = pipeline.NewGatewayEmailSender(gwClient)
	default:
		log.Warn("Unknown email strategy, report delivery disabled", map[string]interface{}{
			"strategy": cfg.Email.Strategy,
		})
	}

	var recorder pipeline.Recorder
	if runRepo != nil {
		recorder = runRepo
	}
	pipe := pipeline.New(gwClient, pdfWriter, emailSender, recorder, log)
	controller := pipeline.NewController(pipe)

	sessions := session.NewStore(redisCache, cfg.Session.TTL, cfg.Session.ProfileTTL)
	val := validator.New()

	verifyHandler := handler.NewVerifyHandler(controller, sessions, val, log)
	exportHandler := handler.NewExportHandler(sessions, excelWriter, pdfWriter, emailSender, log)
	sessionHandler := handler.NewSessionHandler(sessions, val, log)
	wsHandler := handler.NewWSHandler(controller, sessions, val, log)
	healthHandler := handler.NewHealthHandler(version)

	var historyRepo handler.HistoryRepository
	if runRepo != nil {
		historyRepo = runRepo
	}
	historyHandler := handler.NewHistoryHandler(historyRepo, log)

	r := mux.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(middleware.BodyLimit(1 << 20))

	rateLimiter := middleware.NewRateLimiter(redisCache.Client(), 30, time.Minute)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/ws/verify/{tier}", wsHandler.Verify).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(rateLimiter.Limit)
	api.HandleFunc("/verify/{tier}", verifyHandler.Verify).Methods("POST")
	api.HandleFunc("/profile", verifyHandler.Reset).Methods("DELETE")
	api.HandleFunc("/profile/export", exportHandler.Export).Methods("GET")
	api.HandleFunc("/profile/email", exportHandler.Email).Methods("POST")
	api.HandleFunc("/session", sessionHandler.Put).Methods("PUT")
	api.HandleFunc("/session", sessionHandler.Get).Methods("GET")
	api.HandleFunc("/verifications", historyHandler.List).Methods("GET")
	api.HandleFunc("/verifications/stats", historyHandler.Stats).Methods("GET")

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Verification service started", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down verification service...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Verification service forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Verification service stopped gracefully", nil)
}
