package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/bbstore/credit-service/internal/config"
	"github.com/bbstore/credit-service/internal/handler"
	"github.com/bbstore/credit-service/internal/integrations/bcb"
	"github.com/bbstore/credit-service/internal/jobs"
	"github.com/bbstore/credit-service/internal/repository"
	"github.com/bbstore/credit-service/internal/service"
	"github.com/bbstore/credit-service/internal/storage/memory"
	"github.com/bbstore/credit-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	var store service.Store
	if cfg.DBConn != "" {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		store = repository.NewRepository(db)
	} else {
		logger.Warn("DB_CONN not set, using in-memory store")
		store = memory.NewStore()
	}

	// Initialize layers
	svc := service.NewService(store, logger, cfg)
	h := handler.NewHandler(svc, logger)
	bcbClient := bcb.NewClient(cfg, logger)

	// Schedule installment reminders when SMTP is configured
	if cfg.MailEnabled() {
		reminder := jobs.NewReminder(store, email.NewSender(cfg, logger), logger)
		if err := reminder.Start(); err != nil {
			logger.Fatalf("Failed to start reminder job: %v", err)
		}
		defer reminder.Stop()
	}

	// Setup router
	r := handler.NewRouter(h, cfg)
	// BCB reference rate endpoint
	r.HandleFunc("/reference-rate", func(w http.ResponseWriter, req *http.Request) {
		rate, err := bcbClient.GetReferenceRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get reference rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"reference_rate": rate})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
