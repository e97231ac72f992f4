package main

import (
	"context"
	"net/http"

	"filmograph/internal/logging"
	"filmograph/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.New(logging.Config{}).Fatal(err, "load config")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetGlobalLogger(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err, "connect to database")
	}
	defer db.Close()

	dataStore := store.New(db)

	if err := seedReferenceData(context.Background(), db); err != nil {
		logger.Fatal(err, "seed reference data")
	}

	handler := newHTTPHandler(cfg, dataStore)

	logger.Info("API listening on " + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal(err, "server error")
	}
}
