// Command web starts the Wave front end: an HTTP server offering a search
// page, a JSON API proxying the Wave search and thumbnail endpoints, bookmarks
// stored in SQLite and Prometheus metrics. Configuration is provided via
// environment variables, optionally from a .env file.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"Wave-Go/pkg/db"
	"Wave-Go/pkg/handlers"
	"Wave-Go/pkg/wave"
)

func main() {
	if err := loadDotEnv(".env"); err != nil {
		log.WithError(err).Fatal("load .env")
	}
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// DATABASE_PATH allows the SQLite file to be customised.
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.DatabasePath).Fatal("db init")
	}
	defer database.Close()

	app := newApplication(cfg, reg, database)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Routes(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.WithFields(log.Fields{"addr": cfg.Addr, "wave": cfg.WaveBaseURL}).Info("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("http server error")
	}
}

// newApplication wires the Wave client, its metrics and the database into the
// handler dependencies.
func newApplication(cfg config, reg prometheus.Registerer, database *db.DB) *handlers.Application {
	client := &wave.Client{
		BaseURL: cfg.WaveBaseURL,
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Logger:  log.StandardLogger(),
		Metrics: wave.NewMetrics(reg),
	}
	return &handlers.Application{
		Wave:  client,
		Music: wave.Service{Client: client},
		DB:    database,
	}
}
