package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/broadcast"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/classifier"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/config"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/database"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/metrics"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/pipeline"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/relay"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/timeseries"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the plant monitoring server",
	Long:  `Start the HTTP API, the live WebSocket channel and the optional MQTT relay and InfluxDB mirror.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	dbManager, err := database.NewDatabaseManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.New()
	hub := broadcast.NewHub(dbManager, broadcast.WithCountHook(m.SetSubscribers))
	model := classifier.Load(cfg.Model.Path)
	service := pipeline.NewService(dbManager, hub, model, cfg.Thresholds, pipeline.WithRecorder(m))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.MQTT.Enabled() {
		client, err := relay.Connect(cfg.MQTT)
		if err != nil {
			return err
		}
		r := relay.New(client, cfg.MQTT.TopicPrefix, service)
		if err := r.Start(); err != nil {
			return err
		}
		defer r.Stop()
		hub.Attach(r)
		defer hub.Detach(r)
	}

	if cfg.Influx.Enabled() {
		influx, writer := timeseries.Connect(cfg.Influx)
		defer influx.Close()

		mirror := timeseries.NewMirror(writer, cfg.Influx.Measurement)
		go mirror.Run(ctx)
		hub.Attach(mirror)
		defer hub.Detach(mirror)
		log.Printf("✓ Mirroring live events to InfluxDB bucket %s", cfg.Influx.Bucket)
	}

	// Setup Router
	routeManager := NewRouteManager(service, dbManager, hub, m, cfg.Server.AllowedOrigins)
	routeManager.Setup()

	addr := ":" + cfg.Server.Port

	// WriteTimeout does not apply to hijacked WebSocket connections
	server := &http.Server{
		Handler:      routeManager.Router,
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received")

		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting plant monitoring server on %s...", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
