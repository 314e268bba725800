// escposd bridges ESC/POS receipt printers to Home Assistant.
//
// It listens for print commands over MQTT, exposes a REST API and WebSocket
// event stream, and drives network, USB, serial, and CUPS printers with
// codepage-aware text rendering, QR codes, barcodes, and raster images.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/cognitivegears/ha-escpos-thermal-printer/migrations"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/api"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/bridge"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/config"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/database"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/influxdb"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/logging"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/mqtt"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting escposd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise printer registry
	printerRepo := printer.NewSQLiteRepository(db.DB)
	registry := printer.NewRegistry(printerRepo)
	registry.SetLogger(log)

	if refreshErr := registry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading printer registry: %w", refreshErr)
	}
	log.Info("printer registry initialised", "printers", registry.Count())

	// Image fetcher enforces the local path allow-list and size cap
	fetcher := printer.NewImageFetcher(cfg.Images.AllowedPaths, int64(cfg.Images.MaxBytes))

	// Printer manager owns one adapter per printer
	manager := printer.NewManager(registry, fetcher, log)
	manager.SetDefaults(printer.Defaults{
		Codepage:  cfg.Defaults.Codepage,
		LineWidth: cfg.Defaults.LineWidth,
		Timeout:   cfg.Defaults.Timeout,
		Align:     cfg.Defaults.Align,
		Cut:       cfg.Defaults.Cut,
	})
	defer func() {
		log.Info("stopping printer adapters")
		manager.Close()
	}()

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		// Record online/offline transitions as gauge points
		manager.OnStatus(func(printerID string, online bool) {
			influxClient.WritePrinterStatus(printerID, online, 0)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Job recorder persists history and forwards metrics
	var metrics history.MetricsWriter
	if influxClient != nil {
		metrics = influxClient
	}
	jobs := history.NewRepository(db.DB)
	recorder := history.NewRecorder(jobs, metrics, log, history.DefaultRetain)

	// Connect to MQTT broker and start the command bridge (if enabled)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		printerBridge := bridge.New(mqttClient, registry, manager, recorder, cfg.MQTT, log)
		if startErr := printerBridge.Start(ctx); startErr != nil {
			return fmt.Errorf("starting MQTT bridge: %w", startErr)
		}
		log.Info("MQTT bridge started")
	} else {
		log.Info("MQTT disabled")
	}

	// Start status polling for printers that configure an interval
	manager.StartAll(ctx)

	// Start the REST API and WebSocket server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log,
		Registry: registry,
		Manager:  manager,
		Recorder: recorder,
		Jobs:     jobs,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. Printer adapters
	// 5. Database

	log.Info("escposd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ESCPOS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ESCPOS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheckTimeout bounds the startup health check pass.
const healthCheckTimeout = 10 * time.Second

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
