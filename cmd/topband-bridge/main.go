// Topband Bridge - Vendor Cloud Device Bridge
//
// This is the main entry point for the Topband bridge. The bridge signs
// in to the Topband vendor cloud, discovers the account's devices, opens
// a telemetry session against the vendor MQTT broker, and exposes the
// live device model through typed entity adapters and a diagnostics API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/topband-bridge/internal/api"
	"github.com/nerrad567/topband-bridge/internal/cloud"
	"github.com/nerrad567/topband-bridge/internal/device"
	"github.com/nerrad567/topband-bridge/internal/entity"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/config"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/database"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/topband-bridge/internal/transport"
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

// tokenRefreshInterval is how often the cloud token is checked for
// expiry while the bridge runs. The actual refresh only happens inside
// the configured margin.
const tokenRefreshInterval = 15 * time.Minute

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
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
	log.Info("starting Topband bridge",
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

	// Open database (token persistence only)
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

	// Cloud client with persistent token store
	tokenStore, err := cloud.NewTokenStore(db.DB)
	if err != nil {
		return fmt.Errorf("creating token store: %w", err)
	}

	cloudClient := cloud.NewClient(cfg.Cloud, tokenStore, log.With("component", "cloud"))
	if err := cloudClient.EnsureAuthenticated(ctx); err != nil {
		return fmt.Errorf("authenticating with cloud: %w", err)
	}
	log.Info("cloud authenticated")

	// Discover the account's devices
	familyID, err := cloudClient.FamilyID(ctx)
	if err != nil {
		return fmt.Errorf("resolving family: %w", err)
	}

	snapshots, err := cloudClient.Devices(ctx, familyID)
	if err != nil {
		return fmt.Errorf("fetching devices: %w", err)
	}
	log.Info("devices discovered", "family_id", familyID, "count", len(snapshots))

	// Open the vendor MQTT session. The broker authenticates with the
	// cloud access token, so this must come after EnsureAuthenticated.
	session, err := transport.Connect(cfg.MQTT, cloudClient.Token())
	if err != nil {
		return fmt.Errorf("connecting to vendor broker: %w", err)
	}
	defer func() {
		log.Info("disconnecting from vendor broker")
		if closeErr := session.Close(); closeErr != nil {
			log.Error("error closing MQTT session", "error", closeErr)
		}
	}()
	session.SetLogger(log.With("component", "transport"))
	session.SetOnConnect(func() {
		log.Info("vendor broker reconnected")
	})
	session.SetOnDisconnect(func(err error) {
		log.Warn("vendor broker disconnected", "error", err)
	})
	log.Info("vendor broker connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
	)

	// Build the device registry from the cloud snapshot
	registry := device.NewRegistry()
	registry.SetLogger(log)

	for _, snap := range snapshots {
		dev, buildErr := device.New(snap.Info, snap.Points, session, log)
		if buildErr != nil {
			return fmt.Errorf("building device %s: %w", snap.Info.MAC, buildErr)
		}
		if addErr := registry.Add(dev); addErr != nil {
			return fmt.Errorf("registering device %s: %w", snap.Info.MAC, addErr)
		}

		set := entity.FromDevice(dev)
		log.Info("entities built",
			"mac", dev.MAC,
			"water_heaters", len(set.WaterHeaters),
			"climates", len(set.Climates),
			"selects", len(set.Selects),
			"switches", len(set.Switches),
			"numbers", len(set.Numbers),
			"sensors", len(set.Sensors),
			"binary_sensors", len(set.BinarySensors),
		)
	}

	// Route inbound telemetry to the registry
	if err := subscribeDevices(session, registry, log); err != nil {
		return fmt.Errorf("subscribing to device topics: %w", err)
	}

	// Diagnostics API (optional)
	if cfg.API.Enabled {
		apiServer, apiErr := api.New(api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Logger:   log.With("component", "api"),
			Registry: registry,
			Version:  version,
		})
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			log.Info("stopping API server")
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, session); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Keep the cloud token fresh while the bridge runs
	go refreshTokens(ctx, cloudClient, log)

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (if enabled)
	// 2. MQTT session
	// 3. Database

	log.Info("Topband bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses TOPBAND_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TOPBAND_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// subscribeDevices subscribes the router to every topic the registry's
// devices report on. Devices sharing a gateway share its upload topic,
// so topics are deduplicated before subscribing.
func subscribeDevices(session *transport.Session, registry *device.Registry, log *logging.Logger) error {
	router := device.NewRouter(registry)
	router.SetLogger(log)

	topics := make(map[string]struct{})
	for _, dev := range registry.All() {
		topics[transport.Topics{}.DeviceBusiness(dev.ProductID, dev.Gateway.UID)] = struct{}{}
		topics[transport.Topics{}.GatewayUpload(dev.Gateway.ProductID, dev.Gateway.UID)] = struct{}{}
	}

	for topic := range topics {
		if err := session.Subscribe(topic, router.HandleMessage); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		log.Debug("subscribed", "topic", topic)
	}

	log.Info("device subscriptions established", "topics", len(topics))
	return nil
}

// refreshTokens periodically re-checks cloud token expiry until the
// context is cancelled. Failures are logged and retried on the next
// tick; the stored refresh token usually recovers on its own.
func refreshTokens(ctx context.Context, client *cloud.Client, log *logging.Logger) {
	ticker := time.NewTicker(tokenRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.EnsureAuthenticated(ctx); err != nil {
				log.Error("cloud token refresh failed", "error", err)
			}
		}
	}
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, session *transport.Session) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := session.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return nil
}
