package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/in/auth"
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/riderrepo"
	"fulfillment/internal/adapters/out/redisbus"
	"fulfillment/internal/adapters/out/routing"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

func main() {
	config := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db := mustOpenDatabase(config)

	verifier, err := auth.NewTokenVerifier(config.JWTSecret)
	if err != nil {
		log.Fatalf("Invalid auth configuration: %v", err)
	}

	feeCalculator := buildFeeCalculator(config, logger)

	hub := ws.NewHub(logger)
	eventBus := buildEventBus(config, hub, logger)

	root := cmd.NewCompositionRoot(db, feeCalculator, eventBus, logger)

	jobManager := root.CreateJobManager(config)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, config, verifier, ws.NewHandler(hub, verifier, logger))
}

func getConfigs() cmd.Config {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:          envOr("HTTP_PORT", "8080"),
		DBHost:            envOr("DB_HOST", "localhost"),
		DBPort:            envOr("DB_PORT", "5432"),
		DBUser:            envOr("DB_USER", "postgres"),
		DBPassword:        envOr("DB_PASSWORD", "postgres"),
		DBName:            envOr("DB_NAME", "fulfillment"),
		DBSslMode:         envOr("DB_SSLMODE", "disable"),
		JWTSecret:         envOr("JWT_SECRET", ""),
		FeeTiers:          envOr("FEE_TIERS", "0-3:49,3-6:69,6-10:89"),
		RoutingURL:        envOr("ROUTING_URL", "http://localhost:5000"),
		RoutingTimeout:    durationOr("ROUTING_TIMEOUT", 5*time.Second),
		RedisAddr:         envOr("REDIS_ADDR", ""),
		RedisChannel:      envOr("REDIS_CHANNEL", "fulfillment:events"),
		BroadcastSchedule: envOr("BROADCAST_SCHEDULE", "*/15 * * * * *"),
		SweepSchedule:     envOr("SWEEP_SCHEDULE", "0 * * * * *"),
		RiderStaleWindow:  durationOr("RIDER_STALE_WINDOW", 5*time.Minute),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return parsed
}

// waitForDatabase pings the database until it answers, so a container
// started alongside a not-yet-ready postgres does not crash-loop.
func waitForDatabase(dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	var pingErr error
	for attempt := 0; attempt < 30; attempt++ {
		if pingErr = conn.Ping(); pingErr == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("database did not become ready: %w", pingErr)
}

func mustOpenDatabase(config cmd.Config) *gorm.DB {
	if err := waitForDatabase(config.DatabaseDSN()); err != nil {
		log.Fatalf("Failed waiting for database: %v", err)
	}

	db, err := gorm.Open(postgresdriver.Open(config.DatabaseDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &riderrepo.RiderDTO{},
		&postgres.MerchantDTO{}, &postgres.CustomerAddressDTO{},
		&postgres.MenuItemDTO{}, &postgres.BuyForYouRequestDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func buildFeeCalculator(config cmd.Config, logger *slog.Logger) services.DeliveryFeeCalculator {
	routingClient, err := routing.NewClient(config.RoutingURL, config.RoutingTimeout)
	if err != nil {
		log.Fatalf("Invalid routing configuration: %v", err)
	}

	schedule, err := cmd.ParseFeeSchedule(config.FeeTiers)
	if err != nil {
		log.Fatalf("Invalid fee tier configuration: %v", err)
	}

	return services.NewDeliveryFeeCalculator(routingClient, schedule, logger)
}

// buildEventBus returns the hub directly for single-instance deployments,
// or wraps it with the redis relay when REDIS_ADDR is set.
func buildEventBus(config cmd.Config, hub *ws.Hub, logger *slog.Logger) ports.EventBus {
	if config.RedisAddr == "" {
		return hub
	}

	client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
	bus := redisbus.NewBus(hub, client, config.RedisChannel, logger)

	subscription := client.Subscribe(context.Background(), config.RedisChannel)
	go bus.Listen(context.Background(), subscription.Channel())

	return bus
}

func startWebServer(
	root cmd.CompositionRoot,
	config cmd.Config,
	verifier *auth.TokenVerifier,
	wsHandler *ws.Handler,
) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	root.CreateHTTPServer().RegisterRoutes(e, verifier, wsHandler)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)))
}
