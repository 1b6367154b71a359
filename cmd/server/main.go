// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legalconnect/internal/config"
	"legalconnect/internal/obs"
	"legalconnect/internal/repositories"
	"legalconnect/internal/routes"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and cache connections
// - Registers metrics collectors
// - Configures routes and background settlement sweeps
// - Starts the HTTP server
func main() {
	// Load environment variables
	config.LoadEnv()

	// Register Prometheus collectors before anything records a sample
	obs.Init()

	// Initialize databases (PostgreSQL + Redis)
	repositories.InitDB()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour))
	sqlDB.SetConnMaxIdleTime(config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute))

	// Add a periodic check of connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	} else {
		log.Println("✅ Successfully connected to database with connection pooling")
	}

	// Clear Redis cache on startup using CacheService. Everything cached is
	// rebuilt on demand, so a cold cache after deploy is safe.
	if repositories.CacheService != nil {
		err := repositories.CacheService.FlushAll(context.Background())
		if err != nil {
			log.Printf("⚠️ Failed to flush Redis cache: %v", err)
		} else {
			log.Println("✅ Redis cache flushed on startup")
		}
	}

	defer func() {
		// Close PostgreSQL connection
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get database instance: %v", err)
				return
			}
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close database connection: %v", err)
			}
		}

		// Close Redis connection via CacheService
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Create Fiber app with goccy for JSON codec
	app := fiber.New(fiber.Config{
		AppName:     "LegalConnect",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// The webhook endpoint is unauthenticated (signature-verified), so cap
	// the rate per source IP.
	app.Use("/webhooks/payouts", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	// Routes
	services := routes.SetupRoutes(app, repositories.DB)

	// Background sweeps: auto-confirm payouts the operator never touched,
	// and periodically settle everything confirmed.
	go func() {
		ticker := time.NewTicker(config.GetDurationEnv("PAYOUT_SWEEP_INTERVAL", time.Hour))
		defer ticker.Stop()
		for range ticker.C {
			n, err := services.Payouts.AutoConfirmStale(context.Background())
			if err != nil {
				log.Printf("⚠️ Auto-confirm sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Auto-confirmed %d stale payouts", n)
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(config.GetDurationEnv("SETTLEMENT_INTERVAL", 15*time.Minute))
		defer ticker.Stop()
		for range ticker.C {
			result, err := services.Payouts.RunSettlementPass(context.Background())
			if err != nil {
				log.Printf("⚠️ Settlement pass failed: %v", err)
				continue
			}
			if result.Claimed > 0 {
				log.Printf("Settlement batch %s: claimed=%d dispatched=%d completed=%d failed=%d",
					result.BatchID, result.Claimed, result.Dispatched, result.Completed, result.Failed)
			}
		}
	}()

	// Shut down cleanly on SIGINT/SIGTERM so in-flight gateway calls finish
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	// Start server
	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
