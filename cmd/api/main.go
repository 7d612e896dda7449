package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"starclicker-rest-api/internal/cache"
	"starclicker-rest-api/internal/config"
	"starclicker-rest-api/internal/handler"
	"starclicker-rest-api/internal/repository"
	"starclicker-rest-api/internal/router"
	"starclicker-rest-api/internal/service"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting StarClicker API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize economy repository based on config
	var economyRepo repository.EconomyRepository
	switch cfg.DB.Type {
	case "mysql":
		mysqlDB, err := sql.Open("mysql", cfg.DB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to open MySQL: %v", err)
		}
		mysqlDB.SetMaxOpenConns(10)
		mysqlDB.SetMaxIdleConns(5)
		mysqlDB.SetConnMaxLifetime(5 * time.Minute)
		if err := mysqlDB.Ping(); err != nil {
			log.Fatalf("Failed to ping MySQL: %v", err)
		}
		mysqlRepo, err := repository.NewMySQLEconomyRepository(mysqlDB)
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		economyRepo = mysqlRepo
		log.Println("MySQL economy repository initialized")
	case "postgres", "postgresql":
		pgRepo, err := repository.NewPostgresEconomyRepository(cfg.DB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		economyRepo = pgRepo
		log.Println("PostgreSQL economy repository initialized")
	default: // sqlite
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
		sqliteRepo, err := repository.NewSQLiteEconomyRepository(cfg.DB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		economyRepo = sqliteRepo
		log.Println("SQLite economy repository initialized")
	}
	defer economyRepo.Close()

	// Seed the starter roster and catalog into an empty store
	if cfg.Economy.SeedDefaults {
		fans, products := service.DefaultSeed(cfg.Economy.FanDefaultPrice, cfg.Economy.FanDefaultIncome)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := economyRepo.SeedDefaults(ctx, fans, products); err != nil {
			log.Printf("Warning: seeding defaults failed: %v", err)
		}
		cancel()
	}

	// Initialize read cache (memory by default, Redis when configured)
	var readCache cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
			readCache = cache.NewMemoryCache()
		} else {
			defer redisCache.Close()
			readCache = redisCache
			log.Println("Redis read cache initialized")
		}
	default:
		readCache = cache.NewMemoryCache()
		log.Println("Memory read cache initialized")
	}

	// Initialize services
	economyService := service.NewEconomyService(economyRepo, service.EconomyOptions{
		StartingBalance: cfg.Economy.StartingBalance,
		StrictSync:      cfg.Economy.StrictSync,
	})
	queryService := service.NewQueryService(economyRepo, service.QueryOptions{
		Cache:                   readCache,
		LeaderboardTTL:          cfg.Cache.LeaderboardTTL,
		CatalogTTL:              cfg.Cache.CatalogTTL,
		DefaultLeaderboardLimit: cfg.Economy.LeaderboardLimit,
	})

	// Initialize handlers
	healthHandler := handler.New()
	playerHandler := handler.NewPlayerHandler(economyService, queryService)
	fanHandler := handler.NewFanHandler(economyService, queryService)
	productHandler := handler.NewProductHandler(economyService, queryService)
	leaderboardHandler := handler.NewLeaderboardHandler(queryService)
	adminHandler := handler.NewAdminHandler(economyRepo, cfg.DB.Type)

	// Create router
	r := router.New(router.Config{
		Handler:            healthHandler,
		PlayerHandler:      playerHandler,
		FanHandler:         fanHandler,
		ProductHandler:     productHandler,
		LeaderboardHandler: leaderboardHandler,
		AdminHandler:       adminHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
