package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DIEGUS15/parkinglot/internal/api"
	"github.com/DIEGUS15/parkinglot/internal/api/middleware"
	"github.com/DIEGUS15/parkinglot/internal/config"
	"github.com/DIEGUS15/parkinglot/internal/repository/postgresql"
	"github.com/DIEGUS15/parkinglot/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Setup Database Connection
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection established.")

	// 3. Redis client for the rate limiter. The server still works without it.
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: redis not reachable at %s, rate limiting disabled: %v", cfg.RateLimit.RedisAddr, err)
			rdb = nil
		}
		cancelPing()
		if rdb != nil {
			defer rdb.Close()
		}
	}

	// 4. Initialize Repositories
	userRepo := postgresql.NewPgUserRepository(db)
	parkingLotRepo := postgresql.NewPgParkingLotRepository(db)
	vehicleRepo := postgresql.NewPgVehicleRepository(db)
	historyRepo := postgresql.NewPgVehicleHistoryRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	parkingLotService := service.NewParkingLotService(parkingLotRepo, userRepo)
	vehicleService := service.NewVehicleService(parkingLotRepo, vehicleRepo, historyRepo, cfg.Location())

	// 6. Seed the initial admin account
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(seedCtx, "Admin", cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Could not ensure admin account: %v", err)
	}
	cancelSeed()

	// 7. Initialize Auth Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 8. Setup HTTP Router
	router := api.SetupRouter(cfg, authService, parkingLotService, vehicleService, authMiddleware, rdb)

	// 9. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shut down: %v", err)
	}

	log.Println("Server stopped.")
}
