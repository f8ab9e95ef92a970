package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/database"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/services"
)

// Worker that activates pending plan changes on their scheduled date.
// The API also reconciles lazily on read; this sweep keeps records
// current for users who never log in around their renewal.
func main() {
	_ = godotenv.Load()

	log.Println("Starting plan change worker...")

	cfg := config.Load()

	pool, err := database.Connect(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	planService := services.NewPlanService(repository.NewUserRepository(pool))

	interval := sweepInterval(cfg.App.PlanSweepMinutes)
	log.Printf("Sweeping for due plan changes every %s", interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep(planService)

	for {
		select {
		case <-ticker.C:
			sweep(planService)
		case sig := <-sigChan:
			log.Printf("Received signal %v, shutting down worker...", sig)
			return
		}
	}
}

// sweepInterval converts the configured minutes to a ticker period.
// time.NewTicker panics on non-positive durations, so bad config falls
// back to the default instead of taking the worker down.
func sweepInterval(minutes int) time.Duration {
	if minutes <= 0 {
		log.Printf("Invalid PLAN_SWEEP_MINUTES=%d, using 30", minutes)
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

func sweep(planService *services.PlanService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	applied, err := planService.ApplyDueChanges(ctx, time.Now())
	if err != nil {
		log.Printf("Sweep failed: %v", err)
		return
	}
	if applied > 0 {
		log.Printf("Applied %d due plan changes", applied)
	}
}
