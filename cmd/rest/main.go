package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-admissions-be/internal/bootstrap"
	"ai-admissions-be/internal/config"
	"ai-admissions-be/internal/server"
	"ai-admissions-be/internal/tracer"
	"ai-admissions-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.Open(cfg.Database.Connection, cfg.Database.GormOptions())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Panicf("Unable to migrate database: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.Telemetry, container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("MAIN", "Failed to start consumer", map[string]interface{}{"error": err.Error()})
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("MAIN", "Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	if err := srv.Run(); err != nil {
		container.Logger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
