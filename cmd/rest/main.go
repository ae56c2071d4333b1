package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"airicepest-be/internal/bootstrap"
	"airicepest-be/internal/config"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/server"
	"airicepest-be/internal/tracer"
	"airicepest-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg, appLogger)
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 3. Initialize Database
	var gormDB *gorm.DB
	if cfg.Database.Driver != "memory" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(gormDB); err != nil {
				log.Panicf("Auto-migration failed: %v", err)
			}
		}
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg, appLogger)
	defer container.Close()

	// 5. Start Background Services
	if err := container.EventRelay.Consume(ctx); err != nil {
		appLogger.Error("MAIN", "Event relay failed to start", map[string]interface{}{"error": err})
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		appLogger.Info("MAIN", "Shutting down", nil)
		_ = srv.Shutdown()
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		appLogger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err})
	}
}
