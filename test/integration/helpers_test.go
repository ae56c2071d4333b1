package integration

import (
	"context"
	"testing"

	"airicepest-be/internal/bootstrap"
	"airicepest-be/internal/config"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/server"
	"airicepest-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openDB connects to the database named by DB_CONNECTION_STRING and migrates
// it. Tests are skipped when the variable is unset.
func openDB(t *testing.T) (*gorm.DB, *config.Config) {
	t.Helper()
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("No .env file found, using system env")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db, cfg
}

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, cfg := openDB(t)
	cfg.Storage.UploadDir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	container := bootstrap.NewContainer(ctx, db, cfg, logger.NewNopLogger())
	t.Cleanup(func() {
		cancel()
		container.Close()
	})
	return server.New(cfg, container).GetApp(), db
}
