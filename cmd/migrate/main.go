package main

import (
	"log"

	"airicepest-be/internal/config"
	"airicepest-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Lookup paths not covered by struct tags
	log.Println("Step 2: Creating secondary indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_knowledge_base_category_pest ON knowledge_base (category, pest_id);`,
		`CREATE INDEX IF NOT EXISTS idx_history_user_date ON history (user_id, date DESC, created_at DESC);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed.")
}
