package main

import (
	"log"
	"os"

	"car-support-be/internal/model"
	"car-support-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	log.Println("Step 1: Setting up Extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.KnowledgeEmbedding{},
		&model.VehicleListing{},
		&model.ChatLog{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating Indexes...")
	postMigrationSQL := []string{
		// ivfflat needs rows before it clusters well; fine to create early.
		`CREATE INDEX IF NOT EXISTS idx_knowledge_embeddings_embedding
		 ON knowledge_embeddings USING ivfflat (embedding_value vector_cosine_ops) WITH (lists = 100);`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_embeddings_source ON knowledge_embeddings (source_id);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_logs_user_key ON chat_logs (user_key, created_at);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed via GORM.")
}
