package config

import (
	"log"
	"os"
	"strconv"

	"car-support-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Line     LineConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Routing  RoutingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type LineConfig struct {
	ChannelSecret string
	ChannelToken  string
}

type SMTPConfig struct {
	Host          string
	Port          int
	Email         string
	Password      string
	SenderName    string
	OperatorEmail string
}

type APIKeys struct {
	OpenAI    string
	JwtSecret string
}

type AIConfig struct {
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
}

// RoutingConfig tunes retrieval and session behavior. Defaults match
// production; override per environment when re-tuning relevance.
type RoutingConfig struct {
	TopK           int
	ScoreThreshold float64
	HistoryLimit   int
	ChunkSize      int
	ChunkOverlap   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Line: LineConfig{
			ChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),
			ChannelToken:  getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnvAsInt("SMTP_PORT", 587),
			Email:         getEnv("SMTP_EMAIL", ""),
			Password:      getEnv("SMTP_PASSWORD", ""),
			SenderName:    getEnv("SMTP_SENDER_NAME", "CarSupport"),
			OperatorEmail: getEnv("OPERATOR_NOTIFY_EMAIL", ""),
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o"),
		},
		Routing: RoutingConfig{
			TopK:           getEnvAsInt("ROUTING_TOP_K", constant.DefaultTopK),
			ScoreThreshold: getEnvAsFloat("ROUTING_SCORE_THRESHOLD", constant.DefaultScoreThreshold),
			HistoryLimit:   getEnvAsInt("ROUTING_HISTORY_LIMIT", constant.DefaultHistoryLimit),
			ChunkSize:      getEnvAsInt("INGEST_CHUNK_SIZE", 500),
			ChunkOverlap:   getEnvAsInt("INGEST_CHUNK_OVERLAP", 50),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
