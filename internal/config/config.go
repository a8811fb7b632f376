package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"ai-admissions-be/pkg/database"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Timeouts  TimeoutConfig
	Session   SessionConfig
	Contacts  ContactConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	QuietConsole       bool // log to the file only
	CorsAllowedOrigins string
	NatsURL            string // empty disables cross-service events
	RedisURL           string // empty keeps route stats in memory
}

type DatabaseConfig struct {
	Connection   string // empty = JSON file contacts + in-memory corpus
	LogLevel     string
	SlowQueryMs  int
	MaxOpenConns int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider    string // "ollama" or "huggingface"
	LLMModel       string
	LLMBaseURL     string
	LLMApiKey      string
	OllamaBaseURL  string
	EmbeddingModel string
}

type RetrievalConfig struct {
	TopK       int
	FinalK     int
	Threshold  float64
	CorpusPath string // JSON corpus for the in-memory searcher
}

type TimeoutConfig struct {
	RouterMs int
	LLMMs    int
	SearchMs int
}

type SessionConfig struct {
	TTLMinutes int // 0 = sessions live for the process lifetime
}

type ContactConfig struct {
	FilePath     string
	AdvisorEmail string // empty disables the advisor notification
}

type TelemetryConfig struct {
	Enabled  bool
	Endpoint string
}

// GormOptions turns the database settings into pool and SQL logger options.
func (d DatabaseConfig) GormOptions() database.Options {
	return database.Options{
		LogLevel:      d.LogLevel,
		SlowThreshold: time.Duration(d.SlowQueryMs) * time.Millisecond,
		MaxOpenConns:  d.MaxOpenConns,
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.json"),
			QuietConsole:       getEnvAsBool("LOG_QUIET_CONSOLE", false),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			SlowQueryMs:  getEnvAsInt("DB_SLOW_QUERY_MS", 1000),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Assistant Admissions"),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:     getEnv("LLM_BASE_URL", ""),
			LLMApiKey:      getEnv("LLM_API_KEY", ""),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Retrieval: RetrievalConfig{
			TopK:       getEnvAsInt("RETRIEVAL_TOP_K", 10),
			FinalK:     getEnvAsInt("RETRIEVAL_FINAL_K", 4),
			Threshold:  getEnvAsFloat("RETRIEVAL_THRESHOLD", 0),
			CorpusPath: getEnv("CORPUS_PATH", "data/corpus.json"),
		},
		Timeouts: TimeoutConfig{
			RouterMs: getEnvAsInt("ROUTER_TIMEOUT_MS", 8000),
			LLMMs:    getEnvAsInt("LLM_TIMEOUT_MS", 60000),
			SearchMs: getEnvAsInt("SEARCH_TIMEOUT_MS", 10000),
		},
		Session: SessionConfig{
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 0),
		},
		Contacts: ContactConfig{
			FilePath:     getEnv("CONTACTS_FILE_PATH", "data/contacts.json"),
			AdvisorEmail: getEnv("ADVISOR_EMAIL", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
