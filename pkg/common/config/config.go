package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	AuditPort      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers    []string
	KafkaGroupID    string
	PredictionTopic string

	// Catalog
	CatalogPath        string
	RedactionRulesPath string
	PredictionCacheTTL time.Duration

	// Model endpoints
	LLMAPIKey          string
	LLMBaseURL         string
	LLMModelName       string
	LLMTokenURL        string
	LLMClientID        string
	LLMClientSecret    string
	ZeroShotURL        string
	ModelTimeout       time.Duration
	ModelRetryAttempts int

	// Gateway
	RateLimitRPS   int
	RateLimitBurst int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when one exists; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		AuditPort:      getEnv("AUDIT_PORT", "8081"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "symptomcheck"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "symptomcheck"),
		PostgresDB:       getEnv("POSTGRES_DB", "symptomcheck"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:    getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "symptomcheck-audit"),
		PredictionTopic: getEnv("PREDICTION_TOPIC", "symptom.predictions"),

		CatalogPath:        getEnv("CATALOG_PATH", ""),
		RedactionRulesPath: getEnv("REDACTION_RULES_PATH", ""),
		PredictionCacheTTL: getDuration("PREDICTION_CACHE_TTL", 10*time.Minute),

		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModelName:       getEnv("LLM_MODEL_NAME", "gpt-4o-mini"),
		LLMTokenURL:        getEnv("LLM_TOKEN_URL", ""),
		LLMClientID:        getEnv("LLM_CLIENT_ID", ""),
		LLMClientSecret:    getEnv("LLM_CLIENT_SECRET", ""),
		ZeroShotURL:        getEnv("ZERO_SHOT_URL", ""),
		ModelTimeout:       getDuration("MODEL_TIMEOUT", 30*time.Second),
		ModelRetryAttempts: getIntEnv("MODEL_RETRY_ATTEMPTS", 3),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
