package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port                 string
	BaseURL              string
	Environment          string
	LogFilePath          string
	AnalyticsLogFilePath string
	CorsAllowedOrigins   string
	NatsURL              string
	RedisURL             string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider    string // "openai", "ollama", "gemini" or "jina"
	EmbeddingModel       string
	EmbeddingDimensions  int
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	GeminiAPIKey         string
	JinaAPIKey           string
	LLMEnabled           bool
	LLMProvider          string // "openai", "ollama" or "huggingface"
	LLMModel             string // e.g. "gpt-4o-mini", "llama3"
	LLMBaseURL           string
	HuggingFaceAPIKey    string
}

type SearchConfig struct {
	DefaultPageSize     int
	MaxPageSize         int
	TuningFilePath      string
	TuningReloadSeconds int
	PerformedTopic      string
	RateLimitPerSecond  float64
	RateLimitBurst      int
	ResponseLanguage    string // "nl" or "en"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                 getEnv("APP_PORT", "3000"),
			BaseURL:              getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:          getEnv("GO_ENV", "development"),
			LogFilePath:          getEnv("LOG_FILE_PATH", "app.log"),
			AnalyticsLogFilePath: getEnv("ANALYTICS_LOG_FILE_PATH", "analytics.log"),
			CorsAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:              getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions:  getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JinaAPIKey:           getEnv("JINA_API_KEY", ""),
			LLMEnabled:           getEnvAsBool("LLM_ENABLED", true),
			LLMProvider:          getEnv("LLM_PROVIDER", "openai"),
			LLMModel:             getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
			HuggingFaceAPIKey:    getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Search: SearchConfig{
			DefaultPageSize:     getEnvAsInt("SEARCH_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:         getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 100),
			TuningFilePath:      getEnv("SEARCH_TUNING_PATH", "config/search_tuning.yaml"),
			TuningReloadSeconds: getEnvAsInt("SEARCH_TUNING_RELOAD_SECONDS", 60),
			PerformedTopic:      getEnv("SEARCH_PERFORMED_TOPIC_NAME", "SEARCH_PERFORMED"),
			RateLimitPerSecond:  getEnvAsFloat("SEARCH_RATE_LIMIT_RPS", 10),
			RateLimitBurst:      getEnvAsInt("SEARCH_RATE_LIMIT_BURST", 20),
			ResponseLanguage:    getEnv("SEARCH_RESPONSE_LANGUAGE", "nl"),
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
