package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	LLMProvider   string
	LLMModel      string
	OpenAIAPIKey  string
	GeminiAPIKey  string
	YouTubeAPIKey string
	DatabaseURL   string
	HTTPPort      string
	AppEnv        string
}

// Load reads configuration from the environment, honoring a local .env
// file when present. The credential for the selected LLM provider is
// required; the YouTube key is optional and its absence only degrades
// video search to empty results.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		LLMModel:      getEnv("LLM_MODEL", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", "learnanything.db"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "dev"),
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Fatal("OPENAI_API_KEY environment variable is required when LLM_PROVIDER=openai")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			log.Fatal("GEMINI_API_KEY environment variable is required when LLM_PROVIDER=gemini")
		}
	default:
		log.Fatalf("Unknown LLM_PROVIDER %q (expected %q or %q)", cfg.LLMProvider, ProviderOpenAI, ProviderGemini)
	}

	if cfg.YouTubeAPIKey == "" {
		log.Println("YOUTUBE_API_KEY not set, video search will return empty results")
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
