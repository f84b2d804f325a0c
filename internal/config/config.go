package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBasePrompt is used to seed new conversations when the settings row
// is missing or holds an empty prompt. Precedence: settings record > this constant.
const DefaultBasePrompt = "You are a helpful assistant."

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration

	// Completion gateway settings.
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	CompletionTimeout time.Duration

	// Chat pipeline settings.
	HistoryLimit      int    // most recent N messages sent to the model
	DefaultBasePrompt string // fallback when the settings row is unreadable
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	apiKey := getEnv("OPENAI_API_KEY", "")
	if apiKey == "" {
		log.Fatal("FATAL: OPENAI_API_KEY environment variable is not set.")
	}

	timeoutStr := getEnv("COMPLETION_TIMEOUT_SECONDS", "60")
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs <= 0 {
		log.Printf("Warning: Invalid COMPLETION_TIMEOUT_SECONDS '%s', using default 60s.", timeoutStr)
		timeoutSecs = 60
	}

	historyStr := getEnv("HISTORY_LIMIT", "10")
	historyLimit, err := strconv.Atoi(historyStr)
	if err != nil || historyLimit <= 0 {
		log.Printf("Warning: Invalid HISTORY_LIMIT '%s', using default 10.", historyStr)
		historyLimit = 10
	}

	cfg := &Config{
		HTTPPort:          port,
		JWTSecret:         jwtSecret,
		DatabaseURL:       dbURL,
		TokenExpiration:   time.Hour * time.Duration(tokenExpHours),
		OpenAIAPIKey:      apiKey,
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		CompletionTimeout: time.Second * time.Duration(timeoutSecs),
		HistoryLimit:      historyLimit,
		DefaultBasePrompt: getEnv("DEFAULT_BASE_PROMPT", DefaultBasePrompt),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, Model=%s, HistoryLimit=%d",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.OpenAIModel, cfg.HistoryLimit)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}
