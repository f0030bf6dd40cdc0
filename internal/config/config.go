// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string

	// Storage service
	ServerPort      string
	DatabasePath    string
	TemplateDir     string
	RateLimitWrites int

	// Assistant responder; disabled when OpenAIAPIKey is empty.
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	ResponderHistory int

	// Chat client
	APIURL         string
	PageSize       int
	RequestTimeout time.Duration
	RemoteLog      bool
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	cfg, err := New()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// New is Load without the fatal exit.
func New() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		Environment:      env,
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "chat.db"),
		TemplateDir:      getEnv("TEMPLATE_DIR", ""),
		RateLimitWrites:  getEnvAsInt("RATE_LIMIT_WRITES", 120),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ResponderHistory: getEnvAsInt("RESPONDER_HISTORY", 10),
		APIURL:           getEnv("CHAT_API_URL", "http://localhost:8080"),
		PageSize:         getEnvAsInt("CHAT_PAGE_SIZE", 10),
		RequestTimeout:   getEnvAsDuration("CHAT_REQUEST_TIMEOUT", 10*time.Second),
		RemoteLog:        getEnvAsBool("CHAT_REMOTE_LOG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and, in production, required keys.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("CHAT_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("CHAT_REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitWrites < 1 {
		return fmt.Errorf("RATE_LIMIT_WRITES must be at least 1")
	}

	if strings.ToLower(c.Environment) == "production" {
		missing := []string{}
		if os.Getenv("DATABASE_PATH") == "" {
			missing = append(missing, "DATABASE_PATH")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required production environment variables: %v", missing)
		}
	}
	return nil
}

// ResponderEnabled reports whether assistant replies should be generated.
func (c *Config) ResponderEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as bool. Using default value.", key)
		return defaultValue
	}
	return b
}
