package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "learning-with-ai-dev-secret"

type Config struct {
	HTTPPort       string
	LogLevel       string
	JWTSecret      string
	TokenTTL       time.Duration
	GeminiAPIKey   string
	ReplyDelay     time.Duration
	StepInterval   time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	SeedDemoData   bool
}

var AppConfig = Defaults()

// Defaults returns the configuration used when no environment is set.
func Defaults() Config {
	return Config{
		HTTPPort:       "8080",
		LogLevel:       "INFO",
		JWTSecret:      devJWTSecret,
		TokenTTL:       24 * time.Hour,
		ReplyDelay:     500 * time.Millisecond,
		StepInterval:   700 * time.Millisecond,
		RateLimitRPS:   20,
		RateLimitBurst: 50,
		SeedDemoData:   true,
	}
}

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	d := Defaults()
	AppConfig = Config{
		HTTPPort:       getEnv("HTTP_PORT", d.HTTPPort),
		LogLevel:       getEnv("LOG_LEVEL", d.LogLevel),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		ReplyDelay:     getEnvAsDuration("REPLY_DELAY_MS", d.ReplyDelay),
		StepInterval:   getEnvAsDuration("STEP_INTERVAL_MS", d.StepInterval),
		RateLimitRPS:   getEnvAsInt("RATE_LIMIT_RPS", d.RateLimitRPS),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", d.RateLimitBurst),
		SeedDemoData:   getEnvAsBool("SEED_DEMO_DATA", d.SeedDemoData),
	}

	if AppConfig.JWTSecret == "" {
		log.Println("JWT_SECRET not set, using the development secret")
		AppConfig.JWTSecret = devJWTSecret
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set, transcripts will use the built-in template")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration reads a millisecond count.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil && value >= 0 {
		return time.Duration(value) * time.Millisecond
	}
	return defaultValue
}
