package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process-wide settings.
type Config struct {
	MongoDBURI    string
	DBName        string
	RedisAddr     string
	RedisPassword string
	Port          string
	JWTSecret     string
	AllowedOrigin string
	LogLevel      string
	LogFormat     string
}

// LoadConfig reads settings from environment variables, falling back to a
// .env file when one is present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		MongoDBURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "convo_db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
	return cfg
}

// getEnv returns the environment value for key or the given default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
