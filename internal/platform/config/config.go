package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultProblemSourceURL is the public API the tracker pulls accepted solves from.
const DefaultProblemSourceURL = "https://alfa-leetcode-api.onrender.com"

type Config struct {
	APIPort  string
	AppEnv   string
	LogLevel string

	JWTKey []byte
	JWTExp time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ProblemSourceURL     string
	ProblemSourceTimeout time.Duration
	MetadataCacheTTL     time.Duration

	// DotEnvLoaded reports whether a .env file was found; main logs it once the logger exists.
	DotEnvLoaded bool
}

func Load() *Config {
	loaded := godotenv.Load() == nil

	cfg := &Config{
		APIPort:              getEnv("API_PORT", "8080"),
		AppEnv:               getEnv("APP_ENV", "production"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTKey:               []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:               time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "user"),
		DBPassword:           getEnv("DB_PASSWORD", "password"),
		DBName:               getEnv("DB_NAME", "solve_tracker"),
		DBSslMode:            getEnv("DB_SSLMODE", "disable"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		ProblemSourceURL:     getEnv("PROBLEM_SOURCE_URL", DefaultProblemSourceURL),
		ProblemSourceTimeout: getEnvAsDuration("PROBLEM_SOURCE_TIMEOUT", 15*time.Second),
		MetadataCacheTTL:     getEnvAsDuration("METADATA_CACHE_TTL", 24*time.Hour),
		DotEnvLoaded:         loaded,
	}

	// DATABASE_URL wins over the discrete DB_* settings.
	cfg.DBConnStr = getEnv("DATABASE_URL", "host="+cfg.DBHost+
		" port="+cfg.DBPort+
		" user="+cfg.DBUser+
		" password="+cfg.DBPassword+
		" dbname="+cfg.DBName+
		" sslmode="+cfg.DBSslMode)

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return fallback
}
