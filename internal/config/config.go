package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DB DBConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	JWTSecret []byte

	AttemptFetchLimit   int
	RecentActivityLimit int
	Location            *time.Location
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "studysphere"),
			Password: getEnv("DB_PASSWORD", "studysphere"),
			Name:     getEnv("DB_NAME", "studysphere"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		StatsCacheTTL:       getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),
		JWTSecret:           jwtSecret(),
		AttemptFetchLimit:   getEnvInt("ATTEMPT_FETCH_LIMIT", 50),
		RecentActivityLimit: getEnvInt("RECENT_ACTIVITY_LIMIT", 10),
		Location:            loc,
	}, nil
}

const devJWTSecret = "studysphere-dev-signing-key"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("[config] WARNING: JWT_SECRET not set, using the development signing key; tokens can be forged")
		secret = devJWTSecret
	}
	return []byte(secret)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}
