package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Time zone used for billing periods (today/week/month/year boundaries).
	TimeZone string

	JWTSecret          string
	JWTExpirationHours time.Duration

	// Initial admin account seeded at startup if it does not exist yet.
	AdminEmail    string
	AdminPassword string

	RateLimit RateLimitConfig
}

type RateLimitConfig struct {
	Enabled        bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	jwtExpHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "parkinglot"),
		DBPassword: getEnv("DB_PASSWORD", "parkinglot"),
		DBName:     getEnv("DB_NAME", "parkinglot_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		TimeZone: getEnv("APP_TIMEZONE", "America/Bogota"),

		JWTSecret:          getEnv("JWT_SECRET", "change-me-before-deploying"),
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@mail.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),

		RateLimit: loadRateLimit(),
	}
}

func loadRateLimit() RateLimitConfig {
	capacity, _ := strconv.Atoi(getEnv("RATE_LIMIT_CAPACITY", "60"))
	refill, _ := strconv.Atoi(getEnv("RATE_LIMIT_REFILL_TOKENS", "1"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	interval := time.Second
	if v, err := time.ParseDuration(getEnv("RATE_LIMIT_REFILL_INTERVAL", "1s")); err == nil && v > 0 {
		interval = v
	}
	ttl := 10 * time.Minute
	if v, err := time.ParseDuration(getEnv("RATE_LIMIT_TTL", "10m")); err == nil && v > 0 {
		ttl = v
	}

	cfg := RateLimitConfig{
		Enabled:        getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		Capacity:       capacity,
		RefillTokens:   refill,
		RefillInterval: interval,
		TTL:            ttl,
		Prefix:         getEnv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

// Location resolves the configured billing time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("Invalid APP_TIMEZONE '%s', falling back to UTC: %v", c.TimeZone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
