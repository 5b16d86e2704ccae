package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins string

	// Login brute-force guard
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// SQL queries slower than this are logged as warnings
	SlowQueryThreshold time.Duration
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=gudang port=5432 sslmode=disable"

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] file .env tidak ditemukan, hanya memakai environment")
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:        getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LoginRateLimit:     getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:    getDuration("LOGIN_RATE_WINDOW", time.Minute),
		SlowQueryThreshold: getDuration("SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN memakai nilai default, set koneksi Postgres sendiri untuk production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS memakai nilai default, set domain sendiri untuk production.")
	}

	return cfg
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errMissingSecret
	}
	if len(c.JWTSecret) < 32 {
		return errShortSecret
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s tidak valid (%q), memakai %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s tidak valid (%q), memakai %s", key, v, def)
		return def
	}
	return d
}
