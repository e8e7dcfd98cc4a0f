package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Dev defaults for the single store account, used when STORE_USERNAME
// and STORE_PASSWORD are not set.
const (
	DefaultStoreUsername = "Basri"
	DefaultStorePassword = "123456789"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	AuthSecret            string
	AccessTokenTTLMinutes int
	StoreUsername         string
	StorePassword         string
	SnapshotDSN           string
	SnapshotDelayMS       int
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	ReportCacheTTLSeconds int
}

func Load() Config {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, err := strconv.Atoi(getEnv("REPORT_CACHE_TTL_SECONDS", "30"))
	if err != nil || cacheTTL < 1 {
		cacheTTL = 30
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	snapshotDelay, err := strconv.Atoi(getEnv("SNAPSHOT_DELAY_MS", "2000"))
	if err != nil || snapshotDelay < 0 {
		snapshotDelay = 2000
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		StoreUsername:         getEnv("STORE_USERNAME", DefaultStoreUsername),
		StorePassword:         getEnv("STORE_PASSWORD", DefaultStorePassword),
		SnapshotDSN:           os.Getenv("SNAPSHOT_DSN"),
		SnapshotDelayMS:       snapshotDelay,
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		ReportCacheTTLSeconds: cacheTTL,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
