package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"dealradar/dealworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string
	SeenTTL      time.Duration

	// Feed configuration
	Subreddits     []string
	FetchInterval  time.Duration
	PostLimit      int
	UserAgent      string
	RateLimitBlock time.Duration

	// Parser configuration
	BatchConcurrency  int
	DefaultCurrency   string
	DefaultCategory   string
	ImageFetchTimeout time.Duration

	// Enricher configuration
	GeminiAPIKey string
	GeminiModel  string
	EnrichStream string
	EnrichDelay  time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "4"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	fetchInterval, _ := strconv.Atoi(getEnv("FETCH_INTERVAL_SECONDS", "120"))
	postLimit, _ := strconv.Atoi(getEnv("POST_LIMIT", "50"))
	concurrency, _ := strconv.Atoi(getEnv("BATCH_CONCURRENCY", "8"))
	seenTTL, _ := strconv.Atoi(getEnv("SEEN_TTL_SECONDS", "86400"))
	imageTimeout, _ := strconv.Atoi(getEnv("IMAGE_FETCH_TIMEOUT_SECONDS", "3"))
	rateLimitBlock, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "300"))
	enrichDelay, _ := strconv.Atoi(getEnv("ENRICH_DELAY_MS", "1500"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "deals"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		SeenTTL:              time.Duration(seenTTL) * time.Second,
		Subreddits:           splitList(getEnv("SUBREDDITS", "deals,OnlineDeals,dealsforindia")),
		FetchInterval:        time.Duration(fetchInterval) * time.Second,
		PostLimit:            postLimit,
		UserAgent:            getEnv("FEED_USER_AGENT", "dealradar-worker/1.0"),
		RateLimitBlock:       time.Duration(rateLimitBlock) * time.Second,
		BatchConcurrency:     concurrency,
		DefaultCurrency:      getEnv("DEFAULT_CURRENCY", "USD"),
		DefaultCategory:      getEnv("DEFAULT_CATEGORY", "other"),
		ImageFetchTimeout:    time.Duration(imageTimeout) * time.Second,
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		EnrichStream:         getEnv("ENRICH_STREAM", "deals_enriched"),
		EnrichDelay:          time.Duration(enrichDelay) * time.Millisecond,
		Environment:          getEnv("DEALWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return errors.NewConfiguration("REDIS_ADDR must not be empty", nil)
	}
	if c.MemcacheAddr == "" {
		return errors.NewConfiguration("MEMCACHE_ADDR must not be empty", nil)
	}
	if len(c.Subreddits) == 0 {
		return errors.NewConfiguration("SUBREDDITS must list at least one subreddit", nil)
	}
	if c.FetchInterval <= 0 {
		return errors.NewConfiguration("FETCH_INTERVAL_SECONDS must be positive", nil)
	}
	if c.PostLimit <= 0 || c.PostLimit > 100 {
		return errors.NewConfiguration("POST_LIMIT must be in 1..100", nil)
	}
	if c.RateLimitBlock <= 0 {
		return errors.NewConfiguration("RATE_LIMIT_BLOCK_SECONDS must be positive", nil)
	}
	if c.BatchConcurrency <= 0 {
		return errors.NewConfiguration("BATCH_CONCURRENCY must be positive", nil)
	}
	if c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be positive", nil)
	}
	if c.RedisStreamMaxLength <= 0 {
		return errors.NewConfiguration("REDIS_STREAM_MAX_LENGTH must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated list, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
