package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8090"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile        string        // optional YAML seed (blocklist/folders/bookmarks), empty = disabled
	BlockedPagePath string        // local path navigations are redirected to (default: /blocked)
	Retention       time.Duration // time entries older than this are pruned (default: 30 days)
	PruneInterval   time.Duration // interval between retention runs (default: 24h)
	TimerTick       time.Duration // countdown broadcast granularity (default: 1s)
	MinSession      time.Duration // dwell sessions shorter than this are noise (default: 1s)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // IPs allowed to reach the API (default: loopback only)
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TABDECK_LISTEN_PORT", ":8090"),
		ShutdownTimeout: mustDuration("TABDECK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TABDECK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TABDECK_PRETTY_LOG", true),

		// Domain knobs
		SeedFile:        getenv("TABDECK_SEED_FILE", ""), // Optional, empty = no seeding
		BlockedPagePath: getenv("TABDECK_BLOCKED_PAGE_PATH", "/blocked"),
		Retention:       mustDuration("TABDECK_RETENTION", 30*24*time.Hour),
		PruneInterval:   mustDuration("TABDECK_PRUNE_INTERVAL", 24*time.Hour),
		TimerTick:       mustDuration("TABDECK_TIMER_TICK", time.Second),
		MinSession:      mustDuration("TABDECK_MIN_SESSION", time.Second),

		// Redis settings
		RedisAddr:             getenv("TABDECK_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("TABDECK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("TABDECK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("TABDECK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("TABDECK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions (single-user daemon: loopback by default)
		AllowedCIDRS: parseAllowedIPs(getenv("TABDECK_ALLOWED_CIDRS", "127.0.0.0/8,::1/128")),
		TrustProxy:   mustBool("TABDECK_TRUST_PROXY", false),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TABDECK_REDIS_PASSWORD is required when TABDECK_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.Retention <= 0 {
		panic(fmt.Sprintf("❌ FATAL: TABDECK_RETENTION must be > 0, got %v", cfg.Retention))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
