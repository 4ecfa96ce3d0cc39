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
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Cafe dataset & discovery
	CafeFile        string        // path to the cafes.yaml dataset
	ReloadInterval  time.Duration // interval to reload the dataset (default: 1h)
	DefaultRadiusKm float64       // radius used by /api/cafes/nearby when none is given
	CenterLat       float64       // fallback position when the client sends none
	CenterLon       float64
	MergeClosedDays bool // "Sa-Su off" instead of "Sa off; Su off"

	// Redis (optional, empty address = in-memory only)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Admin review
	SubmissionTTL     time.Duration // pending submissions older than this are rejected
	AdminUser         string        // admin login name
	AdminPasswordHash string        // bcrypt hash of the admin password
	JWTSecret         string        // HS256 signing secret
	TokenTTL          time.Duration // admin token lifetime

	// Access restrictions
	AllowedHosts []string // optional, restrict admin endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Submission rate limit (per client IP)
	RateBurst  int
	RatePerMin int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("RUANGKOPI_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("RUANGKOPI_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("RUANGKOPI_LOG_LEVEL", "info"),
		PrettyLog: mustBool("RUANGKOPI_PRETTY_LOG", true),

		// Dataset & discovery (defaults centre on Surabaya)
		CafeFile:        getenv("RUANGKOPI_CAFE_FILE", "/app/cafes.yaml"),
		ReloadInterval:  mustDuration("RUANGKOPI_RELOAD_INTERVAL", time.Hour),
		DefaultRadiusKm: mustFloat("RUANGKOPI_DEFAULT_RADIUS_KM", 5),
		CenterLat:       mustFloat("RUANGKOPI_CENTER_LAT", -7.2575),
		CenterLon:       mustFloat("RUANGKOPI_CENTER_LON", 112.7521),
		MergeClosedDays: mustBool("RUANGKOPI_MERGE_CLOSED_DAYS", true),

		// Redis settings
		RedisAddr:           getenv("RUANGKOPI_REDIS_ADDR", ""),
		RedisUser:           getenv("RUANGKOPI_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("RUANGKOPI_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("RUANGKOPI_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Admin review
		SubmissionTTL:     mustDuration("RUANGKOPI_SUBMISSION_TTL", 30*24*time.Hour),
		AdminUser:         getenv("RUANGKOPI_ADMIN_USER", "admin"),
		AdminPasswordHash: requireEnv("RUANGKOPI_ADMIN_PASSWORD_HASH"),
		JWTSecret:         requireEnv("RUANGKOPI_JWT_SECRET"),
		TokenTTL:          mustDuration("RUANGKOPI_TOKEN_TTL", time.Hour),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("RUANGKOPI_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("RUANGKOPI_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("RUANGKOPI_TRUST_PROXY", true),

		RateBurst:  getenvInt("RUANGKOPI_RATE_BURST", 10),
		RatePerMin: getenvInt("RUANGKOPI_RATE_PER_MIN", 30),
	}

	if len(cfg.JWTSecret) < 16 {
		panic("❌ FATAL: RUANGKOPI_JWT_SECRET must be at least 16 characters")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.AdminPasswordHash = "***REDACTED***"
		cfgCopy.JWTSecret = "***REDACTED***"
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

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
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

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
