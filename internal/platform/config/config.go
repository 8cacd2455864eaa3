package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the admin service.
type Server struct {
	Addr          string
	JWTSigningKey string
	SessionTTL    time.Duration

	// Login rate limiting (fixed window per auth scope).
	RateLimitWindow      time.Duration
	RateLimitMaxAttempts int
	SweepInterval        time.Duration

	// Audit export row cap.
	AuditExportLimit int

	SeedDemoData   bool
	TracingEnabled bool
}

// Defaults kept as variables so FromEnv can override them.
var (
	SessionTTL           = 24 * time.Hour
	RateLimitWindow      = time.Minute
	RateLimitMaxAttempts = 5
	SweepInterval        = 15 * time.Minute
	AuditExportLimit     = 10000
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("INKWELL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:                 addr,
		JWTSigningKey:        jwtSigningKey,
		SessionTTL:           durationFromEnv("SESSION_TTL", SessionTTL),
		RateLimitWindow:      durationFromEnv("LOGIN_RATE_WINDOW", RateLimitWindow),
		RateLimitMaxAttempts: intFromEnv("LOGIN_RATE_MAX_ATTEMPTS", RateLimitMaxAttempts),
		SweepInterval:        durationFromEnv("LOGIN_RATE_SWEEP_INTERVAL", SweepInterval),
		AuditExportLimit:     intFromEnv("AUDIT_EXPORT_LIMIT", AuditExportLimit),
		SeedDemoData:         os.Getenv("SEED_DEMO_DATA") == "true",
		TracingEnabled:       os.Getenv("TRACING_ENABLED") == "true",
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

func intFromEnv(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
