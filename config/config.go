package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every runtime setting, all of it environment-driven.
type Config struct {
	// Port the HTTP API listens on.
	Port string

	// Redis document store. Empty Addr selects the in-memory store,
	// which is only useful for local development.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// S3 object store for uploads. Empty bucket disables uploads.
	S3Bucket        string
	S3Region        string
	S3Profile       string
	S3Prefix        string
	S3PublicBaseURL string
	S3UsePathStyle  bool

	// Kafka change-event publishing. Empty broker list disables it.
	KafkaBrokers []string
	KafkaTopic   string

	// JWTSecret signs studio API tokens.
	JWTSecret string
	TokenTTL  time.Duration

	// StrictReads surfaces read failures instead of serving empty
	// lists. Off by default so the public site stays up through
	// transient store outages.
	StrictReads bool

	// Bootstrap admin account, created at startup when no account
	// exists yet.
	AdminEmail    string
	AdminPassword string

	// CORSOrigins lists allowed browser origins for the studio
	// frontend. Empty means same-origin only.
	CORSOrigins []string
}

// Load reads configuration from the environment, after loading .env if
// present (non-fatal if missing).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASS"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		S3Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:        strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:       strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3Prefix:        strings.TrimSpace(os.Getenv("S3_PREFIX")),
		S3PublicBaseURL: strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		S3UsePathStyle:  getEnvBool("S3_USE_PATH_STYLE", false),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "content-events"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		StrictReads: getEnvBool("STRICT_READS", false),

		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
