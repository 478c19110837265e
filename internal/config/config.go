package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

type Config struct {
	AppEnv string

	HTTPAddr    string
	DatabaseURL string
	TablePrefix string

	DBAutoMigrate     bool
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Admin auth
	JWTSecret           string
	JWTIssuer           string
	NonceSecret         string
	NonceTTL            time.Duration
	AdminAllowedOrigins []string

	// Redis stats cache; empty URL disables it
	RedisURL      string
	StatsCacheTTL time.Duration

	// Rate limiting on add-data
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Retention
	RetentionEnabled  bool
	RetentionDays     int
	RetentionSchedule string

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8086")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.TablePrefix = "wp_"
	if v, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		cfg.TablePrefix = strings.TrimSpace(v)
	}

	cfg.DBAutoMigrate = getBool("DB_AUTO_MIGRATE", true)
	cfg.DBMaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", 20)
	cfg.DBMaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", 10)
	cfg.DBConnMaxLifetime = getDuration("DB_CONN_MAX_LIFETIME", time.Hour)

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")
	cfg.NonceSecret = getEnv("NONCE_SECRET", cfg.JWTSecret)
	cfg.NonceTTL = getDuration("NONCE_TTL", 12*time.Hour)
	cfg.AdminAllowedOrigins = getList("ADMIN_ALLOWED_ORIGINS", []string{
		"http://localhost:8080",
		"http://127.0.0.1:8080",
	})

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.StatsCacheTTL = getDuration("STATS_CACHE_TTL", 30*time.Second)

	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 60)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", time.Minute)

	cfg.RetentionEnabled = getBool("RETENTION_ENABLED", true)
	cfg.RetentionDays = getIntEnv("RETENTION_DAYS", 7)
	// robfig/cron v1 format, seconds first: daily at 03:00
	cfg.RetentionSchedule = getEnv("RETENTION_SCHEDULE", "0 0 3 * * *")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)
	cfg.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	// validation
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	if _, err := domain.NewTables(cfg.TablePrefix); err != nil {
		return nil, err
	}
	if cfg.RetentionDays <= 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must be positive, got %d", cfg.RetentionDays)
	}

	return cfg, nil
}

// Tables returns the table names for the configured prefix.
func (c *Config) Tables() domain.Tables {
	t, _ := domain.NewTables(c.TablePrefix)
	return t
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
