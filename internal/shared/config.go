package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver  string // mongo | memory
	MongoURI     string
	MongoDB      string
	StoreTimeout time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	RequestTimeout     time.Duration
	RateLimitPerMinute int
	AllowedOrigins     []string

	ReconcileWorkers  int
	ReconcileRPS      int
	ReconcileInterval time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; real environment variables win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	seconds := func(k string, def int) time.Duration { return time.Duration(atoi(k, def)) * time.Second }

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":5002"),
		MetricsAddr: env("METRICS_ADDR", ""),

		StoreDriver:  strings.ToLower(env("STORE_DRIVER", "mongo")),
		MongoURI:     env("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      env("MONGODB_DATABASE", "travel_booking"),
		StoreTimeout: seconds("STORE_TIMEOUT_SECONDS", 10),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  seconds("CACHE_TTL_SECONDS", 900),

		RequestTimeout:     seconds("REQUEST_TIMEOUT_SECONDS", 15),
		RateLimitPerMinute: atoi("RATE_LIMIT_PER_MINUTE", 300),
		AllowedOrigins:     splitList(env("CORS_ALLOWED_ORIGINS", "*")),

		ReconcileWorkers:  atoi("RECONCILE_WORKERS", 8),
		ReconcileRPS:      atoi("RECONCILE_RPS", 50),
		ReconcileInterval: seconds("RECONCILE_INTERVAL_SECONDS", 0),
	}
	if port := os.Getenv("PORT"); port != "" {
		c.HTTPAddr = ":" + port
	}
	if c.StoreDriver != "mongo" && c.StoreDriver != "memory" {
		log.Warn().Str("driver", c.StoreDriver).Msg("unknown STORE_DRIVER, falling back to mongo")
		c.StoreDriver = "mongo"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
