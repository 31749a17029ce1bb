package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

type StorageBackend string

const (
	StorageMemory StorageBackend = "memory"
	StorageRedis  StorageBackend = "redis"
	StorageMySQL  StorageBackend = "mysql"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string

	Storage   StorageBackend
	RedisAddr string
	MySQLDSN  string
	// CartTTL expires idle carts; zero keeps them.
	CartTTL time.Duration
	// MaxSessions bounds the in-process session registry.
	MaxSessions int

	TaxRate           decimal.Decimal
	DefaultTipPercent decimal.Decimal

	SubmitDelay time.Duration
	WorkerCount int
	QueueSize   int
}

func Load() Config {
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		GRPCAddr: getenv("GRPC_ADDR", ":50051"),

		Storage:   parseBackend(getenv("CART_STORAGE", string(StorageMemory))),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		MySQLDSN:  getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/restaurant?parseTime=true"),
		CartTTL:   parseDuration(getenv("CART_TTL", "0s"), 0),

		MaxSessions: parseInt(getenv("SESSION_CACHE_SIZE", "10000"), 10000),

		TaxRate:           parseDecimal(getenv("TAX_RATE", "0.08"), decimal.RequireFromString("0.08")),
		DefaultTipPercent: parseDecimal(getenv("DEFAULT_TIP_PERCENT", "0.15"), decimal.RequireFromString("0.15")),

		SubmitDelay: parseDuration(getenv("SUBMIT_DELAY", "2s"), 2*time.Second),
		WorkerCount: parseInt(getenv("WORKER_COUNT", "4"), 4),
		QueueSize:   parseInt(getenv("QUEUE_SIZE", "1000"), 1000),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseBackend(v string) StorageBackend {
	switch b := StorageBackend(strings.ToLower(strings.TrimSpace(v))); b {
	case StorageRedis, StorageMySQL:
		return b
	default:
		return StorageMemory
	}
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseDecimal(v string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil || !domain.InMoneyRange(d) || d.IsNegative() {
		return def
	}
	return d
}
