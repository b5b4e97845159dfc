package searchscope

import (
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	databaseURL string
	pool        *pgxpool.Pool

	cacheAddrs    []string
	cacheUsername string
	cachePassword string
	cacheDB       int
	cacheTTL      time.Duration

	defaultDays int

	logger *zap.Logger
}

// WithDatabaseURL sets the PostgreSQL connection string.
func WithDatabaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.databaseURL = url
	})
}

// WithPool reuses an existing PostgreSQL pool instead of opening one.
// The caller keeps ownership; Close will not release it.
func WithPool(pool *pgxpool.Pool) Option {
	return optionFunc(func(c *clientConfig) {
		c.pool = pool
	})
}

// WithCache fronts aggregated reads with a Redis cache.
func WithCache(addrs []string, username, password string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = addrs
		c.cacheUsername = username
		c.cachePassword = password
		c.cacheDB = db
	})
}

// WithCacheTTL sets the cached-aggregation lifetime. Default: 5 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithDefaultDays sets the analysis window length used when a call gives
// no explicit dates. Default: 90.
func WithDefaultDays(days int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultDays = days
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
