package catalog

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverRedis  = "redis"
	driverMemory = "memory"
)

type clientConfig struct {
	driver    string // "redis" or "memory"
	addrs     []string
	username  string
	password  string
	database  int
	keyPrefix string

	readinessTimeout time.Duration

	mediaBaseURL string

	maxPageSize      int
	maxSearchResults int
	priceCeiling     float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisCluster connects to a Redis cluster (or a single node with ACL
// credentials) through any of the seed addresses.
func WithRedisCluster(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = append([]string(nil), addrs...)
		c.username = username
		c.password = password
	})
}

// WithDatabase selects the logical Redis database. Ignored in cluster mode.
func WithDatabase(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.database = n
	})
}

// WithReadinessTimeout bounds how long New waits for Redis to answer PING.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		if d > 0 {
			c.readinessTimeout = d
		}
	})
}

// WithMemory keeps the catalog in process. Items are added with Client.Put.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.addrs = nil
	})
}

// WithKeyPrefix namespaces Redis keys and the catalog index.
// Default: "catalog:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMediaBaseURL resolves media references by joining them to base.
// Without it, Redis clients look references up in the store and memory
// clients fall back to each item's stored plain URL.
func WithMediaBaseURL(base string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mediaBaseURL = base
	})
}

// WithLimits bounds request cost. Zero keeps the default (100 per page, 500 search results).
func WithLimits(maxPageSize, maxSearchResults int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = maxPageSize
		c.maxSearchResults = maxSearchResults
	})
}

// WithPriceCeiling treats a max price at or above ceiling as no limit.
func WithPriceCeiling(ceiling float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.priceCeiling = ceiling
	})
}

// WithLogger logs every operation: successes at debug, rejected input at
// info and store failures at warn. Nil disables logging (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers catalog_sdk_* metrics on reg. Clients sharing a
// registerer share the collectors. Nil disables metrics (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
