package gateway

import (
	"net/http"
	"time"

	"github.com/meghashyamc/encarta/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient       *http.Client
	textProxyBase    string
	categoryCountTTL time.Duration

	logger     logger.Logger
	metricsReg prometheus.Registerer
}

// WithHTTPClient replaces http.DefaultClient. No timeout is imposed by the gateway itself.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = client
	})
}

// WithTextProxy sets the readability proxy base used by FetchText callers.
func WithTextProxy(base string) Option {
	return optionFunc(func(c *clientConfig) {
		c.textProxyBase = base
	})
}

// WithCategoryCountTTL sets how long successful category counts are reused.
// Zero disables caching.
func WithCategoryCountTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.categoryCountTTL = ttl
	})
}

func WithLogger(l logger.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers gateway metrics (request counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
