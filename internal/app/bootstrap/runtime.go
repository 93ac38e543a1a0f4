// Package bootstrap wires configuration into the client runtime.
package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/neardoc/internal/apiclient"
	appconfig "github.com/wolfman30/neardoc/internal/config"
	"github.com/wolfman30/neardoc/internal/neardoc"
	"github.com/wolfman30/neardoc/internal/observability/metrics"
	"github.com/wolfman30/neardoc/internal/session"
	"github.com/wolfman30/neardoc/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the session backend named by SESSION_STORE. The
// returned close func releases any connection the store holds.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SessionStore {
	case "", "file":
		return session.NewFileStore(cfg.SessionFile), noop, nil
	case "memory":
		return session.NewMemoryStore(), noop, nil
	case "redis":
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, noop, fmt.Errorf("bootstrap: redis session store unavailable at %s", cfg.RedisAddr)
		}
		return session.NewRedisStore(client, cfg.SessionPrefix, cfg.SessionTTL), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}

// Runtime is a ready-to-use client: the typed API over a restored session.
type Runtime struct {
	API     *neardoc.API
	Session *session.Manager
	close   func() error
}

func (r *Runtime) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}

// BuildRuntime wires session store, transport and API, and restores any
// persisted session. reg may be nil to skip metrics.
func BuildRuntime(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, reg prometheus.Registerer) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	store, closeStore, err := BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	manager := session.NewManager(store, logger)
	if _, err := manager.Restore(ctx); err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("bootstrap: restore session: %w", err)
	}

	var clientMetrics *metrics.ClientMetrics
	if reg != nil {
		clientMetrics = metrics.NewClientMetrics(reg)
	}
	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
		Tokens:  manager,
		Logger:  logger,
		Metrics: clientMetrics,
	})
	return &Runtime{
		API:     neardoc.New(client, manager, logger),
		Session: manager,
		close:   closeStore,
	}, nil
}
