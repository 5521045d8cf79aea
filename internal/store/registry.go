package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"order-report-services/internal/analytics"
	"order-report-services/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend reads one branch's order store.
type Backend interface {
	FetchPaidOrders(ctx context.Context, dateRange analytics.DateRange) ([]analytics.Order, error)
	Close(ctx context.Context) error
}

// Dialer opens the backend for a branch connection URL.
type Dialer func(ctx context.Context, branch string, url string) (Backend, error)

// Registry maps branch keys to lazily opened backends. It implements
// analytics.Source.
type Registry struct {
	urls         map[string]string
	dial         Dialer
	queryTimeout time.Duration
	logger       *zap.Logger

	mu       sync.Mutex
	backends map[string]Backend
}

func NewRegistry(urls map[string]string, dial Dialer, queryTimeout time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	copied := make(map[string]string, len(urls))
	for branch, url := range urls {
		copied[branch] = url
	}
	return &Registry{
		urls:         copied,
		dial:         dial,
		queryTimeout: queryTimeout,
		logger:       logger,
		backends:     make(map[string]Backend, len(copied)),
	}
}

// NewRegistryFromConfig wires the dialer selected by DATA_SOURCE.
func NewRegistryFromConfig(cfg config.Config, logger *zap.Logger) (*Registry, error) {
	var dial Dialer
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		dial = PostgresDialer(cfg.OrdersTable)
	case config.DataSourceMongo:
		dial = MongoDialer(cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("unsupported DATA_SOURCE %q", cfg.DataSource)
	}
	return NewRegistry(cfg.BranchURLs, dial, cfg.SourceQueryTimeout, logger), nil
}

func PostgresDialer(table string) Dialer {
	return func(ctx context.Context, _ string, url string) (Backend, error) {
		return newPostgresBackend(ctx, url, table)
	}
}

func MongoDialer(database string, collection string) Dialer {
	return func(ctx context.Context, _ string, url string) (Backend, error) {
		return newMongoBackend(ctx, url, database, collection)
	}
}

// Branches lists the configured branch keys in sorted order.
func (r *Registry) Branches() []string {
	out := make([]string, 0, len(r.urls))
	for branch := range r.urls {
		out = append(out, branch)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) FetchPaidOrders(ctx context.Context, branch string, dateRange analytics.DateRange) ([]analytics.Order, error) {
	backend, err := r.backend(ctx, branch)
	if err != nil {
		return nil, err
	}

	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}

	orders, err := backend.FetchPaidOrders(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", analytics.ErrSourceUnavailable, err)
	}
	return orders, nil
}

// ConnectAll dials every configured branch concurrently. The first failure
// is returned; branches that did connect stay open.
func (r *Registry) ConnectAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, branch := range r.Branches() {
		branch := branch
		g.Go(func() error {
			_, err := r.backend(gctx, branch)
			return err
		})
	}
	return g.Wait()
}

func (r *Registry) backend(ctx context.Context, branch string) (Backend, error) {
	url, ok := r.urls[branch]
	if !ok {
		return nil, fmt.Errorf("%w: %q", analytics.ErrUnknownBranch, branch)
	}

	r.mu.Lock()
	existing, ok := r.backends[branch]
	r.mu.Unlock()
	if ok {
		return existing, nil
	}

	// Dial outside the lock so a slow branch does not block the others.
	opened, err := r.dial(ctx, branch, url)
	if err != nil {
		r.logger.Warn("branch connect failed", zap.String("branch", branch), zap.Error(err))
		return nil, fmt.Errorf("%w: connect branch %q: %w", analytics.ErrSourceUnavailable, branch, err)
	}

	r.mu.Lock()
	if existing, ok := r.backends[branch]; ok {
		r.mu.Unlock()
		_ = opened.Close(ctx)
		return existing, nil
	}
	r.backends[branch] = opened
	r.mu.Unlock()

	r.logger.Info("branch connected", zap.String("branch", branch))
	return opened, nil
}

func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	backends := r.backends
	r.backends = make(map[string]Backend)
	r.mu.Unlock()

	var firstErr error
	for branch, backend := range backends {
		if err := backend.Close(ctx); err != nil {
			r.logger.Warn("branch close failed", zap.String("branch", branch), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
