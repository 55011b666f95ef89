package trino

import (
	"context"

	"lakeingest/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real cluster connections.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

// init registers the "trino" backend with the factory.
func init() {
	storage.Register("trino", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			Host:    cfg.Trino.Host,
			Port:    cfg.Trino.Port,
			User:    cfg.Trino.User,
			Catalog: cfg.Trino.Catalog,
			Schema:  cfg.Trino.Schema,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}

// wrappedRepo adapts *trino.Repository to storage.Repository and provides
// Close. Embedding keeps the SnapshotReporter methods visible to interface
// assertions on the wrapped value.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
