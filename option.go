package projector

import (
	"github.com/dogmatiq/projector/internal/config"
	"github.com/dogmatiq/projector/provider"
)

// A StoreOption configures the behavior of a [Store].
type StoreOption func(*config.Config)

// WithOptionsFromEnvironment is a [StoreOption] that configures the store
// using options specified via environment variables.
//
// Any explicit options passed to [New] take precedence over options from the
// environment.
func WithOptionsFromEnvironment() StoreOption {
	return func(cfg *config.Config) {
		cfg.UseEnv = true
	}
}

// WithProvider is a [StoreOption] that sets the provider used to persist read
// models.
func WithProvider(p provider.Provider) StoreOption {
	if p == nil {
		panic("provider must not be nil")
	}

	return func(cfg *config.Config) {
		cfg.Provider = p
	}
}

// WithConcurrencyLimit is a [StoreOption] that limits the number of bindings
// that are projected concurrently for a single entity snapshot.
//
// By default there is no limit.
func WithConcurrencyLimit(n int) StoreOption {
	if n <= 0 {
		panic("concurrency limit must be positive")
	}

	return func(cfg *config.Config) {
		cfg.ConcurrencyLimit = n
	}
}
