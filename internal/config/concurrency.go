package config

import (
	"github.com/dogmatiq/ferrite"
)

var concurrencyLimit = ferrite.
	Unsigned[uint]("PROJECTOR_CONCURRENCY_LIMIT", "the maximum number of bindings projected concurrently for a single entity snapshot").
	WithMinimum(1).
	Optional()

func (c *Config) finalizeConcurrency() {
	if c.ConcurrencyLimit < 0 {
		panic("concurrency limit must not be negative")
	}

	if c.ConcurrencyLimit == 0 && c.UseEnv {
		if n, ok := concurrencyLimit.Value(); ok {
			c.ConcurrencyLimit = int(n)
		}
	}
}
