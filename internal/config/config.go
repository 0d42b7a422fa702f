// Package config builds the configuration of a [projector.Store].
package config

import (
	"github.com/dogmatiq/projector/internal/instrumented"
	"github.com/dogmatiq/projector/internal/telemetry"
	"github.com/dogmatiq/projector/provider"
)

// Config encapsulates the configuration of a [projector.Store], built by
// applying [projector.StoreOption] functions and, optionally, reading
// environment variables.
type Config struct {
	UseEnv           bool
	Telemetry        *telemetry.Provider
	Provider         provider.Provider
	ConcurrencyLimit int
}

// New returns a new configuration for a [projector.Store].
func New[Option ~func(*Config)](options []Option) Config {
	c := Config{
		Telemetry: &telemetry.Provider{},
	}

	for _, opt := range options {
		opt(&c)
	}

	c.finalize()

	return c
}

func (c *Config) finalize() {
	c.finalizeTelemetry()
	c.finalizeProvider()
	c.finalizeConcurrency()
}

func (c *Config) finalizeProvider() {
	if c.Provider == nil && c.UseEnv {
		if dsn, ok := providerDSN.Value(); ok {
			p, err := providerFromDSN(dsn)
			if err != nil {
				panic(err)
			}
			c.Provider = p
		}
	}

	if c.Provider == nil {
		panic("no read model provider is configured, set PROJECTOR_PROVIDER_DSN or provide the WithProvider() option")
	}

	c.Provider = instrumented.New(c.Provider, c.Telemetry)
}
