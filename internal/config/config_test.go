package config_test

import (
	"testing"

	. "github.com/dogmatiq/projector/internal/config"
	"github.com/dogmatiq/projector/internal/instrumented"
	"github.com/dogmatiq/projector/internal/test"
	"github.com/dogmatiq/projector/provider/memory"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("it wraps the provider with instrumentation", func(t *testing.T) {
		t.Parallel()

		p := &memory.Provider{}
		cfg := New([]func(*Config){
			func(cfg *Config) { cfg.Provider = p },
		})

		inst, ok := cfg.Provider.(*instrumented.Provider)
		if !ok {
			t.Fatalf("unexpected provider type: %T", cfg.Provider)
		}

		if inst.Next != p {
			t.Fatal("expected the instrumented provider to forward to the configured provider")
		}
	})

	t.Run("it populates default telemetry providers", func(t *testing.T) {
		t.Parallel()

		cfg := New([]func(*Config){
			func(cfg *Config) { cfg.Provider = &memory.Provider{} },
		})

		if cfg.Telemetry.TracerProvider == nil {
			t.Fatal("expected a tracer provider")
		}

		if cfg.Telemetry.MeterProvider == nil {
			t.Fatal("expected a meter provider")
		}

		if cfg.Telemetry.Logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("it retains explicit telemetry providers", func(t *testing.T) {
		t.Parallel()

		tel := test.NewTelemetryProvider(t)

		cfg := New([]func(*Config){
			func(cfg *Config) {
				cfg.Provider = &memory.Provider{}
				cfg.Telemetry = tel
			},
		})

		if cfg.Telemetry != tel {
			t.Fatal("expected the explicit telemetry provider to be retained")
		}
	})

	t.Run("it retains the concurrency limit", func(t *testing.T) {
		t.Parallel()

		cfg := New([]func(*Config){
			func(cfg *Config) {
				cfg.Provider = &memory.Provider{}
				cfg.ConcurrencyLimit = 3
			},
		})

		test.Expect(t, "unexpected concurrency limit", cfg.ConcurrencyLimit, 3)
	})

	t.Run("it panics if no provider is configured", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic")
			}
		}()

		New([]func(*Config){})
	})

	t.Run("it panics if the concurrency limit is negative", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic")
			}
		}()

		New([]func(*Config){
			func(cfg *Config) {
				cfg.Provider = &memory.Provider{}
				cfg.ConcurrencyLimit = -1
			},
		})
	})
}
