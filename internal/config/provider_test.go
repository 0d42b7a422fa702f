package config

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/dogmatiq/projector/provider/memory"
	"github.com/dogmatiq/projector/provider/sqlite"
)

func TestProviderFromDSN(t *testing.T) {
	t.Parallel()

	t.Run("it returns a memory provider", func(t *testing.T) {
		t.Parallel()

		p, err := providerFromDSN(&url.URL{Scheme: "memory"})
		if err != nil {
			t.Fatal(err)
		}

		if _, ok := p.(*memory.Provider); !ok {
			t.Fatalf("unexpected provider type: %T", p)
		}
	})

	t.Run("it returns an sqlite provider with a schema", func(t *testing.T) {
		t.Parallel()

		dsn := &url.URL{
			Scheme: "sqlite",
			Path:   filepath.Join(t.TempDir(), "projector.db"),
		}

		p, err := providerFromDSN(dsn)
		if err != nil {
			t.Fatal(err)
		}

		s, ok := p.(*sqlite.Provider)
		if !ok {
			t.Fatalf("unexpected provider type: %T", p)
		}
		t.Cleanup(func() { s.DB.Close() })
	})

	t.Run("it returns an error if the scheme is not supported", func(t *testing.T) {
		t.Parallel()

		if _, err := providerFromDSN(&url.URL{Scheme: "redis"}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it returns an error if the dynamodb table is not specified", func(t *testing.T) {
		t.Parallel()

		if _, err := providerFromDSN(&url.URL{Scheme: "dynamodb"}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
