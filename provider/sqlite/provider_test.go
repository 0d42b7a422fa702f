package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dogmatiq/projector/provider"
	"github.com/dogmatiq/projector/provider/providertest"
	. "github.com/dogmatiq/projector/provider/sqlite"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "projector.db"))
	if err != nil {
		t.Fatal(err)
	}

	if err := CreateSchema(ctx, db); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}
	})

	providertest.RunTests(
		t,
		func(t *testing.T) provider.Provider {
			return &Provider{
				DB: db,
			}
		},
	)
}

func TestCreateSchema(t *testing.T) {
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "projector.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(ctx, db); err != nil {
			t.Fatalf("attempt #%d: %s", i+1, err)
		}
	}
}
