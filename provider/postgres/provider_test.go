package postgres_test

import (
	"context"
	"testing"

	"github.com/dogmatiq/projector/provider"
	. "github.com/dogmatiq/projector/provider/postgres"
	"github.com/dogmatiq/projector/provider/providertest"
	"github.com/dogmatiq/sqltest"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	database, err := sqltest.NewDatabase(ctx, sqltest.PGXDriver, sqltest.PostgreSQL)
	if err != nil {
		t.Fatal(err)
	}

	db, err := database.Open()
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

		if err := database.Close(); err != nil {
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
