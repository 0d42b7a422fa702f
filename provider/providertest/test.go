// Package providertest contains a conformance test suite for
// [provider.Provider] implementations.
package providertest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dogmatiq/projector/projection"
	"github.com/dogmatiq/projector/provider"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
)

// RunTests runs tests that confirm a provider implementation behaves
// correctly.
func RunTests(
	t *testing.T,
	newProvider func(t *testing.T) provider.Provider,
) {
	setup := func(t *testing.T) (context.Context, provider.Provider, string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		t.Cleanup(cancel)

		// Use a unique read model type for each test so that providers backed
		// by a shared database do not interfere with each other.
		readModelType := "<read-model-" + uuid.NewString() + ">"

		return ctx, newProvider(t), readModelType
	}

	t.Run("func Fetch()", func(t *testing.T) {
		t.Run("it returns nil if the read model does not exist", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			rm, err := p.Fetch(ctx, readModelType, "<id>")
			if err != nil {
				t.Fatal(err)
			}

			if rm != nil {
				t.Fatalf("unexpected read model: %v", rm)
			}
		})

		t.Run("it returns the stored read model", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			value := newValue(t, 1)
			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: value}); err != nil {
				t.Fatal(err)
			}

			expectReadModel(ctx, t, p, readModelType, &projection.ReadModel{
				ID:       "<id>",
				Revision: 1,
				Value:    value,
			})
		})

		t.Run("it isolates read models of different types with the same ID", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)
			otherType := readModelType + "<other>"

			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: newValue(t, 1)}); err != nil {
				t.Fatal(err)
			}

			expectReadModel(ctx, t, p, otherType, nil)
		})

		t.Run("it does not perform naive key concatenation", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Store(ctx, readModelType+"a", &projection.ReadModel{ID: "b", Value: newValue(t, 1)}); err != nil {
				t.Fatal(err)
			}

			rm, err := p.Fetch(ctx, readModelType, "ab")
			if err != nil {
				t.Fatal(err)
			}
			if rm != nil {
				t.Fatalf("unexpected read model: %v", rm)
			}
		})
	})

	t.Run("func Store()", func(t *testing.T) {
		t.Run("it replaces the existing read model", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: newValue(t, 1)}); err != nil {
				t.Fatal(err)
			}

			want := newValue(t, 2)
			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: 1, Value: want}); err != nil {
				t.Fatal(err)
			}

			expectReadModel(ctx, t, p, readModelType, &projection.ReadModel{
				ID:       "<id>",
				Revision: 2,
				Value:    want,
			})
		})

		t.Run("it returns a conflict error if the read model already exists", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: newValue(t, 1)}); err != nil {
				t.Fatal(err)
			}

			err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: newValue(t, 2)})
			expectConflict(t, err, readModelType, "<id>", 0)
		})

		t.Run("it returns a conflict error if the revision is stale", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			for rev := uint64(0); rev < 2; rev++ {
				if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: rev, Value: newValue(t, rev)}); err != nil {
					t.Fatal(err)
				}
			}

			err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: 1, Value: newValue(t, 3)})
			expectConflict(t, err, readModelType, "<id>", 1)
		})

		t.Run("it returns a conflict error if the read model does not exist at the given revision", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: 3, Value: newValue(t, 1)})
			expectConflict(t, err, readModelType, "<id>", 3)
		})

		t.Run("it allows exactly one of several concurrent writers to succeed", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			var (
				g         sync.WaitGroup
				succeeded atomic.Int64
			)

			for i := 0; i < 5; i++ {
				value := newValue(t, uint64(i))
				g.Add(1)

				go func() {
					defer g.Done()

					err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: value})
					if err == nil {
						succeeded.Add(1)
					} else if !errors.As(err, new(*provider.ConflictError)) {
						t.Error(err)
					}
				}()
			}

			g.Wait()

			if n := succeeded.Load(); n != 1 {
				t.Fatalf("unexpected number of successful writes: got %d, want 1", n)
			}
		})
	})

	t.Run("func Delete()", func(t *testing.T) {
		t.Run("it removes the read model", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: newValue(t, 1)}); err != nil {
				t.Fatal(err)
			}

			rm, err := p.Fetch(ctx, readModelType, "<id>")
			if err != nil {
				t.Fatal(err)
			}

			if err := p.Delete(ctx, readModelType, rm); err != nil {
				t.Fatal(err)
			}

			expectReadModel(ctx, t, p, readModelType, nil)
		})

		t.Run("it allows the read model to be recreated", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: newValue(t, 1)}); err != nil {
				t.Fatal(err)
			}

			if err := p.Delete(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: 1}); err != nil {
				t.Fatal(err)
			}

			want := newValue(t, 2)
			if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Value: want}); err != nil {
				t.Fatal(err)
			}

			expectReadModel(ctx, t, p, readModelType, &projection.ReadModel{
				ID:       "<id>",
				Revision: 1,
				Value:    want,
			})
		})

		t.Run("it does not return an error if the read model does not exist", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Delete(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: 1}); err != nil {
				t.Fatal(err)
			}
		})

		t.Run("it does nothing if the read model is nil", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			if err := p.Delete(ctx, readModelType, nil); err != nil {
				t.Fatal(err)
			}
		})

		t.Run("it returns a conflict error if the revision is stale", func(t *testing.T) {
			t.Parallel()

			ctx, p, readModelType := setup(t)

			for rev := uint64(0); rev < 2; rev++ {
				if err := p.Store(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: rev, Value: newValue(t, rev)}); err != nil {
					t.Fatal(err)
				}
			}

			err := p.Delete(ctx, readModelType, &projection.ReadModel{ID: "<id>", Revision: 1})
			expectConflict(t, err, readModelType, "<id>", 1)

			rm, err := p.Fetch(ctx, readModelType, "<id>")
			if err != nil {
				t.Fatal(err)
			}
			if rm == nil {
				t.Fatal("expected read model to remain after conflicting delete")
			}
		})
	})
}

func newValue(t *testing.T, n uint64) *structpb.Struct {
	t.Helper()

	v, err := structpb.NewStruct(map[string]any{
		"name":  fmt.Sprintf("<value-%d>", n),
		"count": float64(n),
		"tags":  []any{"a", "b"},
		"nested": map[string]any{
			"flag": true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return v
}

func expectReadModel(
	ctx context.Context,
	t *testing.T,
	p provider.Provider,
	readModelType string,
	want *projection.ReadModel,
) {
	t.Helper()

	id := "<id>"
	if want != nil {
		id = want.ID
	}

	got, err := p.Fetch(ctx, readModelType, id)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Fatal(diff)
	}
}

func expectConflict(
	t *testing.T,
	err error,
	readModelType, id string,
	rev uint64,
) {
	t.Helper()

	var conflict *provider.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected a conflict error, got %v", err)
	}

	want := &provider.ConflictError{
		ReadModelTypeName: readModelType,
		ID:                id,
		Revision:          rev,
	}

	if diff := cmp.Diff(want, conflict); diff != "" {
		t.Fatal(diff)
	}
}
