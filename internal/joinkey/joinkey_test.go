package joinkey_test

import (
	"errors"
	"math"
	"strconv"
	"testing"

	. "github.com/dogmatiq/projector/internal/joinkey"
	"github.com/dogmatiq/projector/internal/test"
	"github.com/dogmatiq/projector/projection"
	"google.golang.org/protobuf/types/known/structpb"
	"pgregory.net/rapid"
)

var binding = projection.Binding{
	EntityTypeName:    "Cart",
	ReadModelTypeName: "CartSummary",
	JoinKey:           "cartId",
}

func snapshot(fields map[string]*structpb.Value) projection.EntitySnapshot {
	return projection.EntitySnapshot{
		EntityTypeName: "Cart",
		Value:          &structpb.Struct{Fields: fields},
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("it returns the value of the join key field", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			Desc  string
			Value *structpb.Value
			Want  string
		}{
			{"string", structpb.NewStringValue("c1"), "c1"},
			{"integer", structpb.NewNumberValue(42), "42"},
			{"negative number", structpb.NewNumberValue(-1.5), "-1.5"},
			{"true", structpb.NewBoolValue(true), "true"},
		}

		for _, c := range cases {
			c := c // capture loop variable

			t.Run(c.Desc, func(t *testing.T) {
				t.Parallel()

				got, err := Resolve(
					snapshot(map[string]*structpb.Value{"cartId": c.Value}),
					binding,
				)
				if err != nil {
					t.Fatal(err)
				}

				test.Expect(t, "unexpected join key", got, c.Want)
			})
		}
	})

	t.Run("it returns an InvalidParameterError if the field is missing or falsy", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			Desc   string
			Fields map[string]*structpb.Value
		}{
			{"missing field", map[string]*structpb.Value{"other": structpb.NewStringValue("c1")}},
			{"nil struct", nil},
			{"null", map[string]*structpb.Value{"cartId": structpb.NewNullValue()}},
			{"empty string", map[string]*structpb.Value{"cartId": structpb.NewStringValue("")}},
			{"zero", map[string]*structpb.Value{"cartId": structpb.NewNumberValue(0)}},
			{"NaN", map[string]*structpb.Value{"cartId": structpb.NewNumberValue(math.NaN())}},
			{"false", map[string]*structpb.Value{"cartId": structpb.NewBoolValue(false)}},
			{"value with no kind", map[string]*structpb.Value{"cartId": {}}},
			{"struct", map[string]*structpb.Value{"cartId": structpb.NewStructValue(&structpb.Struct{})}},
			{"list", map[string]*structpb.Value{"cartId": structpb.NewListValue(&structpb.ListValue{})}},
		}

		for _, c := range cases {
			c := c // capture loop variable

			t.Run(c.Desc, func(t *testing.T) {
				t.Parallel()

				s := snapshot(c.Fields)

				_, err := Resolve(s, binding)

				var target *projection.InvalidParameterError
				if !errors.As(err, &target) {
					t.Fatalf("expected InvalidParameterError, got %v", err)
				}

				test.Expect(t, "unexpected field name", target.Field, "cartId")
				test.Expect(t, "unexpected snapshot", target.Snapshot, s)
			})
		}
	})

	t.Run("it resolves any non-empty string", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			want := rapid.StringN(1, -1, -1).Draw(t, "id")

			got, err := Resolve(
				snapshot(map[string]*structpb.Value{"cartId": structpb.NewStringValue(want)}),
				binding,
			)
			if err != nil {
				t.Fatal(err)
			}

			test.Expect(t, "unexpected join key", got, want)
		})
	})

	t.Run("it resolves any non-zero number using its shortest representation", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			n := rapid.Float64().
				Filter(func(v float64) bool { return v != 0 && !math.IsNaN(v) }).
				Draw(t, "n")

			got, err := Resolve(
				snapshot(map[string]*structpb.Value{"cartId": structpb.NewNumberValue(n)}),
				binding,
			)
			if err != nil {
				t.Fatal(err)
			}

			test.Expect(t, "unexpected join key", got, strconv.FormatFloat(n, 'f', -1, 64))
		})
	})
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		if got, want := IsTruthy(structpb.NewStringValue(s)), s != ""; got != want {
			t.Fatalf("IsTruthy(%q) = %t, want %t", s, got, want)
		}
	})
}
