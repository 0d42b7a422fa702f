package projection_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/dogmatiq/projector/projection"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestBindingError(t *testing.T) {
	t.Parallel()

	cause := errors.New("<cause>")
	err := &BindingError{
		Binding: Binding{
			EntityTypeName:    "Cart",
			ReadModelTypeName: "CartSummary",
			JoinKey:           "cartId",
		},
		Err: cause,
	}

	if !errors.Is(err, cause) {
		t.Fatal("expected the error to wrap its cause")
	}

	for _, s := range []string{"Cart", "CartSummary", `"cartId"`, "<cause>"} {
		if !strings.Contains(err.Error(), s) {
			t.Fatalf("expected %q to contain %q", err.Error(), s)
		}
	}
}

func TestInvalidParameterError(t *testing.T) {
	t.Parallel()

	err := &InvalidParameterError{
		Field: "cartId",
		Snapshot: EntitySnapshot{
			EntityTypeName: "Cart",
			Value: &structpb.Struct{
				Fields: map[string]*structpb.Value{
					"customerId": structpb.NewStringValue("u1"),
				},
			},
		},
	}

	for _, s := range []string{`"cartId"`, "Cart", "customerId"} {
		if !strings.Contains(err.Error(), s) {
			t.Fatalf("expected %q to contain %q", err.Error(), s)
		}
	}
}
