package projection_test

import (
	"strings"
	"testing"

	"github.com/dogmatiq/projector/internal/test"
	. "github.com/dogmatiq/projector/projection"
)

func TestRegistryBuilder_DeclareYAML(t *testing.T) {
	t.Parallel()

	t.Run("it declares the bindings in the document", func(t *testing.T) {
		t.Parallel()

		var b RegistryBuilder
		err := b.DeclareYAML(strings.NewReader(`
bindings:
  - entity: Cart
    readModel: CartSummary
    joinKey: cartId
  - entity: Cart
    readModel: CartAudit
    joinKey: customerId
`))
		if err != nil {
			t.Fatal(err)
		}

		test.Expect(
			t,
			"unexpected bindings",
			b.Build().Bindings("Cart"),
			[]Binding{
				{EntityTypeName: "Cart", ReadModelTypeName: "CartSummary", JoinKey: "cartId"},
				{EntityTypeName: "Cart", ReadModelTypeName: "CartAudit", JoinKey: "customerId"},
			},
		)
	})

	t.Run("it accepts an empty document", func(t *testing.T) {
		t.Parallel()

		var b RegistryBuilder
		if err := b.DeclareYAML(strings.NewReader("")); err != nil {
			t.Fatal(err)
		}

		test.Expect(t, "unexpected entity types", b.Build().EntityTypes(), nil)
	})

	cases := []struct {
		Name string
		Doc  string
	}{
		{
			"it returns an error if the document is malformed",
			"bindings: [",
		},
		{
			"it returns an error if the document contains unknown fields",
			"bindings:\n  - entity: Cart\n    readModel: CartSummary\n    joinKey: cartId\n    priority: 1\n",
		},
		{
			"it returns an error if the entity is empty",
			"bindings:\n  - readModel: CartSummary\n    joinKey: cartId\n",
		},
		{
			"it returns an error if the read model is empty",
			"bindings:\n  - entity: Cart\n    joinKey: cartId\n",
		},
		{
			"it returns an error if the join key is empty",
			"bindings:\n  - entity: Cart\n    readModel: CartSummary\n",
		},
		{
			"it returns an error if the document contains duplicate bindings",
			"bindings:\n  - entity: Cart\n    readModel: CartSummary\n    joinKey: cartId\n  - entity: Cart\n    readModel: CartSummary\n    joinKey: cartId\n",
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			var b RegistryBuilder
			if err := b.DeclareYAML(strings.NewReader(c.Doc)); err == nil {
				t.Fatal("expected an error")
			}

			test.Expect(t, "unexpected entity types", b.Build().EntityTypes(), nil)
		})
	}

	t.Run("it returns an error if a binding is already declared", func(t *testing.T) {
		t.Parallel()

		var b RegistryBuilder
		b.Declare("Cart", "CartSummary", "cartId")

		err := b.DeclareYAML(strings.NewReader("bindings:\n  - entity: Cart\n    readModel: CartSummary\n    joinKey: cartId\n"))
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}
