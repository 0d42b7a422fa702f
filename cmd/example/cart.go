package main

import (
	"bytes"
	_ "embed"

	"github.com/dogmatiq/projector/projection"
	"google.golang.org/protobuf/types/known/structpb"
)

//go:embed bindings.yaml
var bindings []byte

// newCartRegistry returns the registry of the read models projected from the
// Cart entity.
func newCartRegistry() (*projection.Registry, error) {
	var b projection.RegistryBuilder

	if err := b.DeclareYAML(bytes.NewReader(bindings)); err != nil {
		return nil, err
	}

	b.Implement("Cart", "CartSummary", projectCartSummary)
	b.Implement("Cart", "CartAudit", projectCartAudit)

	return b.Build(), nil
}

// projectCartSummary maintains the number of items in each cart. Empty carts
// have no summary.
func projectCartSummary(
	cart *structpb.Struct,
	_ *projection.ReadModel,
) projection.Outcome {
	items := cart.GetFields()["items"].GetListValue().GetValues()
	if len(items) == 0 {
		return projection.Delete()
	}

	return projection.Replace(&projection.ReadModel{
		Value: &structpb.Struct{
			Fields: map[string]*structpb.Value{
				"cartId":    cart.GetFields()["cartId"],
				"itemCount": structpb.NewNumberValue(float64(len(items))),
			},
		},
	})
}

// projectCartAudit counts the changes made to each cart.
func projectCartAudit(
	cart *structpb.Struct,
	current *projection.ReadModel,
) projection.Outcome {
	var changes float64
	if current != nil {
		changes = current.Value.GetFields()["changes"].GetNumberValue()
	}

	return projection.Replace(&projection.ReadModel{
		Value: &structpb.Struct{
			Fields: map[string]*structpb.Value{
				"cartId":  cart.GetFields()["cartId"],
				"changes": structpb.NewNumberValue(changes + 1),
			},
		},
	})
}
