// Package joinkey extracts the ID of a read model from an entity snapshot.
package joinkey

import (
	"math"
	"strconv"

	"github.com/dogmatiq/projector/projection"
	"google.golang.org/protobuf/types/known/structpb"
)

// Resolve returns the value of b's join key field within s.
//
// The field must be present and hold a "truthy" scalar value. Null, false, zero,
// NaN and the empty string are all treated as absent. Otherwise, it returns an
// [*projection.InvalidParameterError].
func Resolve(s projection.EntitySnapshot, b projection.Binding) (string, error) {
	v := s.Value.GetFields()[b.JoinKey]

	if k, ok := keyOf(v); ok {
		return k, nil
	}

	return "", &projection.InvalidParameterError{
		Field:    b.JoinKey,
		Snapshot: s,
	}
}

// IsTruthy returns true if v would be considered "true" in a boolean context.
//
// Structs and lists are always truthy, even when empty.
func IsTruthy(v *structpb.Value) bool {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue != ""
	case *structpb.Value_NumberValue:
		return k.NumberValue != 0 && !math.IsNaN(k.NumberValue)
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_StructValue, *structpb.Value_ListValue:
		return true
	default: // nil, *structpb.Value_NullValue
		return false
	}
}

func keyOf(v *structpb.Value) (string, bool) {
	if !IsTruthy(v) {
		return "", false
	}

	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), true
	case *structpb.Value_BoolValue:
		return "true", true
	default:
		// Structs and lists are truthy but can not identify a read model.
		return "", false
	}
}
