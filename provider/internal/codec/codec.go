// Package codec encodes read model values for storage.
package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var marshalOptions = proto.MarshalOptions{
	Deterministic: true,
}

// Marshal returns the binary representation of v.
func Marshal(v *structpb.Struct) ([]byte, error) {
	if v == nil {
		return []byte{}, nil
	}

	data, err := marshalOptions.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal read model: %w", err)
	}

	return data, nil
}

// Unmarshal returns the value represented by data.
func Unmarshal(data []byte) (*structpb.Struct, error) {
	v := &structpb.Struct{}

	if err := proto.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("unable to unmarshal read model: %w", err)
	}

	return v, nil
}
