package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes proto.Message values. V must be a pointer to a
// generated message type; New must return a fresh instance to decode into.
type Protobuf[V proto.Message] struct {
	New func() V
}

func (p Protobuf[V]) Encode(v V) ([]byte, error) { return proto.Marshal(v) }

func (p Protobuf[V]) Decode(b []byte) (V, error) {
	var zero V
	if p.New == nil {
		return zero, fmt.Errorf("codec: Protobuf requires a New factory")
	}
	v := p.New()
	if err := proto.Unmarshal(b, v); err != nil {
		return zero, err
	}
	return v, nil
}
