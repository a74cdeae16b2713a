package codec

import "github.com/fxamacker/cbor/v2"

// CBOR serializes values using fxamacker/cbor/v2 with the default encoding
// options. Deterministic enough for cache payloads; not canonical CBOR.
type CBOR[V any] struct{}

func (CBOR[V]) Encode(v V) ([]byte, error) { return cbor.Marshal(v) }

func (CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := cbor.Unmarshal(b, &v)
	return v, err
}
