// Package codec defines value (de)serialization for the cache.
//
// JSON is the default and the only codec whose output is embedded verbatim
// in logical-expiration envelopes; binary codecs (Msgpack, CBOR, Protobuf)
// are base64-wrapped there but stored as-is on the pass-through path.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
