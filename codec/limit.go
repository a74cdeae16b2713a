package codec

import "fmt"

// ErrTooLarge is returned by Limit when an encoded value exceeds the cap.
type ErrTooLarge struct {
	Size, Max int
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("codec: encoded value %d bytes exceeds limit %d", e.Size, e.Max)
}

// Limit wraps a Codec and rejects encoded values larger than Max bytes.
// Oversized entities then bypass the cache instead of evicting everything
// around them.
type Limit[V any] struct {
	Inner Codec[V]
	Max   int
}

func (l Limit[V]) Encode(v V) ([]byte, error) {
	b, err := l.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if l.Max > 0 && len(b) > l.Max {
		return nil, &ErrTooLarge{Size: len(b), Max: l.Max}
	}
	return b, nil
}

func (l Limit[V]) Decode(b []byte) (V, error) { return l.Inner.Decode(b) }
