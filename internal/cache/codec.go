package cache

import (
	"fmt"

	"github.com/golang/snappy"
)

// Codec transforms payloads on their way into and out of a backend
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// PlainCodec stores payloads as is
type PlainCodec struct{}

func (PlainCodec) Encode(data []byte) ([]byte, error) { return data, nil }
func (PlainCodec) Decode(data []byte) ([]byte, error) { return data, nil }

// SnappyCodec compresses payloads with snappy block encoding
type SnappyCodec struct{}

func (SnappyCodec) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

func (SnappyCodec) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}
	return out, nil
}
