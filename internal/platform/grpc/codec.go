package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// JSONCodecName is the content subtype under which JSONCodec is registered.
const JSONCodecName = "json"

// JSONCodec marshals gRPC messages as JSON. It lets services exchange plain Go
// structs without generated protobuf types.
type JSONCodec struct{}

// Name implements encoding.Codec.
func (JSONCodec) Name() string { return JSONCodecName }

// Marshal implements encoding.Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal implements encoding.Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal %T: %w", v, err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(JSONCodec{})
}
