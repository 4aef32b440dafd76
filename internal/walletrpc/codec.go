package walletrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec marshals the hand-authored wire types in this package as
// JSON instead of protobuf wire format. grpc-go's default "proto" codec
// requires every message to implement proto.Message, which these
// stand-ins deliberately do not (generating that from the real
// CompactTxStreamer descriptor is out of scope here, see types.go).
// Registering this codec under the name "proto" overrides grpc-go's
// built-in codec for every *grpc.Server/ClientConn in the process that
// doesn't request a different one explicitly, the same override point
// grpc-go's own encoding/encoding.go documents for non-protobuf payloads.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
