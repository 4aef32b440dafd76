// Package request defines the tagged Request variant that flows from an
// ingestor through the queue to a worker.
package request

import (
	"net"

	"github.com/google/uuid"
)

// Kind distinguishes the two ingress transports a Request may have
// arrived over.
type Kind int

const (
	// Grpc requests arrived over a TCP connection carrying the wallet
	// gRPC protocol.
	Grpc Kind = iota
	// Nym requests arrived as an opaque mix-network message.
	Nym
)

// Request is created by an ingestor, transferred through the queue, and
// consumed exactly once by a worker. ID is a random UUID and is used
// only for logging/tracing, never for ordering or dedup.
type Request struct {
	ID   uuid.UUID
	Kind Kind

	// Conn is set for Kind == Grpc: the accepted connection the worker
	// serves the wallet protocol over.
	Conn net.Conn

	// ReplyTag and Payload are set for Kind == Nym.
	ReplyTag string
	Payload  []byte
}

// NewGrpc builds a Request wrapping a just-accepted TCP connection.
func NewGrpc(conn net.Conn) Request {
	return Request{ID: uuid.New(), Kind: Grpc, Conn: conn}
}

// NewNym builds a Request wrapping a decoded mix-network message. Both
// replyTag and payload must be non-empty; callers should check
// ErrEmptyReplyTag/ErrEmptyMessage conditions before calling this (see
// internal/ingest).
func NewNym(replyTag string, payload []byte) Request {
	return Request{ID: uuid.New(), Kind: Nym, ReplyTag: replyTag, Payload: payload}
}
