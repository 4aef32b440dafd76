package ingest

import "errors"

// ErrEmptyMessage is returned when a Nym poll yields a message with no
// payload bytes.
var ErrEmptyMessage = errors.New("ingest: empty message payload from mixnet")

// ErrEmptyReplyTag is returned when a Nym poll yields a message with no
// sender reply tag, which would make any response unroutable.
var ErrEmptyReplyTag = errors.New("ingest: empty reply tag from mixnet")
