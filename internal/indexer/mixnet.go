package indexer

import (
	"zindexer/internal/ingest"
	"zindexer/internal/worker"
)

// MixnetClient is the full contract a mix-network SDK client must
// satisfy to back the Nym ingress path end to end: NymIngestor polls it
// for inbound messages, and workers use the same value to reply by
// reply tag. The SDK itself lives outside this module; this just names
// the one concrete type the Server needs when Nym ingress is enabled.
type MixnetClient interface {
	ingest.MixnetClient
	worker.NymReplySink
}
