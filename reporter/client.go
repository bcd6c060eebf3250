package reporter

import "context"

// Client is the opaque channel to the artifact collector. Sends are
// fire-and-forget: delivery confirmation, if it ever comes, arrives later
// as an independent inbound payload on the bound handler. No temporal
// pairing between a given send and the next inbound payload is assumed.
type Client interface {
	// Send submits a serialized payload to the named destination.
	Send(ctx context.Context, dst string, data []byte) error

	// Bind registers the handler invoked for each inbound payload
	// addressed to this client.
	Bind(handler func(src string, data []byte))

	// Close releases the channel.
	Close(ctx context.Context) error
}
