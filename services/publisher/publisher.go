package publisher

import "context"

// Publisher represents a service for handing parsed deals to downstream
// consumers
type Publisher interface {
	// Publish publishes a deal payload under the given source key
	Publish(ctx context.Context, key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}
