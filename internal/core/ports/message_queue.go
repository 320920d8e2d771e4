package ports

import (
	"context"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/messaging/payloads"
)

// CollectionPublisher publishes collection requests for the worker.
// Used by the HTTP handlers so admin triggers return immediately.
type CollectionPublisher interface {
	PublishCollectionRequest(ctx context.Context, payload payloads.CollectionRequestPayload) error
}

// CollectionConsumer consumes collection requests from the queue.
// Used by the worker; the handler function is invoked per message.
type CollectionConsumer interface {
	StartConsumingCollectionRequests(ctx context.Context, handler func(context.Context, payloads.CollectionRequestPayload) error) error
}
