package worker

import (
	"context"
	"time"

	"learningpal/internal/model"
)

// InlineRecorder writes generation events straight to the store. It is used
// when no broker is configured.
type InlineRecorder struct {
	store   EventStore
	timeout time.Duration
}

func NewInlineRecorder(store EventStore, timeout time.Duration) *InlineRecorder {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &InlineRecorder{store: store, timeout: timeout}
}

func (r *InlineRecorder) Publish(ctx context.Context, event model.GenerationEvent) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	return r.store.Create(ctx, &event)
}
