package service

import (
	"context"
	"time"

	"claimhub/internal/model"
	"claimhub/internal/repository"
)

// ClaimNotifier records claim lifecycle events asynchronously. Events are
// buffered on a channel and flushed in batches; when the buffer is full the
// event is written synchronously instead. Notification failure never affects
// the claim state change that produced the event.
type ClaimNotifier struct {
	eventRepo repository.ClaimEventRepository
	events    chan model.ClaimEvent
}

// NewClaimNotifier creates a notifier and starts its background worker.
func NewClaimNotifier(eventRepo repository.ClaimEventRepository) *ClaimNotifier {
	n := &ClaimNotifier{
		eventRepo: eventRepo,
		events:    make(chan model.ClaimEvent, 100),
	}
	go n.worker(context.Background())
	return n
}

// Notify enqueues an event without blocking the caller.
func (n *ClaimNotifier) Notify(ctx context.Context, event model.ClaimEvent) {
	select {
	case n.events <- event:
	default:
		// Channel full, write synchronously as fallback
		_ = n.eventRepo.Create(ctx, &event)
	}
}

// worker batches event writes.
func (n *ClaimNotifier) worker(ctx context.Context) {
	batch := make([]model.ClaimEvent, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-n.events:
			if !ok {
				// Channel closed, flush remaining events
				if len(batch) > 0 {
					_ = n.eventRepo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, event)
			if len(batch) >= 10 {
				_ = n.eventRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = n.eventRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}
