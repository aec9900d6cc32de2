package service

import (
	"context"
	"log"
	"time"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// Notifier delivers a policy violation notice to a creator. Delivery is
// fire-and-forget: failures are logged and never block the policy
// decision that triggered them.
type Notifier interface {
	Notify(ctx context.Context, creatorID string, violation model.ViolationType, metadata map[string]any) error
}

// LogNotifier writes notifications to the process log. The production
// email/push channel implements Notifier behind the same interface.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, creatorID string, violation model.ViolationType, metadata map[string]any) error {
	log.Printf("notify: creator=%s violation=%s metadata=%v", creatorID, violation, metadata)
	return nil
}

// notifyAsync dispatches a notification on its own goroutine with a
// bounded deadline, detached from the caller's request context.
func notifyAsync(n Notifier, creatorID string, violation model.ViolationType, metadata map[string]any) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := n.Notify(ctx, creatorID, violation, metadata); err != nil {
			log.Printf("notify: delivery error for creator %s: %v", creatorID, err)
		}
	}()
}
