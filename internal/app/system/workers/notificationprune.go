// internal/app/system/workers/notificationprune.go
package workers

import (
	"context"
	"sync"
	"time"

	notificationstore "github.com/nexushub/nexushub/internal/app/store/notifications"
	"go.uber.org/zap"
)

// NotificationPrune is a background worker that deletes read notifications
// once they pass a retention threshold. Unread notifications are never pruned.
type NotificationPrune struct {
	notifications *notificationstore.Store
	log           *zap.Logger
	interval      time.Duration
	retention     time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

// NewNotificationPrune creates a prune worker. interval controls how often
// the sweep runs; retention is how long a read notification is kept.
func NewNotificationPrune(store *notificationstore.Store, logger *zap.Logger, interval, retention time.Duration) *NotificationPrune {
	return &NotificationPrune{
		notifications: store,
		log:           logger,
		interval:      interval,
		retention:     retention,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the background prune loop.
func (w *NotificationPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification prune worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *NotificationPrune) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("notification prune worker stopped")
}

func (w *NotificationPrune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *NotificationPrune) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.retention)
	count, err := w.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune read notifications", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned read notifications", zap.Int64("count", count))
	}
}
