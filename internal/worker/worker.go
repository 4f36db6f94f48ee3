package worker

import (
	"context"
	"log"

	"taruvae-orders/internal/broker"
	"taruvae-orders/internal/localcache"
	"taruvae-orders/internal/models"
	"taruvae-orders/internal/reconcile"
	"taruvae-orders/internal/redisclient"
	"taruvae-orders/internal/util"

	"go.uber.org/zap"
)

// SyncWorker subscribes to the order feed and mirrors it into the
// device-local cache, invalidating the Redis list cache for the
// affected owner. This is the push half of the dual-source design:
// the local cache stays warm even when the remote store is later
// unreachable at read time.
type SyncWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	local        *localcache.Cache
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(
	consumer *broker.Consumer,
	local *localcache.Cache,
	redis *redisclient.Client,
) *SyncWorker {
	w := &SyncWorker{
		consumer: consumer,
		local:    local,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *SyncWorker) Start(ctx context.Context) error {
	log.Println("Starting order sync worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SyncWorker) Stop() error {
	log.Println("Stopping order sync worker...")
	return w.consumer.Close()
}

func (w *SyncWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if err := w.local.UpsertOrder(event.Order); err != nil {
		return err
	}
	w.invalidate(ctx, event.OwnerEmail)
	w.logger.Info("Mirrored placed order into local cache",
		zap.String("order_id", event.Order.OrderID))
	return nil
}

func (w *SyncWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	entry := models.StatusEntry{
		Status:  event.Status,
		Date:    event.ChangedAt,
		Message: event.Message,
	}
	found, err := w.local.UpdateStatus(event.OrderID, event.Status, entry)
	if err != nil {
		return err
	}
	if !found {
		w.logger.Debug("Status change for order not in local cache",
			zap.String("order_id", event.OrderID))
	}
	w.invalidate(ctx, event.OwnerEmail)
	return nil
}

func (w *SyncWorker) invalidate(ctx context.Context, ownerEmail string) {
	owner := reconcile.NormalizeEmail(ownerEmail)
	if owner == "" {
		return
	}
	if err := w.redis.InvalidateOrderList(ctx, owner); err != nil {
		w.logger.Warn("Failed to invalidate order list cache",
			zap.String("owner", owner),
			zap.Error(err))
	}
}
