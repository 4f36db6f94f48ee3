package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taruvae-orders/internal/broker"
	"taruvae-orders/internal/localcache"
	"taruvae-orders/internal/models"
	"taruvae-orders/internal/reconcile"
	"taruvae-orders/internal/redisclient"
	"taruvae-orders/internal/store"
	"taruvae-orders/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order business logic: placement into both
// stores, reconciled listing, tracking and the admin operations.
type OrderService struct {
	store          *store.Store
	local          *localcache.Cache
	redis          *redisclient.Client
	reconciler     *reconcile.Reconciler
	eventPublisher *broker.EventPublisher
	listCacheTTL   time.Duration
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	st *store.Store,
	local *localcache.Cache,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	remoteTimeout time.Duration,
	listCacheTTL time.Duration,
) *OrderService {
	return &OrderService{
		store:          st,
		local:          local,
		redis:          redis,
		reconciler:     reconcile.NewReconciler(st, local, remoteTimeout),
		eventPublisher: eventPublisher,
		listCacheTTL:   listCacheTTL,
		logger:         util.GetLogger(),
	}
}

// PlaceOrderRequest represents a checkout submission
type PlaceOrderRequest struct {
	Customer        models.Customer        `json:"customer" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	Items           []PlaceOrderItem       `json:"items" binding:"required,min=1"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	Shipping        float64                `json:"shipping"`
	UserID          string                 `json:"userId,omitempty"`
	IdempotencyKey  string                 `json:"idempotency_key,omitempty"`
}

// PlaceOrderItem is one cart line in a checkout submission
type PlaceOrderItem struct {
	ID       int64   `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

// TrackingInfo is the tracking view of one order: its position on the
// five-step fulfillment timeline plus the canonical progress fraction.
type TrackingInfo struct {
	Order     models.Order `json:"order"`
	Step      int          `json:"step"`
	StepCount int          `json:"stepCount"`
	Fraction  float64      `json:"fraction"`
	Cancelled bool         `json:"cancelled"`
}

// PlaceOrder creates a new order: writes it to the remote store and
// the local cache, publishes the OrderPlaced event and guards against
// duplicate submissions via the idempotency key.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if req.Customer.Email == "" {
		util.OrdersPlaceFailedTotal.WithLabelValues("missing_email").Inc()
		return nil, fmt.Errorf("customer email is required")
	}

	if req.IdempotencyKey != "" {
		if orderID, seen := s.redis.GetIdempotencyKey(ctx, req.IdempotencyKey); seen {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("order_id", orderID))
			return s.store.GetOrder(ctx, orderID)
		}
	}

	order := s.buildOrder(req)

	if err := s.store.InsertOrder(ctx, order); err != nil {
		util.OrdersPlaceFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Local cache is best-effort; the remote write already succeeded.
	if err := s.local.UpsertOrder(*order); err != nil {
		s.logger.Warn("Failed to write order to local cache",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.Float64("total", order.Total))

	ownerEmail := reconcile.NormalizeEmail(order.Customer.Email)

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		Order:      *order,
		OwnerEmail: ownerEmail,
	}
	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	if req.IdempotencyKey != "" {
		if err := s.redis.SetIdempotencyKey(ctx, req.IdempotencyKey, order.OrderID, 24*time.Hour); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}
	if err := s.redis.InvalidateOrderList(ctx, ownerEmail); err != nil {
		s.logger.Warn("Failed to invalidate order list cache", zap.Error(err))
	}

	return order, nil
}

// buildOrder turns a checkout submission into a complete order
// document: generated id, computed totals, seeded status history,
// tracking number and explicit owner reference.
func (s *OrderService) buildOrder(req *PlaceOrderRequest) *models.Order {
	now := time.Now().UTC()
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	orderID := fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)

	items := make([]models.OrderItem, len(req.Items))
	var subtotal float64
	for i, it := range req.Items {
		total := it.Price * float64(it.Quantity)
		items[i] = models.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Total:    total,
		}
		subtotal += total
	}

	paymentMethod := models.PaymentMethodOnline
	if req.PaymentMethod == models.PaymentMethodCOD {
		paymentMethod = models.PaymentMethodCOD
	}

	owner := &models.OwnerRef{Kind: models.OwnerByEmail, Value: reconcile.NormalizeEmail(req.Customer.Email)}
	if req.UserID != "" {
		owner = &models.OwnerRef{Kind: models.OwnerByID, Value: req.UserID}
	}

	orderDate := now.Format(time.RFC3339)
	customer := req.Customer
	shipping := req.ShippingAddress

	return &models.Order{
		OrderID:         orderID,
		Customer:        &customer,
		ShippingAddress: &shipping,
		Items:           items,
		PaymentMethod:   paymentMethod,
		Subtotal:        subtotal,
		Shipping:        req.Shipping,
		Total:           subtotal + req.Shipping,
		OrderDate:       orderDate,
		Status:          models.StatusConfirmed,
		TrackingNumber:  "TRK" + strings.TrimPrefix(orderID, "ORD-"),
		StatusHistory: []models.StatusEntry{{
			Status:  models.StatusConfirmed,
			Date:    orderDate,
			Message: "Order confirmed and payment received",
		}},
		UserID: req.UserID,
		Owner:  owner,
	}
}

// ListOrders returns the requesting user's reconciled order list,
// serving from the Redis cache when possible. Partial results are
// never cached.
func (s *OrderService) ListOrders(ctx context.Context, user reconcile.Identity) reconcile.Result {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	owner := reconcile.NormalizeEmail(user.Email)
	if owner != "" {
		if cached, hit := s.redis.GetOrderList(ctx, owner); hit {
			util.ListCacheHitsTotal.Inc()
			return reconcile.Result{Orders: cached}
		}
		util.ListCacheMissesTotal.Inc()
	}

	result := s.reconciler.Reconcile(ctx, user)

	if owner != "" && !result.Partial {
		if err := s.redis.SetOrderList(ctx, owner, result.Orders, s.listCacheTTL); err != nil {
			s.logger.Warn("Failed to cache order list",
				zap.String("owner", owner),
				zap.Error(err))
		}
	}
	return result
}

// GetTracking returns the timeline view of one of the user's orders
func (s *OrderService) GetTracking(ctx context.Context, orderID string, user reconcile.Identity) (*TrackingInfo, error) {
	result := s.ListOrders(ctx, user)
	for _, o := range result.Orders {
		if o.OrderID != orderID {
			continue
		}
		step := reconcile.Progress(o.Status)
		return &TrackingInfo{
			Order:     o,
			Step:      step,
			StepCount: reconcile.ProgressSteps,
			Fraction:  reconcile.ProgressFraction(o.Status),
			Cancelled: o.Status == models.StatusCancelled,
		}, nil
	}
	return nil, fmt.Errorf("order not found: %s", orderID)
}

// ListAllOrders is the admin view: every order from both sources,
// merged and normalized, with no ownership filter.
func (s *OrderService) ListAllOrders(ctx context.Context) reconcile.Result {
	return s.reconciler.ReconcileAll(ctx)
}

// ListCustomers aggregates all orders into per-customer summaries
// for the admin panel.
func (s *OrderService) ListCustomers(ctx context.Context) []models.CustomerSummary {
	result := s.reconciler.ReconcileAll(ctx)
	return reconcile.AggregateCustomers(result.Orders)
}

// UpdateStatus applies an admin status transition: persists it to the
// remote store, mirrors it into the local cache and publishes the
// status change on the order feed.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status, message string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if message == "" {
		message = defaultStatusMessage(status)
	}

	entry := models.StatusEntry{
		Status:  status,
		Date:    time.Now().UTC().Format(time.RFC3339),
		Message: message,
	}

	order, err := s.store.UpdateOrderStatus(ctx, orderID, status, entry)
	if err != nil {
		return nil, err
	}

	if _, err := s.local.UpdateStatus(orderID, status, entry); err != nil {
		s.logger.Warn("Failed to update order status in local cache",
			zap.String("order_id", orderID),
			zap.Error(err))
	}

	util.StatusUpdatesTotal.WithLabelValues(status).Inc()

	ownerEmail := ""
	if order.Customer != nil {
		ownerEmail = reconcile.NormalizeEmail(order.Customer.Email)
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		Status:     status,
		Message:    message,
		ChangedAt:  entry.Date,
		OwnerEmail: ownerEmail,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	if ownerEmail != "" {
		if err := s.redis.InvalidateOrderList(ctx, ownerEmail); err != nil {
			s.logger.Warn("Failed to invalidate order list cache", zap.Error(err))
		}
	}

	return order, nil
}

func defaultStatusMessage(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "Order confirmed and payment received"
	case models.StatusProcessing:
		return "Order is being packed"
	case models.StatusShipped:
		return "Order handed over to the courier"
	case models.StatusOutForDelivery:
		return "Order is out for delivery"
	case models.StatusDelivered:
		return "Order delivered"
	case models.StatusCancelled:
		return "Order cancelled"
	}
	return "Status updated"
}
