package event

import (
	"context"

	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderMetrics is satisfied by telemetry.BusinessMetrics
type OrderMetrics interface {
	RecordOrderCreated(ctx context.Context, zone, paymentMethod string, total decimal.Decimal)
	RecordStatusTransition(ctx context.Context, status string)
}

// MetricsRecorder turns order events into business metrics
type MetricsRecorder struct {
	metrics OrderMetrics
}

// NewMetricsRecorder creates a MetricsRecorder
func NewMetricsRecorder(metrics OrderMetrics) *MetricsRecorder {
	return &MetricsRecorder{metrics: metrics}
}

// EventTypes returns the order events the recorder counts
func (h *MetricsRecorder) EventTypes() []string {
	return []string{order.EventTypeOrderCreated, order.EventTypeOrderStatusChanged}
}

// Handle records one event
func (h *MetricsRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		h.metrics.RecordOrderCreated(ctx, e.DeliveryZone, string(e.PaymentMethod), e.TotalAmount)
	case *order.OrderStatusChangedEvent:
		h.metrics.RecordStatusTransition(ctx, e.To.String())
	}
	return nil
}

// LogNotifier writes one structured log line per storefront event so shop
// staff can follow new orders and catalog edits in the log stream.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("events")}
}

// EventTypes returns nil so the notifier sees every event
func (h *LogNotifier) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *LogNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		fields = append(fields,
			zap.String("order_code", e.OrderCode),
			zap.String("delivery_zone", e.DeliveryZone),
			zap.String("payment_method", string(e.PaymentMethod)),
			zap.Int("item_count", e.ItemCount),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
		)
		if e.PromoCode != "" {
			fields = append(fields, zap.String("promo_code", e.PromoCode))
		}
		h.logger.Info("New order placed", fields...)
	case *order.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("order_code", e.OrderCode),
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)
		h.logger.Info("Order status changed", fields...)
	case *catalog.ProductCreatedEvent:
		h.logger.Info("Product created", append(fields,
			zap.String("product_id", e.ProductID.String()),
			zap.String("name", e.NameEn),
			zap.String("category_id", e.CategoryID),
		)...)
	case *catalog.ProductStatusChangedEvent:
		h.logger.Info("Product visibility changed", append(fields,
			zap.String("product_id", e.ProductID.String()),
			zap.Bool("active", e.Active),
		)...)
	default:
		h.logger.Debug("Domain event", append(fields,
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)...)
	}
	return nil
}
