package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// PromoOutcome labels a promo code validation result
type PromoOutcome string

const (
	PromoAccepted      PromoOutcome = "accepted"
	PromoNotFound      PromoOutcome = "not_found"
	PromoBelowMinimum  PromoOutcome = "below_minimum"
	PromoExpired       PromoOutcome = "expired"
	PromoOutcomeFailed PromoOutcome = "error"
)

// BusinessMetrics records storefront activity: placed orders, order value,
// status transitions, promo validations and order code collisions.
type BusinessMetrics struct {
	ordersCreated     *Counter
	orderAmount       *Histogram
	orderRevenue      *Counter
	statusTransitions *Counter
	promoValidations  *Counter
	codeCollisions    *Counter
}

// NewBusinessMetrics creates the storefront instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error

	if bm.ordersCreated, err = NewCounter(meter,
		"giftshop_orders_created_total", "Orders placed", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "giftshop_order_amount",
		Description: "Order total distribution",
		Unit:        "{BDT}",
		Boundaries:  OrderAmountBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.orderRevenue, err = NewCounter(meter,
		"giftshop_order_revenue_poisha_total", "Order totals summed in poisha", "{poisha}"); err != nil {
		return nil, err
	}
	if bm.statusTransitions, err = NewCounter(meter,
		"giftshop_order_status_transitions_total", "Order status changes", "{transitions}"); err != nil {
		return nil, err
	}
	if bm.promoValidations, err = NewCounter(meter,
		"giftshop_promo_validations_total", "Promo code validations by outcome", "{validations}"); err != nil {
		return nil, err
	}
	if bm.codeCollisions, err = NewCounter(meter,
		"giftshop_order_code_collisions_total", "Order code unique violations retried", "{collisions}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordOrderCreated counts a placed order and its total
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, zone, paymentMethod string, total decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrDeliveryZone.String(zone), AttrPaymentMethod.String(paymentMethod)}
	bm.ordersCreated.Inc(ctx, attrs...)
	bm.orderAmount.Record(ctx, total.InexactFloat64(), attrs...)
	bm.orderRevenue.Add(ctx, total.Shift(2).IntPart(), attrs...)
}

// RecordStatusTransition counts a status change into status
func (bm *BusinessMetrics) RecordStatusTransition(ctx context.Context, status string) {
	bm.statusTransitions.Inc(ctx, AttrOrderStatus.String(status))
}

// RecordPromoValidation counts a promo validation outcome
func (bm *BusinessMetrics) RecordPromoValidation(ctx context.Context, outcome PromoOutcome) {
	bm.promoValidations.Inc(ctx, AttrPromoOutcome.String(string(outcome)))
}

// RecordCodeCollision counts an order code that was already taken
func (bm *BusinessMetrics) RecordCodeCollision(ctx context.Context) {
	bm.codeCollisions.Inc(ctx)
}
