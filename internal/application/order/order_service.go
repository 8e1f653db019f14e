// Package order implements checkout, order tracking and the staff status
// workflow.
package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	cartapp "github.com/giftshop/backend/internal/application/cart"
	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/giftshop/backend/internal/infrastructure/logger"
	"github.com/giftshop/backend/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Checkout errors
var (
	// ErrPersistence hides storage failures from clients
	ErrPersistence = shared.NewDomainError("PERSISTENCE_ERROR", "The order could not be saved, please try again")
	// ErrCheckoutInProgress is returned while a request with the same idempotency key is still running
	ErrCheckoutInProgress = shared.NewDomainError("CHECKOUT_IN_PROGRESS", "A checkout with this idempotency key is already in progress")
)

const (
	maxNameLength         = 120
	maxPhoneLength        = 32
	maxAddressLength      = 500
	maxInstructionsLength = 1000

	defaultMaxAttempts    = 5
	defaultIdempotencyTTL = 24 * time.Hour
	idempotencyKeyPrefix  = "checkout:"
)

// PromoValidator checks a promo code against a subtotal
type PromoValidator interface {
	Validate(ctx context.Context, code string, subtotal valueobject.Money) (int, error)
}

// CollisionMetrics counts order code collisions
type CollisionMetrics interface {
	RecordCodeCollision(ctx context.Context)
}

// Service places and tracks orders
type Service struct {
	orders      order.Repository
	pricer      *cartapp.Pricer
	promos      PromoValidator
	codes       order.CodeGenerator
	idempotency shared.IdempotencyStore
	events      shared.EventPublisher
	metrics     CollisionMetrics
	validate    *validator.Validate
	logger      *zap.Logger

	now            func() time.Time
	sleep          func(ctx context.Context, d time.Duration) error
	maxAttempts    int
	idempotencyTTL time.Duration
	whatsAppNumber string
}

// Option configures a Service
type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key handling
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithEventPublisher publishes order events after each save
func WithEventPublisher(events shared.EventPublisher) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithCollisionMetrics records order code retries
func WithCollisionMetrics(m CollisionMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMaxAttempts bounds order code generation retries
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithWhatsAppNumber sets the shop number used for the hand-off link
func WithWhatsAppNumber(number string) Option {
	return func(s *Service) {
		s.whatsAppNumber = number
	}
}

// WithClock overrides the clock used for order code dates
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new order service
func NewService(
	orders order.Repository,
	pricer *cartapp.Pricer,
	promos PromoValidator,
	codes order.CodeGenerator,
	opts ...Option,
) *Service {
	s := &Service{
		orders:         orders,
		pricer:         pricer,
		promos:         promos,
		codes:          codes,
		validate:       validator.New(),
		logger:         zap.NewNop(),
		now:            time.Now,
		sleep:          sleepContext,
		maxAttempts:    defaultMaxAttempts,
		idempotencyTTL: defaultIdempotencyTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create places an order. With a non-empty idempotencyKey a repeated request
// returns the order created by the first one and replayed is true.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, idempotencyKey, lang string) (resp *OrderResponse, replayed bool, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrItemCount, len(req.Items),
		telemetry.SpanAttrDeliveryZone, req.DeliveryLocation,
		telemetry.SpanAttrPaymentMethod, req.PaymentMethod,
	)
	defer span.End()

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idempotency != nil {
		var existing *OrderResponse
		existing, err = s.replay(ctx, key, lang)
		if err != nil || existing != nil {
			return existing, existing != nil, err
		}
		defer func() {
			if err != nil {
				if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), idempotencyKeyPrefix+key); releaseErr != nil {
					logger.WithLogger(ctx, s.logger).Warn("Failed to release idempotency key", zap.Error(releaseErr))
				}
			}
		}()
	}

	o, err := s.place(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderCode, o.Code)

	if key != "" && s.idempotency != nil {
		if err := s.idempotency.Complete(ctx, idempotencyKeyPrefix+key, o.Code, s.idempotencyTTL); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to record idempotency result",
				zap.String("order_code", o.Code),
				zap.Error(err),
			)
		}
	}

	out := s.toResponse(o, lang)
	return &out, false, nil
}

// replay returns the stored order for key, or reserves key and returns nil
func (s *Service) replay(ctx context.Context, key, lang string) (*OrderResponse, error) {
	storeKey := idempotencyKeyPrefix + key

	code, found, err := s.idempotency.Lookup(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if found {
		if code == "" {
			return nil, ErrCheckoutInProgress
		}
		o, err := s.orders.FindByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("load replayed order: %w", err)
		}
		out := s.toResponse(o, lang)
		return &out, nil
	}

	reserved, err := s.idempotency.Reserve(ctx, storeKey, s.idempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("idempotency reserve: %w", err)
	}
	if !reserved {
		return nil, ErrCheckoutInProgress
	}
	return nil, nil
}

func (s *Service) place(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	verr := s.validateRequest(req)

	c, err := s.pricer.Build(ctx, req.Items, req.DeliveryLocation, verr)
	if err != nil {
		return nil, s.persistenceError(ctx, "price cart", err)
	}

	if code := promotion.NormalizeCode(req.PromoCode); code != "" && !verr.HasErrors() {
		percent, err := s.promos.Validate(ctx, code, c.Subtotal())
		var domainErr *shared.DomainError
		switch {
		case err == nil:
			if err := c.ApplyPromo(code, percent); err != nil {
				return nil, err
			}
		case promotion.IsRejection(err) && errors.As(err, &domainErr):
			verr.AddDomainError("promoCode", domainErr)
		default:
			return nil, s.persistenceError(ctx, "validate promo", err)
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	s.checkHints(ctx, req, c.Breakdown())

	details := order.Details{
		Customer: order.Customer{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Address: req.CustomerAddress,
			Email:   req.CustomerEmail,
		},
		PaymentMethod:       order.PaymentMethod(normalizePayment(req.PaymentMethod)),
		SpecialInstructions: req.SpecialInstructions,
	}

	now := s.now()
	prefix := s.codes.DayPrefix(now)
	var o *order.Order
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		seq, err := s.nextSequence(ctx, prefix)
		if err != nil {
			return nil, s.persistenceError(ctx, "read latest order code", err)
		}
		code := s.codes.Format(now, seq)

		if o == nil {
			if o, err = order.NewOrder(code, details, c); err != nil {
				return nil, err
			}
		} else if err := o.Recode(code); err != nil {
			return nil, err
		}

		err = s.orders.Create(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, order.ErrDuplicateCode) {
			return nil, s.persistenceError(ctx, "create order", err, zap.String("order_code", code))
		}

		if s.metrics != nil {
			s.metrics.RecordCodeCollision(ctx)
		}
		logger.WithLogger(ctx, s.logger).Warn("Order code collision, retrying",
			zap.String("order_code", code),
			zap.Int("attempt", attempt),
		)
		if attempt == s.maxAttempts {
			return nil, s.persistenceError(ctx, "create order",
				fmt.Errorf("order code still taken after %d attempts", attempt))
		}
		if err := s.sleep(ctx, retryDelay(attempt)); err != nil {
			return nil, err
		}
	}

	logger.WithLogger(ctx, s.logger).Info("Order created",
		zap.String("order_code", o.Code),
		zap.String("total_amount", o.TotalAmount.Amount().StringFixed(2)),
	)
	s.publish(ctx, o)
	return o, nil
}

// nextSequence returns one past the highest sequence issued under prefix.
// Gaps left by failed inserts are never reused.
func (s *Service) nextSequence(ctx context.Context, prefix string) (int, error) {
	latest, err := s.orders.LatestCodeWithPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if latest == "" {
		return 1, nil
	}
	seq, ok := order.SequenceOf(latest, prefix)
	if !ok {
		return 0, fmt.Errorf("malformed order code %q", latest)
	}
	return seq + 1, nil
}

func (s *Service) validateRequest(req CreateOrderRequest) *shared.ValidationError {
	verr := &shared.ValidationError{}

	required := []struct {
		field string
		value string
		max   int
	}{
		{"customerName", req.CustomerName, maxNameLength},
		{"customerPhone", req.CustomerPhone, maxPhoneLength},
		{"customerAddress", req.CustomerAddress, maxAddressLength},
	}
	for _, r := range required {
		v := strings.TrimSpace(r.value)
		switch {
		case v == "":
			verr.Add(r.field, "is required")
		case len([]rune(v)) > r.max:
			verr.Add(r.field, fmt.Sprintf("must be at most %d characters", r.max))
		}
	}

	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			verr.Add("customerEmail", "must be a valid email address")
		}
	}
	if strings.TrimSpace(req.DeliveryLocation) == "" {
		verr.Add("deliveryLocation", "is required")
	}
	if !order.PaymentMethod(normalizePayment(req.PaymentMethod)).IsValid() {
		verr.Add("paymentMethod", "must be one of cod, bkash, nagad, whatsapp")
	}
	if len([]rune(req.SpecialInstructions)) > maxInstructionsLength {
		verr.Add("specialInstructions", fmt.Sprintf("must be at most %d characters", maxInstructionsLength))
	}

	return verr
}

// checkHints logs when the amounts the client displayed differ from the server totals
func (s *Service) checkHints(ctx context.Context, req CreateOrderRequest, b cart.Breakdown) {
	hints := []struct {
		name   string
		hint   *decimal.Decimal
		actual valueobject.Money
	}{
		{"subtotal", req.Subtotal, b.Subtotal},
		{"deliveryFee", req.DeliveryFee, b.DeliveryFee},
		{"discountAmount", req.DiscountAmount, b.Discount},
		{"totalAmount", req.TotalAmount, b.Total},
		{"finalAmount", req.FinalAmount, b.Total},
	}
	for _, h := range hints {
		if h.hint == nil || h.hint.Equal(h.actual.Amount()) {
			continue
		}
		logger.WithLogger(ctx, s.logger).Warn("Submitted order amount differs from server total",
			zap.String("field", h.name),
			zap.String("submitted", h.hint.String()),
			zap.String("computed", h.actual.Amount().String()),
		)
	}
}

// GetByCode returns an order by its public code
func (s *Service) GetByCode(ctx context.Context, code, lang string) (*OrderResponse, error) {
	code = order.NormalizeCode(code)
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "get_by_code",
		telemetry.SpanAttrOrderCode, code)
	defer span.End()

	if code == "" {
		return nil, order.ErrOrderNotFound
	}
	o, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, order.ErrOrderNotFound) {
			telemetry.RecordError(span, err)
		}
		return nil, err
	}

	out := s.toResponse(o, lang)
	return &out, nil
}

// UpdateStatus moves an order forward to status. Only pending, processing,
// shipped and delivered are accepted. The order is unchanged on any error.
func (s *Service) UpdateStatus(ctx context.Context, code, status, lang string) (*OrderResponse, error) {
	code = order.NormalizeCode(code)
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		telemetry.SpanAttrOrderCode, code,
		telemetry.SpanAttrOrderStatus, status,
	)
	defer span.End()

	target, err := order.ParseFulfilmentStatus(status)
	if err != nil {
		return nil, err
	}

	return s.change(ctx, span, code, lang, func(o *order.Order) error {
		return o.TransitionTo(target)
	})
}

// Cancel cancels a pending or processing order. The order is unchanged on any error.
func (s *Service) Cancel(ctx context.Context, code, lang string) (*OrderResponse, error) {
	code = order.NormalizeCode(code)
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "cancel",
		telemetry.SpanAttrOrderCode, code)
	defer span.End()

	return s.change(ctx, span, code, lang, (*order.Order).Cancel)
}

// change loads the order, applies fn and saves it under the version check
func (s *Service) change(ctx context.Context, span trace.Span, code, lang string, fn func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("update order status: %w", err)
	}

	ctx, _ = logger.WithOrderCode(ctx, logger.FromContext(ctx), o.Code)
	logger.WithLogger(ctx, s.logger).Info("Order status updated", zap.String("status", o.Status.String()))
	s.publish(ctx, o)

	out := s.toResponse(o, lang)
	return &out, nil
}

// List returns orders for shop staff, newest first
func (s *Service) List(ctx context.Context, filter ListOrdersFilter, lang string) ([]OrderResponse, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "list")
	defer span.End()

	domainFilter := order.Filter{Filter: shared.DefaultFilter()}
	if filter.Status != "" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Status = status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.DeliveryLocation != "" {
		domainFilter.Filters["delivery_zone"] = filter.DeliveryLocation
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = normalizePayment(filter.PaymentMethod)
	}
	if filter.CreatedFrom != nil {
		domainFilter.Filters["created_from"] = *filter.CreatedFrom
	}
	if filter.CreatedTo != nil {
		domainFilter.Filters["created_to"] = filter.CreatedTo.AddDate(0, 0, 1)
	}

	orders, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, s.toResponse(&orders[i], lang))
	}
	return out, total, nil
}

func (s *Service) toResponse(o *order.Order, lang string) OrderResponse {
	out := ToOrderResponse(o, lang)
	out.WhatsAppURL = WhatsAppLink(s.whatsAppNumber, o)
	return out
}

func (s *Service) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to publish order events",
			zap.String("order_code", o.Code),
			zap.Error(err),
		)
	}
}

// persistenceError logs err with context and returns the opaque ErrPersistence
func (s *Service) persistenceError(ctx context.Context, op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	logger.WithLogger(ctx, s.logger).Error("Checkout persistence failure", fields...)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func normalizePayment(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// retryDelay is a linear backoff with up to 100% jitter
func retryDelay(attempt int) time.Duration {
	base := time.Duration(attempt) * 10 * time.Millisecond
	return base + rand.N(base)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
