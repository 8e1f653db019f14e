// Package promotion validates customer-entered promo codes against
// server-held discount rules.
package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/giftshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrPromoCodeExists is returned when creating a code that is already taken
var ErrPromoCodeExists = shared.NewDomainError("ALREADY_EXISTS", "Promo code already exists")

// ValidationMetrics counts promo validation outcomes
type ValidationMetrics interface {
	RecordPromoValidation(ctx context.Context, outcome telemetry.PromoOutcome)
}

// Service handles promo code lookups and validation. It never mutates a
// code while validating.
type Service struct {
	repo    promotion.PromoCodeRepository
	metrics ValidationMetrics
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics records validation outcomes on m
func WithMetrics(m ValidationMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new promo code service
func NewService(repo promotion.PromoCodeRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks code against subtotal and returns the discount percent.
// Rejections are promotion.ErrPromoNotFound, ErrPromoBelowMinimum or ErrPromoExpired.
func (s *Service) Validate(ctx context.Context, code string, subtotal valueobject.Money) (int, error) {
	normalized := promotion.NormalizeCode(code)
	ctx, span := telemetry.StartServiceSpan(ctx, "promotion", "validate",
		telemetry.SpanAttrPromoCode, normalized)
	defer span.End()

	percent, err := s.validate(ctx, normalized, subtotal)
	outcome := outcomeOf(err)
	s.record(ctx, outcome)
	telemetry.SetAttributes(span, "promo.outcome", string(outcome))
	if outcome == telemetry.PromoOutcomeFailed {
		telemetry.RecordError(span, err)
	}
	return percent, err
}

func (s *Service) validate(ctx context.Context, code string, subtotal valueobject.Money) (int, error) {
	if code == "" {
		return 0, promotion.ErrPromoNotFound
	}
	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, promotion.ErrPromoNotFound) {
			return 0, promotion.ErrPromoNotFound
		}
		return 0, fmt.Errorf("find promo code: %w", err)
	}
	return promo.Validate(subtotal, s.now())
}

// Check validates code and also returns the discount it would give on subtotal
func (s *Service) Check(ctx context.Context, code string, subtotal valueobject.Money) (*PromoCheckResponse, error) {
	percent, err := s.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	return &PromoCheckResponse{
		Code:            promotion.NormalizeCode(code),
		DiscountPercent: percent,
		Subtotal:        subtotal.Amount(),
		DiscountAmount:  subtotal.Percent(percent).Amount(),
	}, nil
}

// GetActive returns a code that can currently be applied. Inactive and
// expired codes are reported as not found.
func (s *Service) GetActive(ctx context.Context, code string) (*PromoCodeResponse, error) {
	normalized := promotion.NormalizeCode(code)
	ctx, span := telemetry.StartServiceSpan(ctx, "promotion", "get_active",
		telemetry.SpanAttrPromoCode, normalized)
	defer span.End()

	if normalized == "" {
		return nil, promotion.ErrPromoNotFound
	}
	promo, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !promo.Active || promo.IsExpired(s.now()) {
		return nil, promotion.ErrPromoNotFound
	}

	resp := ToPromoCodeResponse(promo)
	return &resp, nil
}

// Create stores a new promo code
func (s *Service) Create(ctx context.Context, req CreatePromoCodeRequest) (*PromoCodeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "promotion", "create",
		telemetry.SpanAttrPromoCode, promotion.NormalizeCode(req.Code))
	defer span.End()

	promo, err := promotion.NewPromoCode(req.Code, req.DiscountPercent, req.MinOrder, req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, promo.Code)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("check promo code: %w", err)
	}
	if exists {
		return nil, ErrPromoCodeExists
	}

	if err := s.repo.Save(ctx, promo); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save promo code: %w", err)
	}

	s.logger.Info("Promo code created",
		zap.String("code", promo.Code),
		zap.Int("discount_percent", promo.DiscountPercent),
	)

	resp := ToPromoCodeResponse(promo)
	return &resp, nil
}

func (s *Service) record(ctx context.Context, outcome telemetry.PromoOutcome) {
	if s.metrics != nil {
		s.metrics.RecordPromoValidation(ctx, outcome)
	}
}

func outcomeOf(err error) telemetry.PromoOutcome {
	switch {
	case err == nil:
		return telemetry.PromoAccepted
	case errors.Is(err, promotion.ErrPromoNotFound):
		return telemetry.PromoNotFound
	case errors.Is(err, promotion.ErrPromoBelowMinimum):
		return telemetry.PromoBelowMinimum
	case errors.Is(err, promotion.ErrPromoExpired):
		return telemetry.PromoExpired
	default:
		return telemetry.PromoOutcomeFailed
	}
}
