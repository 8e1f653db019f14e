package persistence

import (
	"context"
	"errors"

	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPromoCodeRepository implements PromoCodeRepository using GORM
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewGormPromoCodeRepository creates a new GormPromoCodeRepository
func NewGormPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// FindByCode finds a promo code by its code, active or not
func (r *GormPromoCodeRepository) FindByCode(ctx context.Context, code string) (*promotion.PromoCode, error) {
	var model models.PromoCodeModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", promotion.NormalizeCode(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promotion.ErrPromoNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a promo code
func (r *GormPromoCodeRepository) Save(ctx context.Context, promo *promotion.PromoCode) error {
	return r.db.WithContext(ctx).Save(models.PromoCodeModelFromDomain(promo)).Error
}

// ExistsByCode checks if a promo code exists
func (r *GormPromoCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PromoCodeModel{}).
		Where("code = ?", promotion.NormalizeCode(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPromoCodeRepository implements PromoCodeRepository
var _ promotion.PromoCodeRepository = (*GormPromoCodeRepository)(nil)
