package models

import (
	"time"

	"github.com/giftshop/backend/internal/domain/promotion"
)

// PromoCodeModel is the persistence model for the PromoCode domain entity.
type PromoCodeModel struct {
	AggregateModel
	Code            string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	DiscountPercent int        `gorm:"not null"`
	MinOrder        int64      `gorm:"not null;default:0"`
	Active          bool       `gorm:"not null;default:true"`
	ExpiresAt       *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (PromoCodeModel) TableName() string {
	return "promo_codes"
}

// ToDomain converts the persistence model to a domain PromoCode entity.
func (m *PromoCodeModel) ToDomain() *promotion.PromoCode {
	return &promotion.PromoCode{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		DiscountPercent:   m.DiscountPercent,
		MinOrder:          m.MinOrder,
		Active:            m.Active,
		ExpiresAt:         m.ExpiresAt,
	}
}

// FromDomain populates the persistence model from a domain PromoCode entity.
func (m *PromoCodeModel) FromDomain(p *promotion.PromoCode) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.DiscountPercent = p.DiscountPercent
	m.MinOrder = p.MinOrder
	m.Active = p.Active
	m.ExpiresAt = p.ExpiresAt
}

// PromoCodeModelFromDomain creates a new persistence model from a domain PromoCode entity.
func PromoCodeModelFromDomain(p *promotion.PromoCode) *PromoCodeModel {
	m := &PromoCodeModel{}
	m.FromDomain(p)
	return m
}
