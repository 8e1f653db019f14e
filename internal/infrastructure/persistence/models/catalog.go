package models

import (
	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	NameEn         string         `gorm:"type:varchar(200);not null;default:''"`
	NameBn         string         `gorm:"type:varchar(200);not null;default:''"`
	DescriptionEn  string         `gorm:"type:text"`
	DescriptionBn  string         `gorm:"type:text"`
	Price          int64          `gorm:"not null;default:0"`
	CategoryID     string         `gorm:"type:varchar(50);not null;index"`
	CategoryNameEn string         `gorm:"type:varchar(100)"`
	CategoryNameBn string         `gorm:"type:varchar(100)"`
	ImageRef       string         `gorm:"type:varchar(500)"`
	Stock          int            `gorm:"not null;default:0"`
	Active         bool           `gorm:"not null;default:true;index"`
	Featured       bool           `gorm:"not null;default:false;index"`
	Tags           []string       `gorm:"type:jsonb;serializer:json"`
	Variants       map[string]any `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              valueobject.NewLocalizedText(m.NameEn, m.NameBn),
		Description:       valueobject.NewLocalizedText(m.DescriptionEn, m.DescriptionBn),
		Price:             m.Price,
		CategoryID:        m.CategoryID,
		CategoryName:      valueobject.NewLocalizedText(m.CategoryNameEn, m.CategoryNameBn),
		ImageRef:          m.ImageRef,
		Stock:             m.Stock,
		Active:            m.Active,
		Featured:          m.Featured,
		Tags:              m.Tags,
		Variants:          m.Variants,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Variants == nil {
		p.Variants = map[string]any{}
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.NameEn = p.Name.En
	m.NameBn = p.Name.Bn
	m.DescriptionEn = p.Description.En
	m.DescriptionBn = p.Description.Bn
	m.Price = p.Price
	m.CategoryID = p.CategoryID
	m.CategoryNameEn = p.CategoryName.En
	m.CategoryNameBn = p.CategoryName.Bn
	m.ImageRef = p.ImageRef
	m.Stock = p.Stock
	m.Active = p.Active
	m.Featured = p.Featured
	m.Tags = p.Tags
	m.Variants = p.Variants
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
