package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
)

// Product errors
var (
	ErrProductNotFound = shared.NewDomainError("NOT_FOUND", "Product not found")
	ErrInvalidPrice    = shared.NewDomainError("INVALID_PRICE", "Price must be a non-negative whole amount")
	ErrInvalidStock    = shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	ErrInvalidName     = shared.NewDomainError("INVALID_NAME", "Product name is required in at least one language")
)

const maxNameLength = 200

// Product represents a sellable item in the storefront catalog.
// Inactive products stay stored so historical orders remain readable,
// but they are hidden from customer-facing reads.
type Product struct {
	shared.BaseAggregateRoot
	Name         valueobject.LocalizedText
	Description  valueobject.LocalizedText
	Price        int64 // whole taka
	CategoryID   string
	CategoryName valueobject.LocalizedText
	ImageRef     string // absolute URL or object-storage key
	Stock        int
	Active       bool
	Featured     bool
	Tags         []string
	Variants     map[string]any
}

// NewProduct creates a new active product
func NewProduct(name valueobject.LocalizedText, price int64, category Category) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		CategoryID:        category.ID,
		CategoryName:      category.Name,
		Active:            true,
		Tags:              []string{},
		Variants:          map[string]any{},
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's display text
func (p *Product) Update(name, description valueobject.LocalizedText) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice sets the unit price in whole taka
func (p *Product) SetPrice(price int64) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	p.Price = price
	p.touch()
	return nil
}

// SetStock sets the stock count
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	p.Stock = stock
	p.touch()
	return nil
}

// SetCategory moves the product into a category
func (p *Product) SetCategory(category Category) {
	p.CategoryID = category.ID
	p.CategoryName = category.Name
	p.touch()
}

// SetImage sets the image reference
func (p *Product) SetImage(ref string) {
	p.ImageRef = strings.TrimSpace(ref)
	p.touch()
}

// SetTags replaces the tag set, dropping blanks and duplicates
func (p *Product) SetTags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	p.Tags = out
	p.touch()
}

// SetVariants replaces the free-form variant metadata
func (p *Product) SetVariants(variants map[string]any) {
	if variants == nil {
		variants = map[string]any{}
	}
	p.Variants = variants
	p.touch()
}

// SetFeatured marks or unmarks the product as featured
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.touch()
}

// Activate makes the product visible to customers
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Active = true
	p.touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p))
	return nil
}

// Deactivate hides the product from customers without deleting it
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Active = false
	p.touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p))
	return nil
}

// IsAvailable reports whether customers may see and buy the product
func (p *Product) IsAvailable() bool {
	return p.Active
}

// PriceMoney returns the price as Money in BDT
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.TakaFromInt(p.Price)
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name valueobject.LocalizedText) error {
	if name.IsEmpty() {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(name.En) > maxNameLength || utf8.RuneCountInString(name.Bn) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
