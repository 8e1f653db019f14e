package catalog

import (
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
)

// ErrUnknownCategory is returned when a product references a category outside the reference list
var ErrUnknownCategory = shared.NewDomainError("UNKNOWN_CATEGORY", "Unknown product category")

// Category is static storefront reference data. It is not persisted;
// products copy the category's id and names when assigned.
type Category struct {
	ID       string
	Name     valueobject.LocalizedText
	Icon     string
	MinPrice int64 // lowest price shown on the category tile, whole taka
}

var categories = []Category{
	{ID: "gift-boxes", Name: valueobject.LocalizedText{En: "Gift Boxes", Bn: "উপহার বক্স"}, Icon: "gift", MinPrice: 450},
	{ID: "home-decor", Name: valueobject.LocalizedText{En: "Home Decor", Bn: "গৃহসজ্জা"}, Icon: "home", MinPrice: 250},
	{ID: "jewelry", Name: valueobject.LocalizedText{En: "Jewelry", Bn: "গহনা"}, Icon: "gem", MinPrice: 350},
	{ID: "handicrafts", Name: valueobject.LocalizedText{En: "Handicrafts", Bn: "হস্তশিল্প"}, Icon: "palette", MinPrice: 300},
	{ID: "personal-care", Name: valueobject.LocalizedText{En: "Personal Care", Bn: "ব্যক্তিগত যত্ন"}, Icon: "sparkles", MinPrice: 200},
	{ID: "stationery", Name: valueobject.LocalizedText{En: "Stationery", Bn: "স্টেশনারি"}, Icon: "pen", MinPrice: 120},
}

// Categories returns a copy of the category reference list in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory looks up a category by id
func FindCategory(id string) (Category, error) {
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrUnknownCategory
}
