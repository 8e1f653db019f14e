package cart

import (
	"fmt"
	"strings"

	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
)

// ErrUnknownZone is returned for a delivery zone that is not configured
var ErrUnknownZone = shared.NewDomainError("UNKNOWN_DELIVERY_ZONE", "Unknown delivery zone")

// DeliveryZone is a named delivery-fee bracket
type DeliveryZone struct {
	ID   string
	Name valueobject.LocalizedText
	Fee  int64 // whole taka
}

// DeliveryZones is the static zone to fee table. The fee never depends on cart contents.
type DeliveryZones struct {
	byID  map[string]DeliveryZone
	order []string
}

// NewDeliveryZones builds a zone table, rejecting duplicate ids and negative fees
func NewDeliveryZones(zones ...DeliveryZone) (DeliveryZones, error) {
	t := DeliveryZones{byID: make(map[string]DeliveryZone, len(zones))}
	for _, z := range zones {
		z.ID = strings.TrimSpace(z.ID)
		if z.ID == "" {
			return DeliveryZones{}, fmt.Errorf("delivery zone id is required")
		}
		if z.Fee < 0 {
			return DeliveryZones{}, fmt.Errorf("delivery zone %q has a negative fee", z.ID)
		}
		if _, dup := t.byID[z.ID]; dup {
			return DeliveryZones{}, fmt.Errorf("delivery zone %q is defined twice", z.ID)
		}
		t.byID[z.ID] = z
		t.order = append(t.order, z.ID)
	}
	return t, nil
}

// Lookup returns the zone with the given id
func (t DeliveryZones) Lookup(id string) (DeliveryZone, error) {
	z, ok := t.byID[id]
	if !ok {
		return DeliveryZone{}, ErrUnknownZone
	}
	return z, nil
}

// Fee returns the delivery fee for a zone
func (t DeliveryZones) Fee(id string) (valueobject.Money, error) {
	z, err := t.Lookup(id)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.TakaFromInt(z.Fee), nil
}

// Has reports whether the zone exists
func (t DeliveryZones) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// All returns zones in configuration order
func (t DeliveryZones) All() []DeliveryZone {
	out := make([]DeliveryZone, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}
