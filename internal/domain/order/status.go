package order

import (
	"fmt"
	"strings"

	"github.com/giftshop/backend/internal/domain/shared"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Status errors
var (
	ErrInvalidStatus     = shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	ErrInvalidTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Order cannot move to the requested status")
)

// AllStatuses returns every status in lifecycle order
func AllStatuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseStatus converts a request value into a Status, rejecting anything outside the known set
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ParseFulfilmentStatus parses the target of a status update. Only the
// fulfilment states are accepted; cancellation goes through Order.Cancel.
func ParseFulfilmentStatus(s string) (Status, error) {
	status, err := ParseStatus(s)
	if err != nil || status == StatusCancelled {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo checks if the status can move to target.
// Fulfilment moves forward one step at a time; cancellation is only
// possible before the parcel leaves the shop.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false
	}
	return false
}

func transitionError(from, to Status) error {
	return shared.NewDomainError(ErrInvalidTransition.Code,
		fmt.Sprintf("Cannot move order from %s to %s", from, to))
}
