package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/giftshop/backend/internal/domain/order"
)

// WhatsAppLink builds a wa.me hand-off link that opens a chat with the shop
// prefilled with the order code and amount. An empty number disables it.
func WhatsAppLink(number string, o *order.Order) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}

	text := fmt.Sprintf("Hello! I just placed order %s (total %s %s, %s).",
		o.Code, o.TotalAmount.Amount().StringFixed(2), o.TotalAmount.Currency(), o.PaymentMethod)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
