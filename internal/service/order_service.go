package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"vitrine/internal/config"
	"vitrine/internal/domain"
)

// OrderService renders a cart plus delivery details into the WhatsApp
// hand-off. Orders are never stored here; durability is whatever the
// messaging channel provides.
type OrderService struct {
	business config.Business
}

func NewOrderService(business config.Business) *OrderService {
	return &OrderService{business: business}
}

// OrderSummary is the composed hand-off: the human-readable message, the
// deep link carrying it percent-encoded, and the computed grand total.
type OrderSummary struct {
	Message string          `json:"message"`
	Link    string          `json:"link"`
	Total   decimal.Decimal `json:"total"`
}

// Compose builds the order message. Address is the only mandatory field.
// The cart is left untouched; clearing it after a successful hand-off is the
// caller's move.
func (s *OrderService) Compose(lines []domain.CartLine, name, address, note string) (*OrderSummary, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: delivery address is required", ErrInvalidInput)
	}

	total := decimal.Zero
	var b strings.Builder
	fmt.Fprintf(&b, "🍦 *Novo Pedido - %s*\n\n", s.business.Name)
	if n := strings.TrimSpace(name); n != "" {
		fmt.Fprintf(&b, "👤 *Nome:* %s\n", n)
	}
	fmt.Fprintf(&b, "📍 *Endereço:* %s\n\n", address)
	b.WriteString("🛒 *Itens:*\n")
	for _, l := range lines {
		sub := l.Subtotal()
		total = total.Add(sub)
		fmt.Fprintf(&b, "• %dx %s - R$%s\n", l.Quantity, l.Name, formatAmount(sub))
	}
	fmt.Fprintf(&b, "\n💰 *Total:* R$%s\n", formatAmount(total))
	if n := strings.TrimSpace(note); n != "" {
		fmt.Fprintf(&b, "\n📝 *Observação:* %s", n)
	}

	message := b.String()
	return &OrderSummary{
		Message: message,
		Link:    WhatsAppLink(s.business.PhoneNumber, message),
		Total:   total,
	}, nil
}

// WhatsAppLink builds the wa.me deep link with the message percent-encoded.
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}

// formatAmount renders two decimal places with the Brazilian comma separator.
func formatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
