package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Order is a zero-based display-sequence value;
// values at rest need not be contiguous or unique, listings sort by it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Available   bool            `json:"available"`
	Order       int             `json:"order"`
}

// CartLine is one product-quantity pairing held by a shopper. Name and
// UnitPrice are captured at add-time, a catalog edit does not retouch them.
type CartLine struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
