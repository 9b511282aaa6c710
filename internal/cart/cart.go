// Package cart holds a shopper's ephemeral product selection. A cart lives
// in memory for one visit, is keyed by product id (at most one line per
// product) and is never persisted.
package cart

import (
	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
)

type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{lines: make([]domain.CartLine, 0)}
}

// FromLines rebuilds a cart from transported lines, restoring the cart
// invariants: duplicate product ids merge into one line and non-positive
// quantities are dropped.
func FromLines(lines []domain.CartLine) *Cart {
	c := New()
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.index(l.ProductID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the product's line by one, inserting a new line with the
// product's current name and price when none exists yet.
func (c *Cart) Add(p domain.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// SetQuantity adjusts a line's quantity by delta, clamped at zero. A line
// that reaches zero is removed; a zero-quantity line never survives.
func (c *Cart) SetQuantity(productID string, delta int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if q := c.lines[i].Quantity + delta; q > 0 {
		c.lines[i].Quantity = q
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Remove drops the line unconditionally; no-op when absent.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is computed fresh on every call, never cached across mutations.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the summed quantity across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
