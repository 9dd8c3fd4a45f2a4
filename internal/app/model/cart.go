package model

// ItemKey identifies a cart line. The same product added under two
// different categories produces two distinct lines.
type ItemKey struct {
	ProductID uint   `json:"product_id"`
	Category  string `json:"category"`
}

// LineItem is one product entry in the cart with its quantity.
type LineItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category,omitempty"`
}

func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.ProductID, Category: li.Category}
}

// Cart holds line items in insertion order. Insertion order is display
// order and must survive snapshot round-trips.
type Cart struct {
	Lines []LineItem `json:"lines"`
}

// Subtotal is derived on every call, never stored.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, li := range c.Lines {
		total += li.UnitPrice * float64(li.Quantity)
	}
	return total
}

// ItemCount is the badge count: sum of quantities, not the line count.
func (c *Cart) ItemCount() int {
	var count int
	for _, li := range c.Lines {
		count += li.Quantity
	}
	return count
}

// IndexOf returns the position of the line with the given key, or -1.
func (c *Cart) IndexOf(key ItemKey) int {
	for i, li := range c.Lines {
		if li.Key() == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. Checkout freezes a clone of the cart so
// later cart edits cannot change an in-flight order payload.
func (c *Cart) Clone() Cart {
	lines := make([]LineItem, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
