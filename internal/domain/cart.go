package domain

// Shipping rules, in cents.
const (
	FreeShippingThreshold int64 = 50_00
	FlatShippingRate      int64 = 15_00
)

// MaxQuantity caps the units of one product in a cart. Quantities saturate at
// it rather than overflowing.
const MaxQuantity = 999

// CartItem is a product paired with a purchase quantity in [1, MaxQuantity].
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart is an ordered list of items holding at most one item per product ID.
//
// Every transition returns a new Cart and leaves the receiver untouched.
type Cart []CartItem

// Totals are the values derived from a cart.
type Totals struct {
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"item_count"`
}

// ClearCart returns an empty cart.
func ClearCart() Cart {
	return Cart{}
}

func (c Cart) index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c), len(c)+1)
	copy(out, c)
	return out
}

// Add increments the quantity of an existing item for p, or appends p with
// quantity 1.
func (c Cart) Add(p Product) Cart {
	out := c.clone()
	if i := out.index(p.ID); i >= 0 {
		out[i].Quantity = addQuantity(out[i].Quantity, 1)
		return out
	}
	return append(out, CartItem{Product: p.Clone(), Quantity: 1})
}

// UpdateQuantity adds delta to the item's quantity, clamped to
// [1, MaxQuantity]. An unknown id leaves the cart unchanged.
func (c Cart) UpdateQuantity(id string, delta int) Cart {
	out := c.clone()
	if i := out.index(id); i >= 0 {
		out[i].Quantity = addQuantity(out[i].Quantity, delta)
	}
	return out
}

// addQuantity returns q+delta clamped to [1, MaxQuantity] without overflowing
// for any delta.
func addQuantity(q, delta int) int {
	q = min(max(q, 1), MaxQuantity)
	switch {
	case delta > MaxQuantity-q:
		return MaxQuantity
	case delta < 1-q:
		return 1
	default:
		return q + delta
	}
}

// Remove drops the item with the given id. An unknown id is a no-op.
func (c Cart) Remove(id string) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Contains reports whether the cart holds an item for id.
func (c Cart) Contains(id string) bool {
	return c.index(id) >= 0
}

// Subtotal sums price times quantity over all items.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, item := range c {
		total += item.LineTotal()
	}
	return total
}

// Shipping is free strictly above FreeShippingThreshold.
func (c Cart) Shipping() int64 {
	return ShippingFor(c.Subtotal())
}

// ShippingFor returns the shipping charge for a subtotal.
func ShippingFor(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingRate
}

// Total is subtotal plus shipping.
func (c Cart) Total() int64 {
	return c.Subtotal() + c.Shipping()
}

// ItemCount sums quantities, counting units rather than distinct products.
func (c Cart) ItemCount() int {
	var count int
	for _, item := range c {
		count += item.Quantity
	}
	return count
}

// Totals computes all derived values at once.
func (c Cart) Totals() Totals {
	subtotal := c.Subtotal()
	shipping := ShippingFor(subtotal)
	return Totals{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal + shipping,
		ItemCount: c.ItemCount(),
	}
}

// Normalize repairs a cart decoded from storage: items with an empty id are
// dropped, duplicate ids are merged and quantities are clamped to
// [1, MaxQuantity].
func (c Cart) Normalize() Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID == "" {
			continue
		}
		qty := min(max(item.Quantity, 1), MaxQuantity)
		if i := out.index(item.ID); i >= 0 {
			out[i].Quantity = addQuantity(out[i].Quantity, qty)
			continue
		}
		item.Quantity = qty
		out = append(out, item)
	}
	return out
}
