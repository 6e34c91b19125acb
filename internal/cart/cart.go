package cart

import "github.com/enkhjin/monshop/internal/catalog"

// Entry is one product in the cart with its quantity. Quantity is always >= 1;
// an update that would drop it to zero removes the entry instead.
type Entry struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart holds the selected items of a single shopping session. Entries keep
// insertion order; adding a product already present bumps its quantity in
// place. A Cart is not safe for concurrent use; the owning session
// serializes access.
type Cart struct {
	entries []Entry
	subs    map[int]func()
	nextSub int
}

func New() *Cart {
	return &Cart{subs: map[int]func(){}}
}

// Subscribe registers fn to run after every mutation that changes the cart.
// The returned func removes the subscription.
func (c *Cart) Subscribe(fn func()) func() {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Cart) notify() {
	for _, fn := range c.subs {
		fn()
	}
}

func (c *Cart) find(productID string) int {
	for i := range c.entries {
		if c.entries[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of p, appending a new entry on first add.
// Stock is advisory here; no availability check happens.
func (c *Cart) AddItem(p catalog.Product) {
	if i := c.find(p.ID); i >= 0 {
		c.entries[i].Quantity++
	} else {
		c.entries = append(c.entries, Entry{Product: p, Quantity: 1})
	}
	c.notify()
}

// RemoveItem deletes the entry for productID. Absent id is a no-op.
func (c *Cart) RemoveItem(productID string) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.notify()
}

// UpdateQuantity sets the entry's quantity. qty <= 0 removes the entry;
// an absent id is a no-op and never creates an entry.
func (c *Cart) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.entries[i].Quantity = qty
	c.notify()
}

func (c *Cart) Clear() {
	if len(c.entries) == 0 {
		return
	}
	c.entries = nil
	c.notify()
}

// Items returns a snapshot copy of the entries in insertion order.
func (c *Cart) Items() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// TotalItems is the sum of quantities, recomputed on every call.
func (c *Cart) TotalItems() int {
	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// TotalPrice is the sum of price x quantity, recomputed on every call.
func (c *Cart) TotalPrice() int64 {
	var sum int64
	for _, e := range c.entries {
		sum += e.Product.Price * int64(e.Quantity)
	}
	return sum
}
