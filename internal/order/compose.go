package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/enkhjin/monshop/internal/cart"
)

const DefaultDeliveryFee = 5000

// Item is one order line on the wire.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Order is the transport payload. TotalPrice already includes the delivery
// fee; DeliveryFee is still sent separately so the receiver can show a
// breakdown without re-deriving it. Both fields stay: the duplication is the
// contract.
type Order struct {
	Items       []Item      `json:"items"`
	TotalPrice  int64       `json:"totalPrice"`
	DeliveryFee int64       `json:"deliveryFee"`
	Contact     ContactForm `json:"contact"`

	Subtotal int64     `json:"-"`
	PlacedAt time.Time `json:"-"`
}

// Composer validates a submission and turns a cart snapshot into an Order.
// Zero value composes with the default flat fee and UTC timestamps.
type Composer struct {
	Fee  int64
	Zone *time.Location
}

// Compose validates contact, then derives totals: items subtotal first, fee
// added once per order, grand total last. Validation failures happen before
// any I/O is attempted.
func (cp *Composer) Compose(entries []cart.Entry, contact ContactForm, now time.Time) (Order, error) {
	if err := contact.Validate(); err != nil {
		return Order{}, err
	}

	items := make([]Item, 0, len(entries))
	var subtotal int64
	for _, e := range entries {
		items = append(items, Item{
			Name:     e.Product.Name,
			Quantity: e.Quantity,
			Price:    e.Product.Price,
		})
		subtotal += e.Product.Price * int64(e.Quantity)
	}

	fee := cp.Fee
	if fee == 0 {
		fee = DefaultDeliveryFee
	}
	zone := cp.Zone
	if zone == nil {
		zone = time.UTC
	}

	return Order{
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		TotalPrice:  subtotal + fee,
		Contact:     contact,
		PlacedAt:    now.In(zone),
	}, nil
}

// Message renders the human-readable notification text. The wording is
// cosmetic; the fields and their order (subtotal, fee, grand total) are not.
func Message(o Order) string {
	var b strings.Builder
	b.WriteString("New order!\n\n")
	b.WriteString("Name: " + o.Contact.Name + "\n")
	b.WriteString("Phone: " + o.Contact.Phone + "\n\n")

	b.WriteString("Delivery address:\n")
	if o.Contact.Location != nil {
		for _, line := range o.Contact.Location.addressLines() {
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\nItems:\n")
	for _, it := range o.Items {
		line := it.Price * int64(it.Quantity)
		b.WriteString("• " + it.Name + " x" + strconv.Itoa(it.Quantity) +
			" — " + FormatAmount(line) + "\n")
	}

	b.WriteString("\nSubtotal: " + FormatAmount(o.Subtotal) + "\n")
	b.WriteString("Delivery: " + FormatAmount(o.DeliveryFee) + "\n")
	b.WriteString("Total: " + FormatAmount(o.TotalPrice) + "\n\n")
	b.WriteString("Time: " + o.PlacedAt.Format("2006-01-02 15:04") + "\n")
	return b.String()
}

// FormatAmount renders a tugrik amount with thousands grouping: 7500 -> "7,500₮".
func FormatAmount(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + "₮"
}
