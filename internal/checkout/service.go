package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/enkhjin/monshop/internal/cart"
	kafkax "github.com/enkhjin/monshop/internal/kafka"
	"github.com/enkhjin/monshop/internal/metrics"
	"github.com/enkhjin/monshop/internal/order"
	"github.com/enkhjin/monshop/internal/session"
)

// ErrEmptyCart rejects a submission with nothing in the cart.
const ErrEmptyCart = order.ValidationError("empty cart")

// Transport delivers a composed order to the notification channel.
type Transport interface {
	Send(ctx context.Context, o order.Order) error
}

// Publisher is the slice of the Kafka producer the service needs.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service runs the submission protocol: snapshot the cart, compose, send,
// and only then clear. Failures leave the cart and form untouched so the
// shopper can retry.
type Service struct {
	Composer  *order.Composer
	Transport Transport
	Producer  Publisher     // optional: OrderAccepted events
	Metrics   *metrics.Shop // optional
	Service   string
}

type Result struct {
	OrderID string
	Order   order.Order
}

// Submit composes and sends one order for the session's cart. The caller
// holds the session's checkout guard for the duration of this call.
func (s *Service) Submit(ctx context.Context, sess *session.Session, contact order.ContactForm) (Result, error) {
	started := time.Now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.CheckoutMS.Observe(float64(time.Since(started).Milliseconds()))
		}
	}()

	var entries []cart.Entry
	sess.With(func(c *cart.Cart) { entries = c.Items() })

	o, err := s.Composer.Compose(entries, contact, time.Now())
	if err != nil {
		s.count("rejected")
		return Result{}, err
	}
	if len(o.Items) == 0 {
		s.count("rejected")
		return Result{}, ErrEmptyCart
	}

	// Validation is done; the transport call is the only I/O.
	if err := s.Transport.Send(ctx, o); err != nil {
		s.count("failed")
		return Result{}, &order.TransportError{Err: err}
	}

	// Confirmed accepted: clearing the cart is the single state change.
	sess.With(func(c *cart.Cart) { c.Clear() })

	orderID := uuid.NewString()
	s.publishAccepted(orderID, entries, o)
	s.count("accepted")
	return Result{OrderID: orderID, Order: o}, nil
}

func (s *Service) publishAccepted(orderID string, entries []cart.Entry, o order.Order) {
	if s.Producer == nil {
		return
	}
	items := make([]order.AcceptedItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, order.AcceptedItem{
			ProductID: e.Product.ID,
			Name:      e.Product.Name,
			Qty:       e.Quantity,
			Price:     e.Product.Price,
		})
	}
	ev := order.Envelope{
		EventID:       uuid.NewString(),
		EventType:     order.EventOrderAccepted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(order.OrderAcceptedPayload{
			OrderID:     orderID,
			Items:       items,
			Subtotal:    o.Subtotal,
			DeliveryFee: o.DeliveryFee,
			Total:       o.TotalPrice,
		}),
	}
	s.Producer.Publish(order.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(order.EventOrderAccepted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) count(result string) {
	if s.Metrics != nil {
		s.Metrics.Orders.WithLabelValues(result).Inc()
	}
}
