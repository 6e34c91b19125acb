package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/enkhjin/monshop/internal/kafka"
	"github.com/enkhjin/monshop/internal/order"
)

type fakeApplier struct {
	orders []string
	items  [][]order.AcceptedItem
}

func (f *fakeApplier) ApplyDecrements(ctx context.Context, orderID string, items []order.AcceptedItem) error {
	f.orders = append(f.orders, orderID)
	f.items = append(f.items, items)
	return nil
}

type fakeDedup struct{ seen map[string]bool }

func (f *fakeDedup) Seen(ctx context.Context, id string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	was := f.seen[id]
	f.seen[id] = true
	return was, nil
}

func acceptedMessage(eventID, orderID string) kafkago.Message {
	env := order.Envelope{
		EventID:       eventID,
		EventType:     order.EventOrderAccepted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "test-api",
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(order.OrderAcceptedPayload{
			OrderID: orderID,
			Items:   []order.AcceptedItem{{ProductID: "a", Name: "Thermos", Qty: 2, Price: 1000}},
		}),
	}
	return kafkago.Message{Key: order.PartitionKey(orderID), Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderAccepted(t *testing.T) {
	repo := &fakeApplier{}
	svc := &Service{Repo: repo, Dedup: &fakeDedup{}}

	m := acceptedMessage(uuid.NewString(), "order-1")
	if err := svc.HandleOrderAccepted(context.Background(), m); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(repo.orders) != 1 || repo.orders[0] != "order-1" {
		t.Fatalf("applied orders = %v", repo.orders)
	}
	if len(repo.items[0]) != 1 || repo.items[0][0].Qty != 2 {
		t.Fatalf("applied items = %+v", repo.items[0])
	}
}

func TestHandleRedelivery(t *testing.T) {
	repo := &fakeApplier{}
	svc := &Service{Repo: repo, Dedup: &fakeDedup{}}

	m := acceptedMessage("event-1", "order-1")
	for i := 0; i < 3; i++ {
		if err := svc.HandleOrderAccepted(context.Background(), m); err != nil {
			t.Fatalf("handle #%d: %v", i, err)
		}
	}
	if len(repo.orders) != 1 {
		t.Fatalf("decrements applied %d times, want 1", len(repo.orders))
	}
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	repo := &fakeApplier{}
	svc := &Service{Repo: repo, Dedup: &fakeDedup{}}

	env := order.Envelope{
		EventID:   uuid.NewString(),
		EventType: "SomethingElse",
		Payload:   kafkax.MustMarshal(map[string]string{}),
	}
	m := kafkago.Message{Value: kafkax.MustMarshal(env)}
	if err := svc.HandleOrderAccepted(context.Background(), m); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(repo.orders) != 0 {
		t.Fatal("decrement applied for a foreign event type")
	}
}

func TestHandleMalformedMessage(t *testing.T) {
	svc := &Service{Repo: &fakeApplier{}, Dedup: &fakeDedup{}}
	m := kafkago.Message{Value: []byte("{not json")}
	if err := svc.HandleOrderAccepted(context.Background(), m); err == nil {
		t.Fatal("malformed message must not commit")
	}
}
