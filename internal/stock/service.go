package stock

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/enkhjin/monshop/internal/kafka"
	"github.com/enkhjin/monshop/internal/order"
)

type Applier interface {
	ApplyDecrements(ctx context.Context, orderID string, items []order.AcceptedItem) error
}

type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
}

// Service consumes OrderAccepted events and applies the stock decrements.
type Service struct {
	Repo  Applier
	Dedup Deduper
}

// HandleOrderAccepted is the consumer handler. Returning nil commits the
// offset; redeliveries are caught by the dedup check.
func (s *Service) HandleOrderAccepted(ctx context.Context, m kafkago.Message) error {
	var env order.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != order.EventOrderAccepted {
		return nil
	}

	if seen, _ := s.Dedup.Seen(ctx, env.EventID); seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[order.OrderAcceptedPayload](env.Payload)
	if err != nil {
		return err
	}
	return s.Repo.ApplyDecrements(ctx, p.OrderID, p.Items)
}
