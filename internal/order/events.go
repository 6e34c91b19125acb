package order

import (
	"encoding/json"
	"time"
)

const (
	EventOrderAccepted = "OrderAccepted"

	TopicOrderAccepted = "shop.order.accepted"
)

// Envelope is the versioned wrapper every published event rides in.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type AcceptedItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

// OrderAcceptedPayload is emitted after the notification transport confirmed
// the order. The stock worker consumes it to apply decrements.
type OrderAcceptedPayload struct {
	OrderID     string         `json:"order_id"`
	Items       []AcceptedItem `json:"items"`
	Subtotal    int64          `json:"subtotal"`
	DeliveryFee int64          `json:"delivery_fee"`
	Total       int64          `json:"total"`
}

// PartitionKey keeps all events of one order on one partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
