package telegram

import (
	"context"

	"github.com/enkhjin/monshop/internal/order"
)

// Notifier adapts Client to the checkout transport: it renders the order as
// the human-readable message and posts it to the bot chat.
type Notifier struct{ C *Client }

func (n Notifier) Send(ctx context.Context, o order.Order) error {
	return n.C.Send(ctx, order.Message(o))
}
