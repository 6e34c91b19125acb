package stock

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enkhjin/monshop/internal/order"
)

type Repo struct{ DB *pgxpool.Pool }

// ApplyDecrements reduces product stock for an accepted order in one
// transaction, locking each row first. Stock is advisory at checkout, so a
// shortfall is clamped at zero and logged, never failed: the order was
// already accepted.
func (r *Repo) ApplyDecrements(ctx context.Context, orderID string, items []order.AcceptedItem) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, it := range items {
		var stock int
		err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, it.ProductID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			// product removed since the order was placed
			log.Printf("stock: order=%s product=%s gone, skipping", orderID, it.ProductID)
			continue
		}
		if err != nil {
			return err
		}

		dec := it.Qty
		if dec > stock {
			log.Printf("stock: order=%s product=%s oversold: required=%d available=%d",
				orderID, it.ProductID, it.Qty, stock)
			dec = stock
		}
		if dec == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id=$1`,
			it.ProductID, dec); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
