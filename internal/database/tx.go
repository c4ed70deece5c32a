package database

import (
	"context"
	"fmt"
)

// WithTx выполняет fn в транзакции. Транзакция коммитится, если fn не вернула ошибку.
func WithTx(ctx context.Context, db PGX, fn func(tx Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
