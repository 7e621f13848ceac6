package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// WithTx runs fn as one atomic unit of work on a single connection and a
// single transaction. When fn returns nil the transaction commits; any error
// (or panic) rolls back every statement issued through the DBTX before the
// connection is released, and the original error is returned to the caller.
// Nesting is not supported; a unit of work wraps exactly one transaction.
func (c *Client) WithTx(ctx context.Context, fn func(q DBTX) error) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("rollback after panic failed", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
