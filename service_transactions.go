package paperkit

import (
	"context"
	"fmt"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes a function within a database transaction with
// automatic commit/rollback. If the function returns an error, the
// transaction is rolled back. Otherwise, it's committed.
//
// Example:
//
//	err := service.Transaction(ctx, func(ctx context.Context) error {
//	    if err := service.IssuePaper(ctx, contract); err != nil {
//	        return err // This will cause a rollback
//	    }
//	    if err := service.IssuePaper(ctx, delegation); err != nil {
//	        return err // This will cause a rollback
//	    }
//	    return nil // This will cause a commit
//	})
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Check if we're already in a transaction by casting to dbkit.Tx
	if tx, ok := s.db.(*dbkit.Tx); ok {
		// We're already in a transaction, use savepoint
		return tx.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}

	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}

	return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}

// TransactionWithOptions executes a function within a database transaction
// with custom options. Supports read-only transactions, isolation levels,
// and other transaction parameters.
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context) error) error {
	if tx, ok := s.db.(*dbkit.Tx); ok {
		// Nested transactions fall back to savepoints, options are ignored
		return tx.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}

	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}

	return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}

// ReadOnlyTransaction executes a function within a read-only database
// transaction. Useful for reading a consistent paper snapshot across
// several queries, e.g. papers plus registrations for one evaluation.
//
// Example:
//
//	err := service.ReadOnlyTransaction(ctx, func(ctx context.Context) error {
//	    roles, err := service.ComputeRoles(ctx, identityID)
//	    if err != nil {
//	        return err
//	    }
//	    // ... evaluate against the snapshot ...
//	    return nil
//	})
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}
