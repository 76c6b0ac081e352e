package repositories

import "context"

// TxManager runs a function inside a database transaction.
// Repositories called with the ctx passed to fn take part in the transaction.
type TxManager interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// A nested call joins the outer transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
