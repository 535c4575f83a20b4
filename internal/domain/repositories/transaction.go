package repositories

import "context"

// TxFn is a function executed within a transaction. The context carries the
// transaction; repositories pick it up via GetTx.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function within a database transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
