package beans

import "context"

// TransactionManager is the transaction resource the interception layer
// brackets calls with. The container never implements transaction semantics
// itself; begin, commit and rollback may block and carry no timeout imposed
// by the container.
type TransactionManager interface {
	// Begin starts a transaction for exactly one intercepted call. The
	// returned handle must not be shared with any other call.
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction is the per-call handle returned by TransactionManager.Begin.
type Transaction interface {
	Commit() error
	Rollback() error
}

// TransactionManagerFunc adapts a function to TransactionManager.
type TransactionManagerFunc func(ctx context.Context) (Transaction, error)

// Begin implements TransactionManager.
func (f TransactionManagerFunc) Begin(ctx context.Context) (Transaction, error) {
	return f(ctx)
}

type txContextKey struct{}

// WithTransaction returns a context carrying tx.
func WithTransaction(ctx context.Context, tx Transaction) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TransactionFrom returns the transaction bound to ctx by an intercepted
// call, if any. Resources use it to join the caller's unit of work.
func TransactionFrom(ctx context.Context) (Transaction, bool) {
	tx, ok := ctx.Value(txContextKey{}).(Transaction)
	return tx, ok
}
