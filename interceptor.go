package beans

import (
	"context"
	"errors"
	"time"

	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// Interceptor is the interception function shared by every proxy of one bean.
// Proxies hand each call to Invoke together with a closure over the real
// method; the interceptor decides whether the call runs in a transaction.
type Interceptor struct {
	bean    string
	policy  txPolicy
	manager TransactionManager
	chain   *middlewareChain
	logger  log.Logger
}

// newInterceptor creates the interceptor for one bean.
func newInterceptor(bean string, policy txPolicy, manager TransactionManager, chain *middlewareChain, logger log.Logger) *Interceptor {
	return &Interceptor{
		bean:    bean,
		policy:  policy,
		manager: manager,
		chain:   chain,
		logger:  logger,
	}
}

// Bean returns the name of the bean this interceptor wraps.
func (ic *Interceptor) Bean() string {
	return ic.bean
}

// Transactional reports whether calls to method are bracketed by a transaction.
func (ic *Interceptor) Transactional(method string) bool {
	return ic.policy.marks(method)
}

// Invoke runs call as the body of method. Unmarked methods are forwarded
// directly and their error returned unchanged. Marked methods run between
// Begin and Commit; on failure the transaction is rolled back and the call's
// own error is returned as is. If the rollback fails too, both errors are
// returned together as a TRANSACTION_FAILED error.
func (ic *Interceptor) Invoke(ctx context.Context, method string, call func(ctx context.Context) error) error {
	info := CallInfo{
		Bean:          ic.bean,
		Method:        method,
		Transactional: ic.policy.marks(method),
	}

	if err := ic.chain.beforeCall(ctx, info); err != nil {
		return err
	}

	var err error
	if info.Transactional {
		err = ic.bracket(ctx, method, call)
	} else {
		err = call(ctx)
	}

	if mwErr := ic.chain.afterCall(ctx, info, err); mwErr != nil && err == nil {
		return mwErr
	}

	return err
}

// bracket runs one call inside its own transaction.
func (ic *Interceptor) bracket(ctx context.Context, method string, call func(ctx context.Context) error) error {
	start := time.Now()

	tx, err := ic.manager.Begin(ctx)
	if err != nil {
		return errTransactionFailed(ic.bean, method, "begin", err)
	}
	if isNil(tx) {
		return errTransactionFailed(ic.bean, method, "begin", errors.New("manager returned no transaction"))
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				ic.logger.Error("rollback after panic failed",
					log.String("bean", ic.bean),
					log.String("method", method),
					log.Error(rbErr),
				)
			}
			panic(r)
		}
	}()

	if callErr := call(WithTransaction(ctx, tx)); callErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			ic.logger.Error("transaction rollback failed",
				log.String("bean", ic.bean),
				log.String("method", method),
				log.Error(rbErr),
			)
			return errTransactionFailed(ic.bean, method, "rollback", multierr.Combine(callErr, rbErr))
		}

		ic.logger.Warn("transaction rolled back",
			log.String("bean", ic.bean),
			log.String("method", method),
			log.Error(callErr),
			log.Duration("elapsed", time.Since(start)),
		)
		return callErr
	}

	if err := tx.Commit(); err != nil {
		return errTransactionFailed(ic.bean, method, "commit", err)
	}

	ic.logger.Debug("transaction committed",
		log.String("bean", ic.bean),
		log.String("method", method),
		log.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// Call is Invoke for methods that return a value. The zero value of R is
// returned whenever the call or its transaction fails.
//
// Example:
//
//	func (p *accountDaoProxy) Find(ctx context.Context, card string) (*Account, error) {
//	    return beans.Call(ctx, p.Interceptor, "Find", func(ctx context.Context) (*Account, error) {
//	        return p.Target.Find(ctx, card)
//	    })
//	}
func Call[R any](ctx context.Context, ic *Interceptor, method string, call func(ctx context.Context) (R, error)) (R, error) {
	var result R

	err := ic.Invoke(ctx, method, func(ctx context.Context) error {
		r, err := call(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}

	return result, nil
}
