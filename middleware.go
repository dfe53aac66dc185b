package beans

import "context"

// CallInfo describes one call flowing through a proxy.
type CallInfo struct {
	Bean          string
	Method        string
	Transactional bool
}

// Middleware provides hooks around every call made through a proxy, marked
// or not. Middleware can be used for logging, metrics, auditing, testing, etc.
type Middleware interface {
	// BeforeCall is called before the call and before any transaction begins.
	// Return error to abort the call.
	BeforeCall(ctx context.Context, call CallInfo) error

	// AfterCall is called after the call completed and its transaction was
	// committed or rolled back. Called even if the call failed. An error it
	// returns is reported only when the call itself succeeded; it never
	// replaces the call's own error.
	AfterCall(ctx context.Context, call CallInfo, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain(mw ...Middleware) *middlewareChain {
	chain := &middlewareChain{
		middleware: make([]Middleware, 0, len(mw)),
	}
	for _, m := range mw {
		chain.add(m)
	}
	return chain
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	if middleware != nil {
		m.middleware = append(m.middleware, middleware)
	}
}

// beforeCall calls BeforeCall on all middleware in order.
func (m *middlewareChain) beforeCall(ctx context.Context, call CallInfo) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeCall(ctx, call); err != nil {
			return err
		}
	}
	return nil
}

// afterCall calls AfterCall on all middleware in order.
func (m *middlewareChain) afterCall(ctx context.Context, call CallInfo, err error) error {
	var first error
	for _, mw := range m.middleware {
		if mwErr := mw.AfterCall(ctx, call, err); mwErr != nil && first == nil {
			first = mwErr
		}
	}
	return first
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeCallFunc func(ctx context.Context, call CallInfo) error
	AfterCallFunc  func(ctx context.Context, call CallInfo, err error) error
}

// BeforeCall implements Middleware.
func (f *FuncMiddleware) BeforeCall(ctx context.Context, call CallInfo) error {
	if f.BeforeCallFunc != nil {
		return f.BeforeCallFunc(ctx, call)
	}
	return nil
}

// AfterCall implements Middleware.
func (f *FuncMiddleware) AfterCall(ctx context.Context, call CallInfo, err error) error {
	if f.AfterCallFunc != nil {
		return f.AfterCallFunc(ctx, call, err)
	}
	return nil
}
