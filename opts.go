package beans

import "github.com/xraph/go-utils/log"

// DefaultTransactionManagerName is the bean the interception layer looks up
// when no TransactionManager is passed with WithTransactionManager.
const DefaultTransactionManagerName = "transactionManager"

// Option configures a Container.
type Option func(*options)

type options struct {
	logger      log.Logger
	manager     TransactionManager
	managerName string
	middleware  []Middleware
	instances   []preset
}

// preset is a pre-built instance supplied before bootstrap.
type preset struct {
	name  string
	value any
}

func defaultOptions() options {
	return options{
		logger:      log.NewNoopLogger(),
		managerName: DefaultTransactionManagerName,
	}
}

// WithLogger sets the logger used for bootstrap and interception events.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTransactionManager sets the transaction resource proxies bracket calls with.
func WithTransactionManager(tm TransactionManager) Option {
	return func(o *options) {
		o.manager = tm
	}
}

// WithTransactionManagerName changes the bean looked up as transaction
// resource when no manager was set with WithTransactionManager.
func WithTransactionManagerName(name string) Option {
	return func(o *options) {
		o.managerName = name
	}
}

// WithMiddleware adds call middleware to every proxy.
// Middleware is called in the order it is added.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithInstance registers a pre-built singleton under name. Pre-built
// instances are neither wired nor proxied, can be injected into discovered
// beans, and are overwritten by a discovered bean of the same name.
func WithInstance(name string, value any) Option {
	return func(o *options) {
		o.instances = append(o.instances, preset{name: name, value: value})
	}
}
