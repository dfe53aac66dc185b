package beans

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/xraph/go-utils/di"
	"github.com/xraph/go-utils/errs"
	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

type bootState int

const (
	stateNew bootState = iota
	stateReady
	stateFailed
	stateClosed
)

// Container holds the singletons of one application context. It is empty
// until Bootstrap succeeds and read-only afterwards.
type Container struct {
	catalog *Catalog
	opts    options

	records map[string]*instanceRecord
	order   []string // registration order
	graph   *DependencyGraph
	state   bootState
	mu      sync.RWMutex
}

// instanceRecord is one live bean.
type instanceRecord struct {
	name     string
	desc     TypeDescriptor
	raw      any
	exposed  any
	strategy Strategy
	policy   txPolicy
}

// BeanInfo contains diagnostic information about a bean.
type BeanInfo struct {
	Name          string   `json:"name"`
	TypeID        string   `json:"typeId"`
	Type          string   `json:"type"` // dynamic type of the exposed instance
	Source        Source   `json:"source"`
	Role          Role     `json:"role,omitempty"`
	Strategy      Strategy `json:"strategy"`
	Transactional bool     `json:"transactional"`
	Methods       []string `json:"methods,omitempty"`      // transactional methods, empty for class-level
	Dependencies  []string `json:"dependencies,omitempty"` // injected beans, in injection order
}

// New creates an empty container over catalog.
func New(catalog *Catalog, opts ...Option) *Container {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Container{
		catalog: catalog,
		opts:    o,
		records: make(map[string]*instanceRecord),
		graph:   NewDependencyGraph(),
	}
}

// Bootstrap creates a container and runs cfg through it.
//
// Example:
//
//	c, err := beans.Bootstrap(ctx, cat, beans.Config{ScanPath: "github.com/acme/bank"})
//	if err != nil {
//	    return err
//	}
//	svc, err := beans.Get[bank.TransferService](c, "transferService")
func Bootstrap(ctx context.Context, catalog *Catalog, cfg Config, opts ...Option) (*Container, error) {
	c := New(catalog, opts...)
	if err := c.Bootstrap(ctx, cfg); err != nil {
		return nil, err
	}

	return c, nil
}

// Bootstrap discovers, constructs, wires and proxies every bean of cfg. Any
// failure leaves the container empty; a container bootstraps at most once.
func (c *Container) Bootstrap(ctx context.Context, cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateNew {
		return ErrAlreadyBootstrapped
	}

	logger := c.opts.logger.WithContext(ctx)

	b := &bootstrapper{
		catalog: c.catalog,
		opts:    c.opts,
		logger:  logger,
		records: make(map[string]*instanceRecord),
		graph:   NewDependencyGraph(),
	}

	if err := b.run(ctx, cfg); err != nil {
		c.state = stateFailed
		logger.Error("bootstrap failed", log.String("scan_root", cfg.ScanPath), log.Error(err))
		return err
	}

	c.records = b.records
	c.order = b.order
	c.graph = b.graph
	c.state = stateReady

	logger.Info("container bootstrapped",
		log.String("scan_root", cfg.ScanPath),
		log.Int("beans", len(c.order)),
		log.Strings("names", c.order),
	)

	return nil
}

// Get returns the exposed instance registered under name: its proxy when the
// bean is transactional, the raw instance otherwise.
func (c *Container) Get(name string) (any, error) {
	if name == "" {
		return nil, ErrInvalidArgument
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != stateReady && c.state != stateClosed {
		return nil, ErrNotBootstrapped
	}

	rec, ok := c.records[name]
	if !ok {
		return nil, errBeanNotFound(name)
	}

	return rec.exposed, nil
}

// Has reports whether a bean is registered under name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.records[name]
	return ok
}

// Names returns every registered bean name in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)

	return names
}

// Inspect returns diagnostic information about a bean.
func (c *Container) Inspect(name string) (BeanInfo, error) {
	if name == "" {
		return BeanInfo{}, ErrInvalidArgument
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.records[name]
	if !ok {
		return BeanInfo{Name: name}, errBeanNotFound(name)
	}

	var methods []string
	if !rec.policy.all && len(rec.policy.methods) > 0 {
		methods = append(methods, rec.policy.methods...)
	}

	return BeanInfo{
		Name:          name,
		TypeID:        rec.desc.TypeID,
		Type:          fmt.Sprintf("%T", rec.exposed),
		Source:        rec.desc.Source,
		Role:          rec.desc.Role,
		Strategy:      rec.strategy,
		Transactional: rec.policy.wraps(),
		Methods:       methods,
		Dependencies:  c.graph.GetDependencies(name),
	}, nil
}

// Health checks every bean that implements di.HealthChecker.
func (c *Container) Health(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, name := range c.order {
		checker, ok := c.records[name].raw.(di.HealthChecker)
		if !ok {
			continue
		}

		if err := checker.Health(ctx); err != nil {
			return errs.NewError(errs.CodeUnavailable, fmt.Sprintf("bean '%s' unhealthy", name), err).
				WithContext("bean", name).(*errs.Error)
		}
	}

	return nil
}

// Close releases the beans the container constructed, dependents before
// their dependencies. Beans implementing di.Service are stopped, di.Disposable
// beans disposed and io.Closer beans closed. Pre-built instances belong to
// the caller and are left alone. Every failure is reported; Close is a no-op
// after the first call.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateReady {
		return nil
	}
	c.state = stateClosed

	var err error
	for _, name := range c.graph.ReleaseOrder() {
		rec, ok := c.records[name]
		if !ok || rec.desc.Source == SourceInstance {
			continue
		}

		if closeErr := release(ctx, rec.raw); closeErr != nil {
			c.opts.logger.Warn("bean release failed", log.String("bean", rec.name), log.Error(closeErr))
			err = multierr.Append(err, fmt.Errorf("bean '%s': %w", rec.name, closeErr))
		}
	}

	return err
}

func release(ctx context.Context, instance any) error {
	switch v := instance.(type) {
	case di.Service:
		return v.Stop(ctx)
	case di.Disposable:
		return v.Dispose()
	case io.Closer:
		return v.Close()
	}

	return nil
}
