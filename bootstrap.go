package beans

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/log"
)

// bootstrapper builds the records of one bootstrap. Nothing it holds is
// visible to callers until run returns without error.
type bootstrapper struct {
	catalog *Catalog
	opts    options
	logger  log.Logger

	records map[string]*instanceRecord
	order   []string
	graph   *DependencyGraph
}

func (b *bootstrapper) run(ctx context.Context, cfg Config) error {
	descs, err := discover(b.catalog, cfg, b.opts.instances, b.logger)
	if err != nil {
		return err
	}

	for _, d := range descs {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := b.instantiate(d)
		if err != nil {
			return err
		}

		b.records[d.Name] = rec
		b.order = append(b.order, d.Name)
		b.graph.AddNode(d.Name)
	}

	if err := b.injectFields(); err != nil {
		return err
	}

	if err := b.injectProperties(); err != nil {
		return err
	}

	return b.applyProxies()
}

// instantiate constructs the raw instance of one registration.
func (b *bootstrapper) instantiate(d TypeDescriptor) (*instanceRecord, error) {
	rec := &instanceRecord{
		name:     d.Name,
		desc:     d,
		strategy: StrategyNone,
	}

	if d.Source == SourceInstance {
		rec.raw = d.value
		rec.exposed = d.value
		return rec, nil
	}

	raw, err := construct(d.entry.factory)
	if err != nil {
		return nil, errConstructionFailed(d.Name, err)
	}

	rec.raw = raw
	rec.exposed = raw

	b.logger.Debug("bean constructed",
		log.String("bean", d.Name),
		log.String("type", d.TypeID),
		log.String("source", string(d.Source)),
	)

	return rec, nil
}

// construct calls a factory and turns a panic or a nil result into an error.
func construct(factory Factory) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()

	instance, err = factory()
	if err != nil {
		return nil, err
	}

	if isNil(instance) {
		return nil, fmt.Errorf("factory returned nil")
	}

	return instance, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}

	return false
}

// applyProxies replaces the exposed instance of every transactional bean with
// a proxy. Pre-built instances are exposed as given.
func (b *bootstrapper) applyProxies() error {
	var (
		manager TransactionManager
		chain   = newMiddlewareChain(b.opts.middleware...)
	)

	for _, name := range b.order {
		rec := b.records[name]
		if rec.desc.Source == SourceInstance {
			continue
		}

		meta, err := metadataFor(reflect.TypeOf(rec.raw))
		if err != nil {
			return err
		}

		rec.policy = meta.tx
		if !meta.tx.wraps() {
			continue
		}

		spec, err := selectProxy(name, rec.raw, rec.desc.entry.proxies)
		if err != nil {
			return err
		}

		if manager == nil {
			if manager, err = b.transactionManager(name); err != nil {
				return err
			}
		}

		ic := newInterceptor(name, meta.tx, manager, chain, b.logger.Named("interceptor"))

		exposed := spec.construct(rec.raw, ic)
		if isNil(exposed) {
			return errProxyUnavailable(name, "proxy constructor returned nil")
		}

		if spec.strategy == StrategyEmbedded {
			if missing := missingOverrides(reflect.TypeOf(exposed), reflect.TypeOf(rec.raw), meta.tx); len(missing) > 0 {
				return errProxyUnavailable(name, fmt.Sprintf("embedded proxy %T does not override transactional methods %s", exposed, strings.Join(missing, ", ")))
			}
		}

		rec.exposed = exposed
		rec.strategy = spec.strategy

		b.logger.Debug("bean proxied",
			log.String("bean", name),
			log.String("strategy", string(spec.strategy)),
			log.String("proxy_type", fmt.Sprintf("%T", exposed)),
		)
	}

	return nil
}

// transactionManager resolves the resource transactional proxies bracket
// calls with: the option value, else the bean registered under the manager name.
func (b *bootstrapper) transactionManager(bean string) (TransactionManager, error) {
	if b.opts.manager != nil {
		return b.opts.manager, nil
	}

	rec, ok := b.records[b.opts.managerName]
	if !ok {
		return nil, errProxyUnavailable(bean, fmt.Sprintf("no transaction manager: bean '%s' is not registered", b.opts.managerName))
	}

	tm, ok := rec.raw.(TransactionManager)
	if !ok {
		return nil, errProxyUnavailable(bean, fmt.Sprintf("bean '%s' (%T) is not a TransactionManager", b.opts.managerName, rec.raw))
	}

	return tm, nil
}
