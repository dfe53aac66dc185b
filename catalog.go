package beans

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Factory constructs one raw instance of a catalog type. It is the
// zero-argument constructor of a component: dependencies are injected
// afterwards, never passed in.
type Factory func() (any, error)

// ProxyFactory builds the exposed stand-in for a raw instance. The returned
// value must route calls through the given Interceptor.
type ProxyFactory func(target any, ic *Interceptor) any

// catalogEntry is a constructible type known to the catalog.
type catalogEntry struct {
	typeID  string
	typ     reflect.Type // as returned by the factory, e.g. *bank.TransferServiceImpl
	factory Factory
	proxies []proxySpec
	meta    *typeMetadata
}

// proxySpec is one proxy strategy a catalog type offers.
type proxySpec struct {
	strategy  Strategy
	target    reflect.Type // capability interface, or the embedded concrete type
	construct ProxyFactory
}

// applies reports whether p can wrap a raw instance of type t.
func (p proxySpec) applies(t reflect.Type) bool {
	if p.strategy == StrategyInterface {
		return t.Implements(p.target)
	}
	return t.AssignableTo(p.target)
}

// Catalog is the set of constructible types a container may discover. It
// replaces a classpath scan: types are registered explicitly, usually from a
// package-level Register function, and discovered by import path afterwards.
type Catalog struct {
	entries map[string]*catalogEntry
	order   []string // registration order
	mu      sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*catalogEntry),
		order:   make([]string, 0),
	}
}

// TypeOption configures a catalog registration.
type TypeOption func(*catalogEntry) error

// Provide registers a zero-argument constructor under the type id of T.
//
// Example:
//
//	beans.Provide(cat, func() *TransferServiceImpl { return &TransferServiceImpl{} },
//	    beans.ProxyAs[TransferService](NewTransferServiceProxy),
//	)
func Provide[T any](cat *Catalog, ctor func() T, opts ...TypeOption) error {
	if ctor == nil {
		return ErrInvalidFactory
	}

	return ProvideE(cat, func() (T, error) {
		return ctor(), nil
	}, opts...)
}

// ProvideE registers a zero-argument constructor that may fail.
func ProvideE[T any](cat *Catalog, ctor func() (T, error), opts ...TypeOption) error {
	if ctor == nil {
		return ErrInvalidFactory
	}

	typ := reflect.TypeFor[T]()
	factory := func() (any, error) {
		return ctor()
	}

	return cat.register(typ, factory, opts...)
}

// ProxyAs offers an interface-forwarding proxy for capability interface I.
// The container uses it when the raw instance implements I.
func ProxyAs[I any](construct func(target I, ic *Interceptor) I) TypeOption {
	return func(e *catalogEntry) error {
		contract := reflect.TypeFor[I]()
		if contract.Kind() != reflect.Interface {
			return errInvalidMetadata(e.typeID, fmt.Sprintf("ProxyAs needs an interface, got %s", contract))
		}

		if construct == nil {
			return ErrInvalidFactory
		}

		e.proxies = append(e.proxies, proxySpec{
			strategy: StrategyInterface,
			target:   contract,
			construct: func(target any, ic *Interceptor) any {
				return construct(target.(I), ic)
			},
		})

		return nil
	}
}

// ProxyEmbed offers a subtype-override proxy: a struct embedding the concrete
// T that overrides its marked methods. The container falls back to it when no
// capability interface proxy applies. The proxy must declare every marked
// method itself, every exported method for a class-level marker; a method
// left to promotion would bypass the transaction, so Bootstrap rejects such a
// proxy with PROXY_UNAVAILABLE.
func ProxyEmbed[T any](construct func(target T, ic *Interceptor) any) TypeOption {
	return func(e *catalogEntry) error {
		if construct == nil {
			return ErrInvalidFactory
		}

		e.proxies = append(e.proxies, proxySpec{
			strategy: StrategyEmbedded,
			target:   reflect.TypeFor[T](),
			construct: func(target any, ic *Interceptor) any {
				return construct(target.(T), ic)
			},
		})

		return nil
	}
}

// register adds a new catalog entry.
func (c *Catalog) register(typ reflect.Type, factory Factory, opts ...TypeOption) error {
	id := TypeID(typ)
	entry := &catalogEntry{
		typeID:  id,
		typ:     typ,
		factory: factory,
	}

	for _, opt := range opts {
		if err := opt(entry); err != nil {
			return err
		}
	}

	meta, err := metadataFor(typ)
	if err != nil {
		return err
	}
	entry.meta = meta

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; exists {
		return errTypeAlreadyExists(id)
	}

	c.entries[id] = entry
	c.order = append(c.order, id)

	return nil
}

// get retrieves an entry by type id.
func (c *Catalog) get(typeID string) (*catalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[typeID]
	return e, ok
}

// Has reports whether a type id is registered.
func (c *Catalog) Has(typeID string) bool {
	_, ok := c.get(typeID)
	return ok
}

// TypeIDs returns every registered type id in registration order.
func (c *Catalog) TypeIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, len(c.order))
	copy(ids, c.order)

	return ids
}

// under returns the entries whose package lies at or below root, ordered by
// type id so the scan never depends on registration order.
func (c *Catalog) under(root string) []*catalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var found []*catalogEntry
	for _, id := range c.order {
		e := c.entries[id]
		pkg := elemType(e.typ).PkgPath()
		if pkg == root || strings.HasPrefix(pkg, root+"/") {
			found = append(found, e)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].typeID < found[j].typeID
	})

	return found
}

// TypeID returns the catalog key for t: the import path of its package and
// its simple name, pointers stripped.
//
//	TypeID(reflect.TypeFor[*bank.AccountDaoImpl]()) // "github.com/xraph/beans/examples/bank.AccountDaoImpl"
func TypeID(t reflect.Type) string {
	t = elemType(t)
	if t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// elemType strips pointer indirections.
func elemType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
