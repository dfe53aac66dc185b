package beans

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/log"
)

// closingStore and closingService record teardown order.
type closingStore struct {
	Repository

	closed *[]string
	err    error
}

func (s *closingStore) Close() error {
	*s.closed = append(*s.closed, "store")
	return s.err
}

type closingService struct {
	Service

	Store *closingStore `inject:""`

	closed *[]string
}

func (s *closingService) Dispose() error {
	*s.closed = append(*s.closed, "service")
	return nil
}

// probe is a component with a health check.
type probe struct {
	Component

	err error
}

func (p *probe) Health(ctx context.Context) error {
	return p.err
}

func greetingCatalog(t *testing.T) *Catalog {
	t.Helper()

	cat := NewCatalog()
	provideGreeting(t, cat)
	provideAudit(t, cat)
	require.NoError(t, Provide(cat, func() *txManagerBean { return &txManagerBean{} }))
	require.NoError(t, Provide(cat, func() *reportJob { return &reportJob{} }))

	return cat
}

func TestBootstrap_TaggedDiscovery(t *testing.T) {
	ctx := context.Background()

	c, err := Bootstrap(ctx, greetingCatalog(t), Config{ScanPath: fixtureRoot})
	require.NoError(t, err)

	// sorted by type id; reportJob carries no marker
	assert.Equal(t, []string{"auditTrail", "greeter", "memoryRepo", "transactionManager"}, c.Names())
	assert.False(t, c.Has("reportJob"))

	repo := MustGet[*memoryRepo](c, "memoryRepo")
	tm := MustGet[*txManagerBean](c, "transactionManager")
	svc := MustGet[Greeter](c, "greeter")

	_, isProxy := svc.(greeterProxy)
	assert.True(t, isProxy)

	out, err := svc.Greet(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "hello bob", out)
	assert.Equal(t, []string{"bob"}, repo.saved)
	assert.Equal(t, []int{1}, repo.txIDs)
	assert.Equal(t, []string{"begin", "commit"}, tm.Steps())

	// unmarked methods are forwarded without a transaction
	require.NoError(t, svc.Ping(ctx))
	assert.Equal(t, []string{"begin", "commit"}, tm.Steps())

	audit, err := c.Get("auditTrail")
	require.NoError(t, err)
	proxy, ok := audit.(*auditTrailProxy)
	require.True(t, ok)
	require.NoError(t, proxy.Record(ctx, "entry"))
	assert.Equal(t, []string{"entry"}, proxy.entries)
	assert.Equal(t, []string{"begin", "commit", "begin", "commit"}, tm.Steps())
}

func TestBootstrap_TransactionalFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mgr := &fakeTxManager{}

	cat := NewCatalog()
	provideGreeting(t, cat)

	c, err := Bootstrap(ctx, cat, Config{ScanPath: fixtureRoot}, WithTransactionManager(mgr))
	require.NoError(t, err)

	svc := MustGet[Greeter](c, "greeter")
	raw := svc.(greeterProxy).Target.(*greeter)

	failure := errors.New("refused")
	raw.Fail = failure

	out, err := svc.Greet(ctx, "bob")
	assert.Same(t, failure, err)
	assert.Empty(t, out)
	assert.Empty(t, raw.Repo.saved)
	assert.Equal(t, []string{"begin", "rollback"}, mgr.Steps())
}

func TestBootstrap_ExplicitOverwritesTagged(t *testing.T) {
	constructed := 0

	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
	require.NoError(t, Provide(cat, func() *greeter {
		constructed++
		return &greeter{}
	}, ProxyAs[Greeter](newGreeterProxy)))
	require.NoError(t, Provide(cat, func() *reportJob { return &reportJob{} }))

	c, err := Bootstrap(context.Background(), cat, Config{
		ScanPath: fixtureRoot,
		Beans: []BeanDefinition{
			{ID: "greeter", Type: fixtureRoot + ".reportJob"},
		},
	})
	require.NoError(t, err)

	// the overwritten name keeps its position
	assert.Equal(t, []string{"greeter", "memoryRepo"}, c.Names())
	assert.Zero(t, constructed, "an overwritten registration is never constructed")

	_, err = Get[*reportJob](c, "greeter")
	require.NoError(t, err)

	info, err := c.Inspect("greeter")
	require.NoError(t, err)
	assert.Equal(t, SourceExplicit, info.Source)
	assert.Equal(t, StrategyNone, info.Strategy)
}

func TestBootstrap_ExplicitLastDefinitionWins(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
	require.NoError(t, Provide(cat, func() *reportJob { return &reportJob{} }))

	c, err := Bootstrap(context.Background(), cat, Config{
		ScanPath: fixtureRoot,
		Beans: []BeanDefinition{
			{ID: "job", Type: fixtureRoot + ".reportJob"},
			{ID: "other", Type: fixtureRoot + ".reportJob"},
			{ID: "job", Type: fixtureRoot + ".memoryRepo"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"memoryRepo", "job", "other"}, c.Names())

	_, err = Get[*memoryRepo](c, "job")
	require.NoError(t, err)

	// distinct names are distinct singletons of the same type
	assert.NotSame(t, MustGet[*memoryRepo](c, "job"), MustGet[*memoryRepo](c, "memoryRepo"))
}

func TestBootstrap_PropertyInjection(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
	require.NoError(t, Provide(cat, func() *reportJob { return &reportJob{} }))

	c, err := Bootstrap(context.Background(), cat, Config{
		ScanPath: fixtureRoot,
		Beans: []BeanDefinition{
			{ID: "job", Type: fixtureRoot + ".reportJob", Properties: []Property{{Name: "repo", Ref: "memoryRepo"}}},
		},
	})
	require.NoError(t, err)

	job := MustGet[*reportJob](c, "job")
	assert.Same(t, MustGet[*memoryRepo](c, "memoryRepo"), job.repo)

	info, err := c.Inspect("job")
	require.NoError(t, err)
	assert.Equal(t, []string{"memoryRepo"}, info.Dependencies)
}

func TestBootstrap_PropertyInjectionFailures(t *testing.T) {
	tests := []struct {
		name    string
		prop    Property
		message string
	}{
		{"missing ref", Property{Name: "repo", Ref: "nowhere"}, "referenced bean 'nowhere' is not registered"},
		{"missing setter", Property{Name: "clock", Ref: "memoryRepo"}, "has no method SetClock"},
		{"wrong parameter type", Property{Name: "greeting", Ref: "memoryRepo"}, "is not assignable to string"},
		{"setter error", Property{Name: "refused", Ref: "memoryRepo"}, "SetRefused failed"},
		{"empty ref", Property{Name: "repo"}, "property has no ref"},
		{"empty name", Property{Ref: "memoryRepo"}, "property name is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := NewCatalog()
			require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
			require.NoError(t, Provide(cat, func() *reportJob { return &reportJob{} }))

			c := New(cat)
			err := c.Bootstrap(context.Background(), Config{
				ScanPath: fixtureRoot,
				Beans: []BeanDefinition{
					{ID: "job", Type: fixtureRoot + ".reportJob", Properties: []Property{tt.prop}},
				},
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrWiringFailed)
			assert.True(t, IsWiringFatal(err))
			assert.False(t, IsBootstrapFatal(err))
			assert.Contains(t, err.Error(), tt.message)

			// nothing from a failed bootstrap is retrievable
			assert.Empty(t, c.Names())
			_, err = c.Get("memoryRepo")
			assert.ErrorIs(t, err, ErrNotBootstrapped)
		})
	}
}

func TestBootstrap_InjectMissLeavesFieldUnset(t *testing.T) {
	tl := log.NewTestLogger()

	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *loner { return &loner{} }))

	c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot}, WithLogger(tl))
	require.NoError(t, err)

	assert.Nil(t, MustGet[*loner](c, "loner").Missing)
	assert.True(t, tl.(*log.TestLogger).AssertHasLog("DEBUG", "injection target left unset"))
}

func TestBootstrap_InjectTypeMismatch(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
	require.NoError(t, Provide(cat, func() *mismatched { return &mismatched{} }))

	_, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.True(t, IsWiringFatal(err))
}

func TestBootstrap_InjectsRawInstances(t *testing.T) {
	cat := NewCatalog()
	provideGreeting(t, cat)
	require.NoError(t, Provide(cat, func() *greeterClient { return &greeterClient{} }))

	c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot}, WithTransactionManager(&fakeTxManager{}))
	require.NoError(t, err)

	client := MustGet[*greeterClient](c, "greeterClient")
	proxy := MustGet[Greeter](c, "greeter").(greeterProxy)

	require.NotNil(t, client.Greeter)
	assert.Same(t, client.Greeter, proxy.Target)

	info, err := c.Inspect("greeterClient")
	require.NoError(t, err)
	assert.Equal(t, []string{"greeter"}, info.Dependencies)
}

func TestBootstrap_DiscoveryErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"empty scan path", Config{}, ErrEmptyScanPath},
		{"blank scan path", Config{ScanPath: "  "}, ErrEmptyScanPath},
		{"unknown scan root", Config{ScanPath: "github.com/nowhere/app"}, ErrScanRootNotFound},
		{"partial segment", Config{ScanPath: "github.com/xraph/bea"}, ErrScanRootNotFound},
		{"unknown type", Config{ScanPath: fixtureRoot, Beans: []BeanDefinition{{ID: "x", Type: "github.com/nowhere.Thing"}}}, ErrTypeNotFound},
		{"empty id", Config{ScanPath: fixtureRoot, Beans: []BeanDefinition{{Type: fixtureRoot + ".reportJob"}}}, ErrInvalidDefinition},
		{"empty type", Config{ScanPath: fixtureRoot, Beans: []BeanDefinition{{ID: "x"}}}, ErrInvalidDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Bootstrap(context.Background(), greetingCatalog(t), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsBootstrapFatal(err))
		})
	}
}

func TestBootstrap_ConstructionFailures(t *testing.T) {
	factoryErr := errors.New("dial failed")

	tests := []struct {
		name    string
		provide func(cat *Catalog) error
	}{
		{"factory error", func(cat *Catalog) error {
			return ProvideE(cat, func() (*memoryRepo, error) { return nil, factoryErr })
		}},
		{"factory panic", func(cat *Catalog) error {
			return Provide(cat, func() *memoryRepo { panic("boom") })
		}},
		{"nil instance", func(cat *Catalog) error {
			return Provide(cat, func() *memoryRepo { return nil })
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := NewCatalog()
			require.NoError(t, tt.provide(cat))

			c := New(cat)
			err := c.Bootstrap(context.Background(), Config{ScanPath: fixtureRoot})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConstructionFailed)
			assert.True(t, IsBootstrapFatal(err))
			assert.Contains(t, err.Error(), "memoryRepo")
			assert.Empty(t, c.Names())
		})
	}

	cat := NewCatalog()
	require.NoError(t, ProvideE(cat, func() (*memoryRepo, error) { return nil, factoryErr }))
	_, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot})
	assert.ErrorIs(t, err, factoryErr)
}

func TestBootstrap_ProxyUnavailable(t *testing.T) {
	t.Run("no applicable proxy", func(t *testing.T) {
		cat := NewCatalog()
		require.NoError(t, Provide(cat, func() *bareTx { return &bareTx{} }))

		_, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot}, WithTransactionManager(&fakeTxManager{}))
		assert.ErrorIs(t, err, ErrProxyUnavailable)
		assert.True(t, IsBootstrapFatal(err))
	})

	t.Run("no transaction manager", func(t *testing.T) {
		cat := NewCatalog()
		provideGreeting(t, cat)

		_, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProxyUnavailable)
		assert.Contains(t, err.Error(), "no transaction manager")
	})

	t.Run("embedded proxy leaves a method to promotion", func(t *testing.T) {
		cat := NewCatalog()
		require.NoError(t, Provide(cat, func() *auditTrail { return &auditTrail{} },
			ProxyEmbed[*auditTrail](newForgetfulAuditProxy)))

		_, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot}, WithTransactionManager(&fakeTxManager{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProxyUnavailable)
		assert.Contains(t, err.Error(), "does not override transactional methods Record")
	})

	t.Run("manager bean of wrong type", func(t *testing.T) {
		cat := NewCatalog()
		provideGreeting(t, cat)

		_, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot},
			WithInstance(DefaultTransactionManagerName, "not a manager"))
		assert.ErrorIs(t, err, ErrProxyUnavailable)
	})
}

func TestBootstrap_TransactionManagerName(t *testing.T) {
	mgr := &fakeTxManager{}

	cat := NewCatalog()
	provideGreeting(t, cat)

	c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot},
		WithTransactionManagerName("txm"),
		WithInstance("txm", mgr),
	)
	require.NoError(t, err)

	_, err = MustGet[Greeter](c, "greeter").Greet(context.Background(), "ann")
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "commit"}, mgr.Steps())
}

func TestBootstrap_PrebuiltInstances(t *testing.T) {
	repo := &memoryRepo{}

	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *greeter { return &greeter{} }, ProxyAs[Greeter](newGreeterProxy)))

	c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot},
		WithTransactionManager(&fakeTxManager{}),
		WithInstance("memoryRepo", repo),
		WithInstance("greeter", "replaced by the scan"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"memoryRepo", "greeter"}, c.Names())
	assert.Same(t, repo, MustGet[*memoryRepo](c, "memoryRepo"))

	svc := MustGet[Greeter](c, "greeter")
	assert.Same(t, repo, svc.(greeterProxy).Target.(*greeter).Repo)

	info, err := c.Inspect("memoryRepo")
	require.NoError(t, err)
	assert.Equal(t, SourceInstance, info.Source)

	info, err = c.Inspect("greeter")
	require.NoError(t, err)
	assert.Equal(t, SourceTagged, info.Source)
}

func TestBootstrap_PrebuiltInstanceNil(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"untyped nil", nil},
		{"nil pointer", (*memoryRepo)(nil)},
		{"nil map", map[string]int(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := NewCatalog()
			require.NoError(t, Provide(cat, func() *loner { return &loner{} }))

			c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot},
				WithInstance("nowhere", tt.value),
			)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrConstructionFailed)
			assert.True(t, IsBootstrapFatal(err))
			assert.Contains(t, err.Error(), "nowhere")
		})
	}
}

func TestContainer_GetErrors(t *testing.T) {
	c := New(greetingCatalog(t))

	_, err := c.Get("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, IsInvalidArgument(err))

	_, err = c.Get("greeter")
	assert.ErrorIs(t, err, ErrNotBootstrapped)

	require.NoError(t, c.Bootstrap(context.Background(), Config{ScanPath: fixtureRoot}))

	_, err = c.Get("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrBeanNotFound)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")

	_, err = Get[*memoryRepo](c, "greeter")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	assert.Panics(t, func() { MustGet[*memoryRepo](c, "missing") })
}

func TestContainer_GetReturnsSameInstance(t *testing.T) {
	c, err := Bootstrap(context.Background(), greetingCatalog(t), Config{ScanPath: fixtureRoot})
	require.NoError(t, err)

	first, err := c.Get("memoryRepo")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			got, err := c.Get("memoryRepo")
			assert.NoError(t, err)
			assert.Same(t, first, got)
		}()
	}
	wg.Wait()
}

func TestContainer_BootstrapOnce(t *testing.T) {
	c := New(greetingCatalog(t))
	require.NoError(t, c.Bootstrap(context.Background(), Config{ScanPath: fixtureRoot}))

	err := c.Bootstrap(context.Background(), Config{ScanPath: fixtureRoot})
	assert.ErrorIs(t, err, ErrAlreadyBootstrapped)
	assert.Len(t, c.Names(), 4)

	failed := New(greetingCatalog(t))
	require.Error(t, failed.Bootstrap(context.Background(), Config{}))

	err = failed.Bootstrap(context.Background(), Config{ScanPath: fixtureRoot})
	assert.ErrorIs(t, err, ErrAlreadyBootstrapped)
}

func TestContainer_BootstrapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(greetingCatalog(t))
	err := c.Bootstrap(ctx, Config{ScanPath: fixtureRoot})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Names())
}

func TestContainer_Inspect(t *testing.T) {
	c, err := Bootstrap(context.Background(), greetingCatalog(t), Config{ScanPath: fixtureRoot})
	require.NoError(t, err)

	info, err := c.Inspect("greeter")
	require.NoError(t, err)
	assert.Equal(t, "greeter", info.Name)
	assert.Equal(t, fixtureRoot+".greeter", info.TypeID)
	assert.Equal(t, "beans.greeterProxy", info.Type)
	assert.Equal(t, SourceTagged, info.Source)
	assert.Equal(t, RoleService, info.Role)
	assert.Equal(t, StrategyInterface, info.Strategy)
	assert.True(t, info.Transactional)
	assert.Equal(t, []string{"Greet"}, info.Methods)
	assert.Equal(t, []string{"memoryRepo"}, info.Dependencies)

	info, err = c.Inspect("auditTrail")
	require.NoError(t, err)
	assert.Equal(t, StrategyEmbedded, info.Strategy)
	assert.True(t, info.Transactional)
	assert.Empty(t, info.Methods)

	info, err = c.Inspect("memoryRepo")
	require.NoError(t, err)
	assert.Equal(t, StrategyNone, info.Strategy)
	assert.Equal(t, RoleRepository, info.Role)
	assert.False(t, info.Transactional)
	assert.Empty(t, info.Dependencies)

	info, err = c.Inspect("missing")
	assert.ErrorIs(t, err, ErrBeanNotFound)
	assert.Equal(t, "missing", info.Name)

	_, err = c.Inspect("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestContainer_CloseDependentsFirst(t *testing.T) {
	var closed []string
	storeErr := errors.New("flush failed")

	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *closingStore { return &closingStore{closed: &closed, err: storeErr} }))
	require.NoError(t, Provide(cat, func() *closingService { return &closingService{closed: &closed} }))

	external := &closingStore{closed: &closed}

	c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot}, WithInstance("external", external))
	require.NoError(t, err)

	// registration order puts the service before the store it depends on
	assert.Equal(t, []string{"external", "closingService", "closingStore"}, c.Names())

	err = c.Close(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, []string{"service", "store"}, closed, "pre-built instances are not closed")

	require.NoError(t, c.Close(context.Background()))
	assert.Len(t, closed, 2)
}

func TestContainer_Health(t *testing.T) {
	cat := NewCatalog()
	p := &probe{}
	require.NoError(t, Provide(cat, func() *probe { return p }))

	c, err := Bootstrap(context.Background(), cat, Config{ScanPath: fixtureRoot})
	require.NoError(t, err)
	require.NoError(t, c.Health(context.Background()))

	p.err = errors.New("degraded")
	err = c.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, p.err)
	assert.Contains(t, err.Error(), "probe")
}

func TestBootstrap_Logging(t *testing.T) {
	tl := log.NewTestLogger()

	cat := NewCatalog()
	require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
	require.NoError(t, Provide(cat, func() *reportJob { return &reportJob{} }))

	_, err := Bootstrap(context.Background(), cat, Config{
		ScanPath: fixtureRoot,
		Beans:    []BeanDefinition{{ID: "memoryRepo", Type: fixtureRoot + ".memoryRepo"}},
	}, WithLogger(tl))
	require.NoError(t, err)

	logs := tl.(*log.TestLogger)
	assert.True(t, logs.AssertHasLog("DEBUG", "bean registration overwritten"))
	assert.True(t, logs.AssertHasLog("DEBUG", "bean constructed"))
	assert.True(t, logs.AssertHasLog("INFO", "container bootstrapped"))

	_, err = Bootstrap(context.Background(), cat, Config{}, WithLogger(tl))
	require.Error(t, err)
	assert.True(t, logs.AssertHasLog("ERROR", "bootstrap failed"))
}

func TestDiscover(t *testing.T) {
	descs, err := Discover(greetingCatalog(t), Config{
		ScanPath: fixtureRoot,
		Beans: []BeanDefinition{
			{ID: "job", Type: fixtureRoot + ".reportJob", Properties: []Property{{Name: "repo", Ref: "memoryRepo"}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, descs, 5)

	assert.Equal(t, "auditTrail", descs[0].Name)
	assert.Equal(t, RoleComponent, descs[0].Role)
	assert.Equal(t, SourceTagged, descs[0].Source)
	assert.Nil(t, descs[0].Definition)

	job := descs[4]
	assert.Equal(t, "job", job.Name)
	assert.Equal(t, fixtureRoot+".reportJob", job.TypeID)
	assert.Equal(t, SourceExplicit, job.Source)
	assert.Equal(t, RoleNone, job.Role)
	require.NotNil(t, job.Definition)
	assert.Equal(t, []Property{{Name: "repo", Ref: "memoryRepo"}}, job.Definition.Properties)
}
