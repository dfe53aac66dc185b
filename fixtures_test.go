package beans

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureRoot = "github.com/xraph/beans"

// fakeTxManager records every transaction step in order.
type fakeTxManager struct {
	mu          sync.Mutex
	steps       []string
	begun       int
	beginErr    error
	commitErr   error
	rollbackErr error
}

type fakeTx struct {
	id  int
	mgr *fakeTxManager
}

func (m *fakeTxManager) Begin(ctx context.Context) (Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.beginErr != nil {
		m.steps = append(m.steps, "begin-failed")
		return nil, m.beginErr
	}

	m.begun++
	m.steps = append(m.steps, "begin")

	return &fakeTx{id: m.begun, mgr: m}, nil
}

func (m *fakeTxManager) record(step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
}

func (m *fakeTxManager) Steps() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.steps))
	copy(out, m.steps)
	return out
}

func (tx *fakeTx) Commit() error {
	tx.mgr.record("commit")
	return tx.mgr.commitErr
}

func (tx *fakeTx) Rollback() error {
	tx.mgr.record("rollback")
	return tx.mgr.rollbackErr
}

// memoryRepo is a tagged repository named "memoryRepo".
type memoryRepo struct {
	Repository

	saved []string
	txIDs []int
}

func (r *memoryRepo) Save(ctx context.Context, v string) error {
	r.saved = append(r.saved, v)
	if tx, ok := TransactionFrom(ctx); ok {
		r.txIDs = append(r.txIDs, tx.(*fakeTx).id)
	}
	return nil
}

// Greeter is the capability interface greeter is proxied through.
type Greeter interface {
	Greet(ctx context.Context, who string) (string, error)
	Ping(ctx context.Context) error
}

// greeter is a service with one transactional method.
type greeter struct {
	Service       `bean:"greeter"`
	Transactional `methods:"Greet"`

	Repo *memoryRepo `inject:""`
	Fail error
}

func (g *greeter) Greet(ctx context.Context, who string) (string, error) {
	if g.Fail != nil {
		return "", g.Fail
	}
	if err := g.Repo.Save(ctx, who); err != nil {
		return "", err
	}
	return "hello " + who, nil
}

func (g *greeter) Ping(ctx context.Context) error {
	if _, ok := TransactionFrom(ctx); ok {
		return errors.New("ping must not run in a transaction")
	}
	return nil
}

type greeterProxy struct {
	Proxy[Greeter]
}

func newGreeterProxy(target Greeter, ic *Interceptor) Greeter {
	return greeterProxy{NewProxy(target, ic)}
}

func (p greeterProxy) Greet(ctx context.Context, who string) (string, error) {
	return Call(ctx, p.Interceptor, "Greet", func(ctx context.Context) (string, error) {
		return p.Target.Greet(ctx, who)
	})
}

func (p greeterProxy) Ping(ctx context.Context) error {
	return p.Invoke(ctx, "Ping", p.Target.Ping)
}

// auditTrail is a class-level transactional component with no capability
// interface; it is proxied by embedding.
type auditTrail struct {
	Component
	Transactional

	entries []string
}

func (a *auditTrail) Record(ctx context.Context, entry string) error {
	if entry == "" {
		return errors.New("empty entry")
	}
	a.entries = append(a.entries, entry)
	return nil
}

type auditTrailProxy struct {
	*auditTrail

	ic *Interceptor
}

func newAuditTrailProxy(target *auditTrail, ic *Interceptor) any {
	return &auditTrailProxy{auditTrail: target, ic: ic}
}

func (p *auditTrailProxy) Record(ctx context.Context, entry string) error {
	return p.ic.Invoke(ctx, "Record", func(ctx context.Context) error {
		return p.auditTrail.Record(ctx, entry)
	})
}

// forgetfulAuditProxy embeds auditTrail without overriding Record.
type forgetfulAuditProxy struct {
	*auditTrail

	ic *Interceptor
}

func newForgetfulAuditProxy(target *auditTrail, ic *Interceptor) any {
	return &forgetfulAuditProxy{auditTrail: target, ic: ic}
}

// valueAuditProxy overrides Record with a value receiver.
type valueAuditProxy struct {
	*auditTrail

	ic *Interceptor
}

func (p valueAuditProxy) Record(ctx context.Context, entry string) error {
	return p.ic.Invoke(ctx, "Record", func(ctx context.Context) error {
		return p.auditTrail.Record(ctx, entry)
	})
}

// txManagerBean is a transaction manager discovered by scan.
type txManagerBean struct {
	Component `bean:"transactionManager"`
	fakeTxManager
}

// greeterClient is injected with the raw greeter.
type greeterClient struct {
	Component

	Greeter *greeter `inject:"greeter"`
}

// loner points at a bean that is never registered.
type loner struct {
	Component

	Missing *memoryRepo `inject:"nowhere"`
}

// mismatched asks for memoryRepo under the wrong type.
type mismatched struct {
	Component

	Repo *greeter `inject:"memoryRepo"`
}

// bareTx is transactional but offers no proxy.
type bareTx struct {
	Component
	Transactional
}

// reportJob carries no marker and is only registered explicitly.
type reportJob struct {
	repo *memoryRepo
}

func (j *reportJob) SetRepo(r *memoryRepo) { j.repo = r }

func (j *reportJob) SetRefused(r *memoryRepo) error { return errors.New("refused") }

func (j *reportJob) SetGreeting(s string) {}

type twoMarkers struct {
	Service
	Repository
}

type hiddenInject struct {
	Component

	repo *memoryRepo `inject:""`
}

type unknownTxMethod struct {
	Service
	Transactional `methods:"Nope"`
}

// provideGreeting registers memoryRepo and the proxied greeter.
func provideGreeting(t *testing.T, cat *Catalog) {
	t.Helper()
	require.NoError(t, Provide(cat, func() *memoryRepo { return &memoryRepo{} }))
	require.NoError(t, Provide(cat, func() *greeter { return &greeter{} }, ProxyAs[Greeter](newGreeterProxy)))
}

// provideAudit registers auditTrail with its embedded proxy.
func provideAudit(t *testing.T, cat *Catalog) {
	t.Helper()
	require.NoError(t, Provide(cat, func() *auditTrail { return &auditTrail{} }, ProxyEmbed[*auditTrail](newAuditTrailProxy)))
}
