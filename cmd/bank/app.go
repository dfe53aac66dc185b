package main

import (
	"context"

	"github.com/xraph/beans"
	"github.com/xraph/beans/config"
	"github.com/xraph/beans/examples/bank"
	"github.com/xraph/beans/sqltx"
	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// app is a bootstrapped bank container over an open database.
type app struct {
	logger    log.Logger
	mgr       *sqltx.Manager
	container *beans.Container
}

func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	logger := opts.Logger()

	cfg, err := loadConfig(opts.ConfigPath())
	if err != nil {
		return nil, err
	}

	mgr, err := sqltx.Open(opts.DBPath(), logger.Named("sqltx"))
	if err != nil {
		return nil, err
	}

	if err := mgr.ApplySchema(ctx, bank.Schema); err != nil {
		return nil, multierr.Append(err, mgr.Close())
	}

	cat := beans.NewCatalog()
	if err := bank.Register(cat); err != nil {
		return nil, multierr.Append(err, mgr.Close())
	}

	c, err := beans.Bootstrap(ctx, cat, cfg,
		beans.WithLogger(logger.Named("beans")),
		beans.WithInstance(beans.DefaultTransactionManagerName, mgr),
	)
	if err != nil {
		return nil, multierr.Append(err, mgr.Close())
	}

	return &app{logger: logger, mgr: mgr, container: c}, nil
}

// loadConfig reads the application context at path, or the built-in one when
// path is empty.
func loadConfig(path string) (beans.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	f, err := config.Parse(bank.ApplicationYAML)
	if err != nil {
		return beans.Config{}, err
	}

	return f.Config(), nil
}

func (a *app) transfers() bank.TransferService {
	return beans.MustGet[bank.TransferService](a.container, "transferService")
}

func (a *app) accounts() bank.AccountDao {
	return beans.MustGet[bank.AccountDao](a.container, "accountDao")
}

func (a *app) audit() *bank.AuditLogProxy {
	return beans.MustGet[*bank.AuditLogProxy](a.container, "auditLog")
}

// inspect describes every bean in registration order.
func (a *app) inspect() ([]beans.BeanInfo, error) {
	names := a.container.Names()
	out := make([]beans.BeanInfo, 0, len(names))

	for _, name := range names {
		info, err := a.container.Inspect(name)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}

	return out, nil
}

// Close releases the container, then the database. The database is a preset
// instance, so the container leaves it open.
func (a *app) Close(ctx context.Context) error {
	err := a.container.Close(ctx)
	err = multierr.Append(err, a.mgr.Close())
	_ = a.logger.Sync()

	return err
}
