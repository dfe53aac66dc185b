// Package beans is an annotation-style inversion-of-control container.
//
// Constructible types are registered in a Catalog. A bootstrap scans the
// catalog below an import path for types embedding a component marker
// (Component, Service or Repository), adds the bean definitions of the
// configuration, constructs one singleton per name, fills `inject` tagged
// fields and configured properties, and wraps every type embedding
// Transactional in a proxy that brackets marked method calls with a
// transaction.
//
//	cat := beans.NewCatalog()
//	bank.Register(cat)
//
//	c, err := beans.Bootstrap(ctx, cat, beans.Config{ScanPath: "github.com/acme/bank"},
//	    beans.WithTransactionManager(tm),
//	)
//	if err != nil {
//	    return err
//	}
//	defer c.Close(ctx)
//
//	svc := beans.MustGet[bank.TransferService](c, "transferService")
package beans
