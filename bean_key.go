package beans

// BeanKey provides typed bean identification.
//
// Example:
//
//	var TransferServiceKey = beans.NewBeanKey[bank.TransferService]("transferService")
//
//	svc, err := TransferServiceKey.Get(c)
type BeanKey[T any] struct {
	name string
}

// NewBeanKey creates a typed key for the bean registered under name.
func NewBeanKey[T any](name string) BeanKey[T] {
	return BeanKey[T]{name: name}
}

// Name returns the bean name of the key.
func (k BeanKey[T]) Name() string {
	return k.name
}

// Get retrieves the bean of the key from c.
func (k BeanKey[T]) Get(c *Container) (T, error) {
	return Get[T](c, k.name)
}

// MustGet retrieves the bean of the key from c and panics on error.
func (k BeanKey[T]) MustGet(c *Container) T {
	return MustGet[T](c, k.name)
}

// Has reports whether the bean of the key is registered in c.
func (k BeanKey[T]) Has(c *Container) bool {
	return c.Has(k.name)
}

// Inspect returns diagnostic information about the bean of the key.
func (k BeanKey[T]) Inspect(c *Container) (BeanInfo, error) {
	return c.Inspect(k.name)
}
