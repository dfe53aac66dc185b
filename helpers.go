package beans

import (
	"fmt"
	"reflect"
)

// Get returns the bean registered under name as T. Callers normally ask for
// a capability interface: a transactional bean is exposed through its proxy,
// which is not the concrete implementation type.
func Get[T any](c *Container, name string) (T, error) {
	var zero T

	instance, err := c.Get(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(name, instance, reflect.TypeFor[T]().String())
	}

	return typed, nil
}

// MustGet is Get that panics on error - use only during startup.
func MustGet[T any](c *Container, name string) T {
	instance, err := Get[T](c, name)
	if err != nil {
		panic(fmt.Sprintf("failed to get bean %s: %v", name, err))
	}

	return instance
}
