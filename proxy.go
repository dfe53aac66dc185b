package beans

import (
	"fmt"
	"reflect"
	"runtime"
)

// Strategy is how a bean's exposed instance relates to its raw instance.
type Strategy string

const (
	// StrategyNone exposes the raw instance itself.
	StrategyNone Strategy = "none"

	// StrategyInterface exposes a proxy implementing a capability interface
	// of the raw instance and forwarding every call through the interceptor.
	StrategyInterface Strategy = "interface"

	// StrategyEmbedded exposes a proxy that embeds the concrete raw instance
	// and overrides its marked methods. Unmarked methods are promoted.
	StrategyEmbedded Strategy = "embedded"
)

// Proxy is the embeddable base of an interface-forwarding proxy. Target is a
// reference to the raw instance; the container keeps ownership of it.
//
// Example:
//
//	type transferServiceProxy struct {
//	    beans.Proxy[TransferService]
//	}
//
//	func (p transferServiceProxy) Transfer(ctx context.Context, from, to string, amount int64) error {
//	    return p.Invoke(ctx, "Transfer", func(ctx context.Context) error {
//	        return p.Target.Transfer(ctx, from, to, amount)
//	    })
//	}
type Proxy[T any] struct {
	*Interceptor

	Target T
}

// NewProxy creates the proxy base for target.
func NewProxy[T any](target T, ic *Interceptor) Proxy[T] {
	return Proxy[T]{Interceptor: ic, Target: target}
}

// selectProxy decides how a raw instance is exposed. Capability interface
// proxies are preferred in declaration order; the embedded proxy is the
// fallback.
func selectProxy(name string, raw any, specs []proxySpec) (proxySpec, error) {
	rawType := reflect.TypeOf(raw)

	for _, spec := range specs {
		if spec.strategy == StrategyInterface && spec.applies(rawType) {
			return spec, nil
		}
	}

	for _, spec := range specs {
		if spec.strategy == StrategyEmbedded && spec.applies(rawType) {
			return spec, nil
		}
	}

	return proxySpec{}, errProxyUnavailable(name, fmt.Sprintf("type %s is transactional but offers no applicable proxy", rawType))
}

// missingOverrides returns the transactional methods of raw that an embedded
// proxy does not declare itself. Such methods would be promoted from the
// embedded instance and run without a transaction.
func missingOverrides(proxy, raw reflect.Type, policy txPolicy) []string {
	marked := policy.methods
	if policy.all {
		marked = nil
		for i := 0; i < raw.NumMethod(); i++ {
			marked = append(marked, raw.Method(i).Name)
		}
	}

	var missing []string
	for _, name := range marked {
		if !declares(proxy, name) {
			missing = append(missing, name)
		}
	}

	return missing
}

// declares reports whether t or, for a pointer, its element type declares
// method name. Promoted methods are compiler-generated wrappers and do not
// count.
func declares(t reflect.Type, name string) bool {
	types := []reflect.Type{t}
	if t.Kind() == reflect.Ptr {
		types = append(types, t.Elem())
	}

	for _, typ := range types {
		m, ok := typ.MethodByName(name)
		if !ok {
			continue
		}

		pc := m.Func.Pointer()
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		if file, _ := fn.FileLine(pc); file != "<autogenerated>" {
			return true
		}
	}

	return false
}
