package beans

// Config is the already-parsed application context: the component scan root
// and the explicit bean definitions, in file order.
type Config struct {
	// ScanPath is the import path whose catalog types are scanned for
	// component markers, e.g. "github.com/xraph/beans/examples/bank".
	ScanPath string `json:"scan" yaml:"scan"`

	// Beans are registered after the scan; an ID already taken by a scanned
	// component is overwritten.
	Beans []BeanDefinition `json:"beans,omitempty" yaml:"beans,omitempty"`
}

// BeanDefinition is an explicitly configured bean.
type BeanDefinition struct {
	// ID is the registered name. Later definitions with the same ID replace
	// earlier ones.
	ID string `json:"id" yaml:"id"`

	// Type is a catalog type id, see TypeID.
	Type string `json:"type" yaml:"type"`

	// Properties are injected through Set<Name> methods after construction.
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Property injects the bean named Ref through the setter derived from Name.
type Property struct {
	Name string `json:"name" yaml:"name"`
	Ref  string `json:"ref"  yaml:"ref"`
}
