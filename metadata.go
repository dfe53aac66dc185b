package beans

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Component marks a struct as a managed component when embedded. The optional
// struct tag `bean:"name"` on the embedded field sets the registered name;
// without it the name is derived from the type name.
//
// Example:
//
//	type AuditLog struct {
//	    beans.Component
//	}
type Component struct{}

// Service marks a struct as a business service component.
//
// Example:
//
//	type TransferServiceImpl struct {
//	    beans.Service `bean:"transferService"`
//
//	    AccountDao AccountDao `inject:"accountDao"`
//	}
type Service struct{}

// Repository marks a struct as a data access component.
type Repository struct{}

// Transactional marks a struct for transaction demarcation when embedded.
// Without a `methods` tag every exported method runs in its own transaction.
// With `methods:"Transfer,Refund"` only the listed methods do.
type Transactional struct{}

// Role is the component role a type declares through its marker.
type Role string

const (
	RoleNone       Role = ""
	RoleComponent  Role = "component"
	RoleService    Role = "service"
	RoleRepository Role = "repository"
)

const (
	tagBean    = "bean"
	tagInject  = "inject"
	tagMethods = "methods"
)

var markerRoles = map[reflect.Type]Role{
	reflect.TypeFor[Component]():  RoleComponent,
	reflect.TypeFor[Service]():    RoleService,
	reflect.TypeFor[Repository](): RoleRepository,
}

var transactionalType = reflect.TypeFor[Transactional]()

// typeMetadata is the declarative metadata read from a type's struct tags.
type typeMetadata struct {
	concrete bool // struct or pointer to struct
	role     Role
	name     string // from `bean:"..."`, empty when derived
	simple   string // simple type identifier
	tx       txPolicy
	targets  []injectionTarget
}

// txPolicy records where a type carries the transactional marker.
type txPolicy struct {
	all     bool     // class-level marker
	methods []string // method-level markers, ignored when all is set
}

// wraps reports whether any call on the type needs interception.
func (p txPolicy) wraps() bool {
	return p.all || len(p.methods) > 0
}

// marks reports whether a call to method runs in a transaction.
func (p txPolicy) marks(method string) bool {
	if p.all {
		return true
	}
	for _, m := range p.methods {
		if m == method {
			return true
		}
	}
	return false
}

// injectionTarget is a field marked for dependency injection.
type injectionTarget struct {
	field string
	index int
	typ   reflect.Type
	name  string // explicit lookup name, empty when derived from typ
}

// lookupName returns the bean name the target is filled from.
func (t injectionTarget) lookupName() string {
	if t.name != "" {
		return t.name
	}
	return DeriveName(elemType(t.typ).Name())
}

var metadataCache sync.Map // reflect.Type -> *typeMetadata

// metadataFor returns the cached metadata of t, analyzing it on first use.
func metadataFor(t reflect.Type) (*typeMetadata, error) {
	if cached, ok := metadataCache.Load(t); ok {
		return cached.(*typeMetadata), nil
	}

	meta, err := analyzeType(TypeID(t), t)
	if err != nil {
		return nil, err
	}

	metadataCache.Store(t, meta)

	return meta, nil
}

// analyzeType inspects the struct tags of t. Types that are not a struct or a
// pointer to one carry no metadata and are reported as non-concrete.
func analyzeType(typeID string, t reflect.Type) (*typeMetadata, error) {
	st := elemType(t)
	meta := &typeMetadata{simple: st.Name()}

	if st.Kind() != reflect.Struct {
		return meta, nil
	}
	meta.concrete = true

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)

		if field.Anonymous {
			if role, ok := markerRoles[field.Type]; ok {
				if meta.role != RoleNone {
					return nil, errInvalidMetadata(typeID, fmt.Sprintf("multiple component markers (%s, %s)", meta.role, role))
				}
				meta.role = role
				meta.name = strings.TrimSpace(field.Tag.Get(tagBean))
				continue
			}

			if field.Type == transactionalType {
				methods := splitList(field.Tag.Get(tagMethods))
				if len(methods) == 0 {
					meta.tx.all = true
				} else {
					meta.tx.methods = methods
				}
				continue
			}
		}

		name, ok := field.Tag.Lookup(tagInject)
		if !ok {
			continue
		}

		if !field.IsExported() {
			return nil, errInvalidMetadata(typeID, fmt.Sprintf("inject field %s must be exported", field.Name))
		}

		if t.Kind() != reflect.Ptr {
			return nil, errInvalidMetadata(typeID, fmt.Sprintf("inject field %s needs a pointer receiver type, got %s", field.Name, t))
		}

		meta.targets = append(meta.targets, injectionTarget{
			field: field.Name,
			index: i,
			typ:   field.Type,
			name:  strings.TrimSpace(name),
		})
	}

	if !meta.tx.all {
		for _, m := range meta.tx.methods {
			if _, ok := t.MethodByName(m); !ok {
				return nil, errInvalidMetadata(typeID, fmt.Sprintf("transactional method %s is not an exported method of %s", m, t))
			}
		}
	}

	return meta, nil
}

// DeriveName lower-cases the first character of a simple type identifier:
// "AccountDaoImpl" becomes "accountDaoImpl".
func DeriveName(identifier string) string {
	if i := strings.LastIndex(identifier, "."); i >= 0 {
		identifier = identifier[i+1:]
	}

	r, size := utf8.DecodeRuneInString(identifier)
	if r == utf8.RuneError {
		return identifier
	}

	return string(unicode.ToLower(r)) + identifier[size:]
}

// SetterName returns the mutator a configured property is injected through:
// "accountDao" becomes "SetAccountDao".
func SetterName(property string) string {
	r, size := utf8.DecodeRuneInString(property)
	if r == utf8.RuneError {
		return "Set"
	}

	return "Set" + string(unicode.ToUpper(r)) + property[size:]
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
