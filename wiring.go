package beans

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/log"
)

var errorType = reflect.TypeFor[error]()

// injectFields fills `inject` tagged fields from the registered raw instances.
// A field whose bean is not registered keeps its zero value.
func (b *bootstrapper) injectFields() error {
	for _, name := range b.order {
		rec := b.records[name]
		if rec.desc.Source == SourceInstance {
			continue
		}

		meta, err := metadataFor(reflect.TypeOf(rec.raw))
		if err != nil {
			return err
		}

		if len(meta.targets) == 0 {
			continue
		}

		target := reflect.ValueOf(rec.raw).Elem()

		for _, t := range meta.targets {
			depName := t.lookupName()

			dep, ok := b.records[depName]
			if !ok {
				b.logger.Debug("injection target left unset",
					log.String("bean", name),
					log.String("field", t.field),
					log.String("lookup", depName),
				)
				continue
			}

			value := reflect.ValueOf(dep.raw)
			if !value.Type().AssignableTo(t.typ) {
				return errTypeMismatch(depName, dep.raw, fmt.Sprintf("%s (field %s of bean '%s')", t.typ, t.field, name))
			}

			target.Field(t.index).Set(value)
			b.graph.AddEdge(name, depName)
		}
	}

	return nil
}

// injectProperties applies the configured properties of explicit beans
// through their Set<Property> methods.
func (b *bootstrapper) injectProperties() error {
	for _, name := range b.order {
		rec := b.records[name]
		def := rec.desc.Definition
		if def == nil {
			continue
		}

		for _, p := range def.Properties {
			if err := b.injectProperty(rec, p); err != nil {
				return err
			}
		}
	}

	return nil
}

func (b *bootstrapper) injectProperty(rec *instanceRecord, p Property) error {
	prop := strings.TrimSpace(p.Name)
	ref := strings.TrimSpace(p.Ref)

	if prop == "" {
		return errWiringFailed(rec.name, p.Name, "property name is empty", nil)
	}

	if ref == "" {
		return errWiringFailed(rec.name, prop, "property has no ref", nil)
	}

	dep, ok := b.records[ref]
	if !ok {
		return errWiringFailed(rec.name, prop, fmt.Sprintf("referenced bean '%s' is not registered", ref), nil)
	}

	setterName := SetterName(prop)

	setter := reflect.ValueOf(rec.raw).MethodByName(setterName)
	if !setter.IsValid() {
		return errWiringFailed(rec.name, prop, fmt.Sprintf("%T has no method %s", rec.raw, setterName), nil)
	}

	st := setter.Type()
	if st.NumIn() != 1 || st.NumOut() > 1 || (st.NumOut() == 1 && st.Out(0) != errorType) {
		return errWiringFailed(rec.name, prop, fmt.Sprintf("%s must take one argument and return nothing or an error", setterName), nil)
	}

	value := reflect.ValueOf(dep.raw)
	if !value.Type().AssignableTo(st.In(0)) {
		return errWiringFailed(rec.name, prop, fmt.Sprintf("bean '%s' (%s) is not assignable to %s", ref, value.Type(), st.In(0)), nil)
	}

	out := setter.Call([]reflect.Value{value})
	if len(out) == 1 && !out[0].IsNil() {
		return errWiringFailed(rec.name, prop, setterName+" failed", out[0].Interface().(error))
	}

	b.graph.AddEdge(rec.name, ref)

	b.logger.Debug("property injected",
		log.String("bean", rec.name),
		log.String("property", prop),
		log.String("ref", ref),
	)

	return nil
}
