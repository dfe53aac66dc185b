package beans

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/go-utils/log"
)

// Source is where a bean registration came from.
type Source string

const (
	// SourceInstance is a pre-built instance passed with WithInstance.
	SourceInstance Source = "instance"

	// SourceTagged is a catalog type carrying a component marker under the scan root.
	SourceTagged Source = "tagged"

	// SourceExplicit is a bean definition from the configuration.
	SourceExplicit Source = "explicit"
)

// TypeDescriptor is one bean registration produced by discovery: the name it
// is registered under and the catalog type it is constructed from.
type TypeDescriptor struct {
	Name   string
	TypeID string
	Source Source
	Role   Role

	// Definition is set for explicit registrations.
	Definition *BeanDefinition

	entry *catalogEntry
	value any // SourceInstance only
}

// registry is an insertion-ordered name -> descriptor map. Overwriting a name
// keeps its original position.
type registry struct {
	byName map[string]int
	list   []TypeDescriptor
	logger log.Logger
}

func newRegistry(logger log.Logger) *registry {
	return &registry{
		byName: make(map[string]int),
		logger: logger,
	}
}

func (r *registry) put(d TypeDescriptor) {
	if i, ok := r.byName[d.Name]; ok {
		prev := r.list[i]
		r.logger.Debug("bean registration overwritten",
			log.String("bean", d.Name),
			log.String("previous_type", prev.TypeID),
			log.String("previous_source", string(prev.Source)),
			log.String("type", d.TypeID),
			log.String("source", string(d.Source)),
		)
		r.list[i] = d
		return
	}

	r.byName[d.Name] = len(r.list)
	r.list = append(r.list, d)
}

// Discover resolves the registrations a bootstrap with cfg would construct:
// every marked concrete type under the scan root, then every explicit bean
// definition. A later registration under an existing name replaces the
// earlier one.
func Discover(cat *Catalog, cfg Config) ([]TypeDescriptor, error) {
	return discover(cat, cfg, nil, log.NewNoopLogger())
}

func discover(cat *Catalog, cfg Config, presets []preset, logger log.Logger) ([]TypeDescriptor, error) {
	root := strings.TrimSpace(cfg.ScanPath)
	if root == "" {
		return nil, ErrEmptyScanPath
	}

	entries := cat.under(root)
	if len(entries) == 0 {
		return nil, errScanRootNotFound(root)
	}

	reg := newRegistry(logger)

	for _, p := range presets {
		if isNil(p.value) {
			return nil, errConstructionFailed(p.name, errors.New("pre-built instance is nil"))
		}

		reg.put(TypeDescriptor{
			Name:   p.name,
			TypeID: fmt.Sprintf("%T", p.value),
			Source: SourceInstance,
			value:  p.value,
		})
	}

	for _, e := range entries {
		if !e.meta.concrete || e.meta.role == RoleNone {
			continue
		}

		name := e.meta.name
		if name == "" {
			name = DeriveName(e.meta.simple)
		}

		reg.put(TypeDescriptor{
			Name:   name,
			TypeID: e.typeID,
			Source: SourceTagged,
			Role:   e.meta.role,
			entry:  e,
		})
	}

	for i := range cfg.Beans {
		def := cfg.Beans[i]

		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, errInvalidDefinition(i, "id is empty")
		}

		typeID := strings.TrimSpace(def.Type)
		if typeID == "" {
			return nil, errInvalidDefinition(i, fmt.Sprintf("bean '%s' has no type", id))
		}

		e, ok := cat.get(typeID)
		if !ok {
			return nil, errTypeNotFound(id, typeID)
		}

		def.ID = id
		def.Type = typeID

		reg.put(TypeDescriptor{
			Name:       id,
			TypeID:     typeID,
			Source:     SourceExplicit,
			Role:       e.meta.role,
			Definition: &def,
			entry:      e,
		})
	}

	logger.Debug("discovery complete",
		log.String("scan_root", root),
		log.Int("scanned_types", len(entries)),
		log.Int("registrations", len(reg.list)),
	)

	return reg.list, nil
}
