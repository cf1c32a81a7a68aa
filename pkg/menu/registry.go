package menu

import (
	"fmt"
	"sort"
)

// Registry holds menu definitions keyed by id.
type Registry struct {
	menus map[string]*Definition
}

// NewRegistry creates an empty menu registry.
func NewRegistry() *Registry {
	return &Registry{menus: make(map[string]*Definition)}
}

// Register validates and stores a definition. Re-registering an id replaces
// the previous definition.
func (r *Registry) Register(def *Definition) error {
	if err := Validate(def); err != nil {
		return err
	}
	r.menus[def.ID] = def
	return nil
}

// Get returns the definition for id, or an error when unknown.
func (r *Registry) Get(id string) (*Definition, error) {
	def, ok := r.menus[id]
	if !ok {
		return nil, fmt.Errorf("menu %q not found", id)
	}
	return def, nil
}

// Has reports whether a definition is registered for id.
func (r *Registry) Has(id string) bool {
	_, ok := r.menus[id]
	return ok
}

// IDs returns all registered menu ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.menus))
	for id := range r.menus {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the structural invariants of a definition.
func Validate(def *Definition) error {
	if def == nil {
		return fmt.Errorf("menu definition cannot be nil")
	}
	if def.ID == "" {
		return fmt.Errorf("menu must have an id")
	}
	if def.Title == "" {
		return fmt.Errorf("menu %q must have a title", def.ID)
	}
	if len(def.Sections) == 0 {
		return fmt.Errorf("menu %q must have at least one section", def.ID)
	}

	for _, section := range def.Sections {
		if section.ID == "" {
			return fmt.Errorf("section in menu %q must have an id", def.ID)
		}
		for _, item := range section.Items {
			if item.ID == "" {
				return fmt.Errorf("item in section %q of menu %q must have an id", section.ID, def.ID)
			}
			switch item.Action.Kind {
			case ActionNavigate:
				if item.Action.Target == "" {
					return fmt.Errorf("navigate item %q must have a target", item.ID)
				}
			case ActionExecute:
				if item.Action.Handler == "" {
					return fmt.Errorf("execute item %q must have a handler", item.ID)
				}
			case ActionBack, ActionExit:
				// No payload.
			default:
				return fmt.Errorf("item %q has an unknown action kind", item.ID)
			}
		}
	}
	return nil
}
