package marker

import (
	"fmt"

	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=rules.go -destination=mocks/rules.gen.go -package=mocks

// Action is what a rule asks the engine to do. A plain action roots
// Target. An action with a Fields scope records the forced-fields
// refinement on the type Target instead.
type Action struct {
	Target metadata.ID
	Fields markset.FieldScope
}

// Keep roots id.
func Keep(id metadata.ID) Action {
	return Action{Target: id}
}

// KeepFields forces the fields of typeID within scope.
func KeepFields(typeID metadata.ID, scope markset.FieldScope) Action {
	return Action{Target: typeID, Fields: scope}
}

// Rule is a platform plug-in. A rule takes part in a pass by also
// implementing one or more of the hook interfaces below. Hooks must not
// mutate the graph; they only return actions.
type Rule interface {
	Name() string
}

// MethodMarkedRule fires once per method, right after it is marked.
type MethodMarkedRule interface {
	Rule
	OnMethodMarked(m *metadata.Method) []Action
}

// TypeMarkedRule fires once per type, right after it is marked and
// before the universal-contract closure.
type TypeMarkedRule interface {
	Rule
	OnTypeMarked(t *metadata.Type) []Action
}

// TypeResolvedRule fires once per distinct type the engine resolves,
// whether or not the type ends up marked.
type TypeResolvedRule interface {
	Rule
	OnTypeResolved(t *metadata.Type) []Action
}

// Registry holds the rules of a pass. Rules fire in registration order.
type Registry struct {
	rules        []Rule
	names        map[string]bool
	methodMarked []MethodMarkedRule
	typeMarked   []TypeMarkedRule
	typeResolved []TypeResolvedRule
}

// NewRegistry returns a registry holding rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{names: make(map[string]bool)}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds rule. Names must be unique.
func (r *Registry) Register(rule Rule) error {
	if rule == nil {
		return ErrNilRule
	}
	name := rule.Name()
	if r.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}

	hooked := false
	if h, ok := rule.(MethodMarkedRule); ok {
		r.methodMarked = append(r.methodMarked, h)
		hooked = true
	}
	if h, ok := rule.(TypeMarkedRule); ok {
		r.typeMarked = append(r.typeMarked, h)
		hooked = true
	}
	if h, ok := rule.(TypeResolvedRule); ok {
		r.typeResolved = append(r.typeResolved, h)
		hooked = true
	}
	if !hooked {
		return fmt.Errorf("%w: %s", ErrNoHooks, name)
	}

	r.names[name] = true
	r.rules = append(r.rules, rule)
	return nil
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}
