package discover

import (
	"config-binder/internal/analyze"
	"config-binder/internal/binding"
	"config-binder/internal/common"
	"config-binder/internal/diagnostic"
)

// Declarations gives the discoverer access to a declaration graph.
type Declarations interface {
	Component(id analyze.TypeID) (*Component, bool)
	Module(id analyze.TypeID) (*Module, bool)
	Injectable(id analyze.TypeID) (*Injectable, bool)
}

// Member is a method result, parameter or field that consumes a value.
type Member struct {
	// Name of the accessor, parameter or field.
	Name string
	Type *analyze.TypeInfo
	// Qualifier is nil when the member carries no binding metadata.
	Qualifier binding.Qualifier
	// Nullable is set by an explicit optional marker.
	Nullable bool
	Location diagnostic.Location
}

// Component is a root declaration: an interface of accessor methods plus the
// provider modules it installs.
type Component struct {
	ID        analyze.TypeID
	Accessors []Member
	Modules   []analyze.TypeID
}

// Module is a provider module.
type Module struct {
	ID        analyze.TypeID
	Includes  []analyze.TypeID
	Providers []Method
}

// Method is a provider or injection method and its parameters.
type Method struct {
	Name   string
	Params []Member
}

// Injectable is a type the container constructs, with its injection points.
type Injectable struct {
	ID analyze.TypeID
	// Supertypes are the embedded injectable types.
	Supertypes  []analyze.TypeID
	Constructor []Member
	Fields      []Member
	Methods     []Method
}

// Graph is an in-memory Declarations implementation.
type Graph struct {
	Components  map[analyze.TypeID]*Component
	Modules     map[analyze.TypeID]*Module
	Injectables map[analyze.TypeID]*Injectable
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Components:  make(map[analyze.TypeID]*Component),
		Modules:     make(map[analyze.TypeID]*Module),
		Injectables: make(map[analyze.TypeID]*Injectable),
	}
}

// AddComponent registers c.
func (g *Graph) AddComponent(c *Component) { g.Components[c.ID] = c }

// AddModule registers m.
func (g *Graph) AddModule(m *Module) { g.Modules[m.ID] = m }

// AddInjectable registers i.
func (g *Graph) AddInjectable(i *Injectable) { g.Injectables[i.ID] = i }

func (g *Graph) Component(id analyze.TypeID) (*Component, bool) {
	c, ok := g.Components[id]
	return c, ok
}

func (g *Graph) Module(id analyze.TypeID) (*Module, bool) {
	m, ok := g.Modules[id]
	return m, ok
}

func (g *Graph) Injectable(id analyze.TypeID) (*Injectable, bool) {
	i, ok := g.Injectables[id]
	return i, ok
}

// ComponentIDs returns the registered component IDs in sorted order.
func (g *Graph) ComponentIDs() []analyze.TypeID {
	byName := make(map[string]analyze.TypeID, len(g.Components))
	for id := range g.Components {
		byName[id.String()] = id
	}

	ids := make([]analyze.TypeID, 0, len(byName))
	for _, name := range common.SortedKeys(byName) {
		ids = append(ids, byName[name])
	}

	return ids
}
