package discover

import (
	"fmt"
	"slices"
	"strings"

	"config-binder/internal/analyze"
	"config-binder/internal/diagnostic"
)

// Discoverer enumerates consumption sites reachable from a component.
// A Discoverer is not safe for concurrent use; create one per run.
type Discoverer struct {
	decls Declarations

	sites          []Site
	diags          diagnostic.Diagnostics
	visitedModules map[analyze.TypeID]bool
	visitedTypes   map[analyze.TypeID]bool
}

// NewDiscoverer creates a Discoverer over decls.
func NewDiscoverer(decls Declarations) *Discoverer {
	return &Discoverer{decls: decls}
}

// Discover returns every qualified site reachable from root, in traversal order.
func (d *Discoverer) Discover(root analyze.TypeID) ([]Site, diagnostic.Diagnostics) {
	d.sites = nil
	d.diags = diagnostic.Diagnostics{}
	d.visitedModules = make(map[analyze.TypeID]bool)
	d.visitedTypes = make(map[analyze.TypeID]bool)

	comp, ok := d.decls.Component(root)
	if !ok {
		d.diags.AddError(diagnostic.CodeUnknownRoot,
			fmt.Sprintf("component %s not found", root), "", nil)

		return nil, d.diags
	}

	for _, m := range comp.Accessors {
		d.visitMember(comp.ID, m, OriginAccessor)
	}

	for _, id := range comp.Modules {
		d.visitModule(id)
	}

	return d.sites, d.diags
}

func (d *Discoverer) visitModule(id analyze.TypeID) {
	if d.visitedModules[id] {
		return
	}

	d.visitedModules[id] = true

	mod, ok := d.decls.Module(id)
	if !ok {
		d.diags.AddError(diagnostic.CodeUnknownModule,
			fmt.Sprintf("module %s not found", id), "", nil)

		return
	}

	for _, p := range mod.Providers {
		for _, param := range p.Params {
			d.visitMember(mod.ID, param, OriginProviderParam)
		}
	}

	for _, inc := range mod.Includes {
		d.visitModule(inc)
	}
}

// visitMember records the member as a site when qualified and follows its
// type into injectable declarations.
func (d *Discoverer) visitMember(owner analyze.TypeID, m Member, origin Origin) {
	if m.Qualifier != nil {
		d.sites = append(d.sites, Site{
			Type:      m.Type,
			Qualifier: m.Qualifier,
			Nullable:  m.Nullable,
			Location:  m.Location,
			Owner:     owner,
			Member:    m.Name,
			Origin:    origin,
		})
	}

	if id, ok := d.injectableOf(m.Type); ok {
		d.visitInjectable(id, nil)
	}
}

// injectableOf unwraps pointers and slices down to an injectable type.
func (d *Discoverer) injectableOf(t *analyze.TypeInfo) (analyze.TypeID, bool) {
	for t != nil && (t.Kind == analyze.TypeKindPointer || t.Kind == analyze.TypeKindSlice) {
		t = t.Elem
	}

	if t == nil || t.ID.IsZero() {
		return analyze.TypeID{}, false
	}

	if _, ok := d.decls.Injectable(t.ID); !ok {
		return analyze.TypeID{}, false
	}

	return t.ID, true
}

// visitInjectable visits id once. chain holds the subtypes currently being
// expanded through supertype edges.
func (d *Discoverer) visitInjectable(id analyze.TypeID, chain []analyze.TypeID) {
	if slices.Contains(chain, id) {
		d.reportCycle(append(chain, id))
		return
	}

	if d.visitedTypes[id] {
		return
	}

	d.visitedTypes[id] = true

	inj, ok := d.decls.Injectable(id)
	if !ok {
		return
	}

	chain = append(slices.Clone(chain), id)
	for _, super := range inj.Supertypes {
		d.visitInjectable(super, chain)
	}

	for _, m := range inj.Constructor {
		d.visitMember(inj.ID, m, OriginConstructorParam)
	}

	// Fields shadowing a supertype's field of the same name are still
	// separate sites.
	for _, m := range inj.Fields {
		d.visitMember(inj.ID, m, OriginField)
	}

	for _, method := range inj.Methods {
		for _, m := range method.Params {
			d.visitMember(inj.ID, m, OriginMethodParam)
		}
	}
}

func (d *Discoverer) reportCycle(chain []analyze.TypeID) {
	names := make([]string, 0, len(chain))
	for _, id := range chain {
		names = append(names, id.String())
	}

	d.diags.AddError(diagnostic.CodeInjectableCycle,
		"supertype cycle: "+strings.Join(names, " -> "), "", nil)
}
