package graph

import (
	"fmt"
	"sort"
)

// Well-known constant names.
const (
	WallThickness    = "wall_thickness"
	FloorThickness   = "floor_thickness"
	CeilingThickness = "ceiling_thickness"
)

// Constants maps constant names to values.
type Constants map[string]float64

// DefaultConstants returns the builtin thickness defaults. The negative
// ceiling leaves rooms open at the top so they can be seen into from above.
func DefaultConstants() Constants {
	return Constants{
		WallThickness:    10,
		FloorThickness:   10,
		CeilingThickness: -1,
	}
}

// Wall returns the wall thickness.
func (c Constants) Wall() float64 { return c[WallThickness] }

// Floor returns the floor thickness.
func (c Constants) Floor() float64 { return c[FloorThickness] }

// Ceiling returns the ceiling thickness.
func (c Constants) Ceiling() float64 { return c[CeilingThickness] }

// Names returns the constant names in sorted order.
func (c Constants) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Plan is the insertion-ordered, name-indexed collection of entities
// produced by an input reader and consumed by the layout resolver.
type Plan struct {
	order []Entity
	index map[string]Entity
}

// New creates an empty Plan.
func New() *Plan {
	return &Plan{index: make(map[string]Entity)}
}

// Add appends e to the plan. Names must be unique.
func (p *Plan) Add(e Entity) error {
	name := e.EntityName()
	if _, exists := p.index[name]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateName, name)
	}
	p.order = append(p.order, e)
	p.index[name] = e
	return nil
}

// Lookup returns the entity with the given name, or nil.
func (p *Plan) Lookup(name string) Entity {
	return p.index[name]
}

// Volume returns the named entity if it is a Volume.
func (p *Plan) Volume(name string) (*Volume, bool) {
	v, ok := p.index[name].(*Volume)
	return v, ok
}

// Entities returns all entities in insertion order.
func (p *Plan) Entities() []Entity {
	out := make([]Entity, len(p.order))
	copy(out, p.order)
	return out
}

// Volumes returns all volumes in insertion order.
func (p *Plan) Volumes() []*Volume {
	var vs []*Volume
	for _, e := range p.order {
		if v, ok := e.(*Volume); ok {
			vs = append(vs, v)
		}
	}
	return vs
}

// Openings returns all openings in insertion order.
func (p *Plan) Openings() []*Opening {
	var os []*Opening
	for _, e := range p.order {
		if o, ok := e.(*Opening); ok {
			os = append(os, o)
		}
	}
	return os
}

// Constants layers the plan's constant rows over defaults. defaults is
// not modified.
func (p *Plan) Constants(defaults Constants) Constants {
	c := make(Constants, len(defaults))
	for k, v := range defaults {
		c[k] = v
	}
	for _, e := range p.order {
		if k, ok := e.(*Constant); ok {
			c[k.Name] = k.Value
		}
	}
	return c
}

// Len returns the number of entities.
func (p *Plan) Len() int {
	return len(p.order)
}

// Clone returns a deep copy of the plan. Attached openings are remapped to
// the copies.
func (p *Plan) Clone() *Plan {
	c := New()
	openings := make(map[*Opening]*Opening)
	for _, e := range p.order {
		if o, ok := e.(*Opening); ok {
			cp := *o
			openings[o] = &cp
		}
	}
	for _, e := range p.order {
		var ce Entity
		switch v := e.(type) {
		case *Volume:
			cp := *v
			cp.Openings = nil
			for _, o := range v.Openings {
				if co, ok := openings[o]; ok {
					cp.Openings = append(cp.Openings, co)
				}
			}
			ce = &cp
		case *Opening:
			ce = openings[v]
		case *Constant:
			cp := *v
			ce = &cp
		}
		c.order = append(c.order, ce)
		c.index[ce.EntityName()] = ce
	}
	return c
}
