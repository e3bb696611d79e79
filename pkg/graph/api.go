package graph

import (
	"errors"
	"fmt"
)

// PlanBuilder provides a fluent API for assembling plans in code. Errors
// are collected and returned together by Build.
type PlanBuilder struct {
	plan *Plan
	errs []error
}

// NewPlanBuilder creates an empty builder.
func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{plan: New()}
}

// Placement carries the relative placement of a volume.
type Placement struct {
	Adjacent  string
	Direction string
	Alignment string
	Offset    float64
	Colour    string
}

// At is shorthand for a Placement with only an adjacency target.
func At(adjacent string) Placement {
	return Placement{Adjacent: adjacent}
}

// Dir sets the direction of the placement.
func (p Placement) Dir(d string) Placement {
	p.Direction = d
	return p
}

// Align sets the alignment of the placement.
func (p Placement) Align(a string) Placement {
	p.Alignment = a
	return p
}

// By sets the offset of the placement.
func (p Placement) By(offset float64) Placement {
	p.Offset = offset
	return p
}

// Coloured sets the display colour of the volume.
func (p Placement) Coloured(c string) Placement {
	p.Colour = c
	return p
}

// Add constructs an entity from spec and appends it.
func (b *PlanBuilder) Add(spec EntitySpec) *PlanBuilder {
	e, err := NewEntity(spec)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if err := b.plan.Add(e); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *PlanBuilder) volume(label, name string, w, d, h float64, at Placement) *PlanBuilder {
	return b.Add(EntitySpec{
		Label:     label,
		Name:      name,
		Width:     Float(w),
		Depth:     Float(d),
		Height:    Float(h),
		Adjacent:  at.Adjacent,
		Direction: at.Direction,
		Alignment: at.Alignment,
		Offset:    at.Offset,
		Colour:    at.Colour,
	})
}

// Room adds a room with interior dimensions w x d x h.
func (b *PlanBuilder) Room(name string, w, d, h float64, at Placement) *PlanBuilder {
	return b.volume("room", name, w, d, h, at)
}

// Shelf adds a shelf unit.
func (b *PlanBuilder) Shelf(name string, w, d, h float64, at Placement) *PlanBuilder {
	return b.volume("shelf", name, w, d, h, at)
}

// Box adds a box.
func (b *PlanBuilder) Box(name string, w, d, h float64, at Placement) *PlanBuilder {
	return b.volume("box", name, w, d, h, at)
}

// Door adds a door of the given width and span in wall of adjacent.
func (b *PlanBuilder) Door(name string, width, span, fromFloor float64, adjacent, wall string, offset float64) *PlanBuilder {
	return b.opening("door", name, width, span, fromFloor, adjacent, wall, offset)
}

// Window adds a window of the given width and span in wall of adjacent.
func (b *PlanBuilder) Window(name string, width, span, fromFloor float64, adjacent, wall string, offset float64) *PlanBuilder {
	return b.opening("window", name, width, span, fromFloor, adjacent, wall, offset)
}

func (b *PlanBuilder) opening(label, name string, width, span, fromFloor float64, adjacent, wall string, offset float64) *PlanBuilder {
	return b.Add(EntitySpec{
		Label:     label,
		Name:      name,
		Width:     Float(width),
		Depth:     Float(span),
		Height:    Float(fromFloor),
		Adjacent:  adjacent,
		Direction: wall,
		Offset:    offset,
	})
}

// Constant adds a named constant.
func (b *PlanBuilder) Constant(name string, value float64) *PlanBuilder {
	return b.Add(EntitySpec{Label: "constant", Name: name, Width: Float(value)})
}

// Build returns the plan, or the joined construction errors.
func (b *PlanBuilder) Build() (*Plan, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("build plan: %w", errors.Join(b.errs...))
	}
	return b.plan, nil
}

// MustBuild returns the plan or panics. Intended for tests and fixtures.
func (b *PlanBuilder) MustBuild() *Plan {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
