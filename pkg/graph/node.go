package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates the entity variants of a plan.
type Kind int

const (
	KindVolume   Kind = iota // positive space (room, shelf, box)
	KindOpening              // negative space cut from a wall (door, window)
	KindConstant             // named scalar
)

func (k Kind) String() string {
	switch k {
	case KindVolume:
		return "volume"
	case KindOpening:
		return "opening"
	case KindConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Entity is one row of a plan. Implementations are restricted to this
// package: *Volume, *Opening and *Constant.
type Entity interface {
	EntityName() string
	Kind() Kind
	// AdjacentTo returns the placement target, or "" for constants.
	AdjacentTo() string
	entity()
}

// SourceRef records where an entity was declared.
type SourceRef struct {
	Line int    `json:"line,omitempty"`
	Text string `json:"text,omitempty"` // raw row or expression
}

var (
	ErrUnknownKind     = errors.New("unknown entity kind")
	ErrMalformedEntity = errors.New("malformed entity")
	ErrDuplicateName   = errors.New("duplicate entity name")
)

// EntitySpec carries the already-typed fields of one input row. Which
// fields are required depends on the kind label.
//
// For doors and windows the CSV columns are reused:
// Depth is the span of the hole from bottom to top and Height is the
// distance from the floor to the bottom of the hole.
type EntitySpec struct {
	Label     string // room, shelf, shelves, box, door, window, constant
	Name      string
	Width     *float64
	Depth     *float64
	Height    *float64
	Adjacent  string
	Direction string
	Alignment string
	Offset    float64
	Colour    string
	Source    SourceRef
}

// Float is a convenience for filling optional EntitySpec fields.
func Float(f float64) *float64 { return &f }

type maker func(EntitySpec) (Entity, error)

var makers = map[string]maker{
	"room":     makeVolume(VolumeRoom),
	"shelf":    makeVolume(VolumeShelf),
	"shelves":  makeVolume(VolumeShelf),
	"box":      makeVolume(VolumeBox),
	"door":     makeOpening(OpeningDoor),
	"window":   makeOpening(OpeningWindow),
	"constant": makeConstant,
}

// KindLabels returns the accepted kind labels.
func KindLabels() []string {
	return []string{"room", "shelf", "shelves", "box", "door", "window", "constant"}
}

// NewEntity builds the entity variant selected by spec.Label.
func NewEntity(spec EntitySpec) (Entity, error) {
	label := strings.ToLower(strings.TrimSpace(spec.Label))
	mk, ok := makers[label]
	if !ok {
		return nil, fmt.Errorf("%q: %w %q", spec.Name, ErrUnknownKind, spec.Label)
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("%w: %s row has no name", ErrMalformedEntity, label)
	}
	if spec.Name == Start {
		return nil, malformed(spec.Name, "%q is reserved for the root marker", Start)
	}
	return mk(spec)
}

func malformed(name, format string, args ...any) error {
	return fmt.Errorf("%q: %w: %s", name, ErrMalformedEntity, fmt.Sprintf(format, args...))
}

func require(name, field string, v *float64) (float64, error) {
	if v == nil {
		return 0, malformed(name, "missing %s", field)
	}
	return *v, nil
}

func makeVolume(kind VolumeKind) maker {
	return func(spec EntitySpec) (Entity, error) {
		var dims [3]float64
		for i, f := range []struct {
			field string
			v     *float64
		}{{"width", spec.Width}, {"depth", spec.Depth}, {"height", spec.Height}} {
			d, err := require(spec.Name, f.field, f.v)
			if err != nil {
				return nil, err
			}
			if d <= 0 {
				return nil, malformed(spec.Name, "%s is %g, must be positive", f.field, d)
			}
			dims[i] = d
		}
		if spec.Adjacent == "" {
			return nil, malformed(spec.Name, "missing adjacent")
		}
		dir, err := ParseDirection(spec.Direction)
		if err != nil {
			return nil, malformed(spec.Name, "%v", err)
		}
		align, err := ParseAlignment(spec.Alignment)
		if err != nil {
			return nil, malformed(spec.Name, "%v", err)
		}
		return &Volume{
			Name:       spec.Name,
			VolumeKind: kind,
			Dimensions: Vec3{dims[0], dims[1], dims[2]},
			Adjacent:   spec.Adjacent,
			Direction:  dir,
			Alignment:  align,
			Offset:     spec.Offset,
			Colour:     strings.TrimSpace(spec.Colour),
			Source:     spec.Source,
		}, nil
	}
}

func makeOpening(kind OpeningKind) maker {
	return func(spec EntitySpec) (Entity, error) {
		width, err := require(spec.Name, "width", spec.Width)
		if err != nil {
			return nil, err
		}
		span, err := require(spec.Name, "depth (span)", spec.Depth)
		if err != nil {
			return nil, err
		}
		if width <= 0 || span <= 0 {
			return nil, malformed(spec.Name, "opening size %gx%g must be positive", width, span)
		}
		// A missing height puts the hole on the floor.
		var fromFloor float64
		if spec.Height != nil {
			fromFloor = *spec.Height
		}
		if fromFloor < 0 {
			return nil, malformed(spec.Name, "height from floor is %g, must not be negative", fromFloor)
		}
		if spec.Adjacent == "" {
			return nil, malformed(spec.Name, "missing adjacent")
		}
		wall, err := ParseWall(spec.Direction)
		if err != nil {
			return nil, malformed(spec.Name, "%v", err)
		}
		return &Opening{
			Name:            spec.Name,
			OpeningKind:     kind,
			Dimensions:      Vec3{X: width, Y: span},
			HeightFromFloor: fromFloor,
			Offset:          spec.Offset,
			Adjacent:        spec.Adjacent,
			Wall:            wall,
			Source:          spec.Source,
		}, nil
	}
}

// A constant's value sits in the width column.
func makeConstant(spec EntitySpec) (Entity, error) {
	v, err := require(spec.Name, "value (width)", spec.Width)
	if err != nil {
		return nil, err
	}
	return &Constant{Name: spec.Name, Value: v, Source: spec.Source}, nil
}
