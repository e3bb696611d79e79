package graph

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Volume
// ---------------------------------------------------------------------------

// VolumeKind distinguishes between positive spaces. Only rooms are
// treated specially (their dimensions are interior).
type VolumeKind int

const (
	VolumeRoom  VolumeKind = iota // hollow room, interior dimensions
	VolumeShelf                   // solid shelf unit
	VolumeBox                     // solid box
)

func (k VolumeKind) String() string {
	switch k {
	case VolumeRoom:
		return "room"
	case VolumeShelf:
		return "shelf"
	case VolumeBox:
		return "box"
	default:
		return "unknown"
	}
}

// Volume is a cuboid positive space such as a room, shelf or box.
type Volume struct {
	Name       string
	VolumeKind VolumeKind
	Dimensions Vec3 // width x depth x height
	Position   Vec3 // min corner, set by the resolver
	Placed     bool // true once the resolver has fixed Position
	Adjacent   string
	Direction  Direction
	Alignment  Alignment
	Offset     float64
	Colour     string
	Openings   []*Opening // attached by the resolver, in plan order
	Source     SourceRef
}

func (v *Volume) EntityName() string { return v.Name }
func (v *Volume) Kind() Kind         { return KindVolume }
func (v *Volume) AdjacentTo() string { return v.Adjacent }
func (*Volume) entity()              {}

func (v *Volume) String() string {
	return fmt.Sprintf("<%s %s of size %s at %s, %s of %s, aligned %s>",
		v.VolumeKind, v.Name, v.Dimensions, v.Position, v.Direction, v.Adjacent, v.Alignment)
}

// ---------------------------------------------------------------------------
// Opening
// ---------------------------------------------------------------------------

// OpeningKind distinguishes doors from windows. Informational only.
type OpeningKind int

const (
	OpeningDoor OpeningKind = iota
	OpeningWindow
)

func (k OpeningKind) String() string {
	if k == OpeningWindow {
		return "window"
	}
	return "door"
}

// Opening is a cuboid negative space punched through one wall of a Volume.
//
// Dimensions holds width (along the wall), span (bottom to top of the hole)
// and thickness (through the wall). Thickness is filled in by the resolver.
// The cut is emitted as a cuboid of CutSize, moved by PreShift, rotated by
// Rotation (Euler degrees) and moved by PostShift, in the Volume's local
// frame.
type Opening struct {
	Name            string
	OpeningKind     OpeningKind
	Dimensions      Vec3
	HeightFromFloor float64
	Offset          float64
	Adjacent        string
	Wall            Wall
	PreShift        Vec3
	Rotation        Vec3
	PostShift       Vec3
	Attached        bool
	Source          SourceRef
}

func (o *Opening) EntityName() string { return o.Name }
func (o *Opening) Kind() Kind         { return KindOpening }
func (o *Opening) AdjacentTo() string { return o.Adjacent }
func (*Opening) entity()              {}

// CutSize returns the cut cuboid in wall-local coordinates: x along the
// wall, y through the wall, z up.
func (o *Opening) CutSize() Vec3 {
	return Vec3{X: o.Dimensions.X, Y: o.Dimensions.Z, Z: o.Dimensions.Y}
}

// ---------------------------------------------------------------------------
// Constant
// ---------------------------------------------------------------------------

// Constant is a named scalar such as the wall thickness.
type Constant struct {
	Name   string
	Value  float64
	Source SourceRef
}

func (c *Constant) EntityName() string { return c.Name }
func (c *Constant) Kind() Kind         { return KindConstant }
func (c *Constant) AdjacentTo() string { return "" }
func (*Constant) entity()              {}

// ---------------------------------------------------------------------------
// Direction
// ---------------------------------------------------------------------------

// Direction places a volume beside its parent along one axis.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirFront
	DirBehind
	DirBelow
	DirAbove
)

var directionNames = map[string]Direction{
	"":       DirNone,
	"left":   DirLeft,
	"right":  DirRight,
	"front":  DirFront,
	"behind": DirBehind,
	"below":  DirBelow,
	"above":  DirAbove,
}

// ParseDirection parses a volume direction. The empty string is DirNone.
func ParseDirection(s string) (Direction, error) {
	d, ok := directionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DirNone, fmt.Errorf("invalid direction %q, expected left/right/front/behind/above/below", s)
	}
	return d, nil
}

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirFront:
		return "front"
	case DirBehind:
		return "behind"
	case DirBelow:
		return "below"
	case DirAbove:
		return "above"
	default:
		return "none"
	}
}

// Axis returns the axis d moves along; ok is false for DirNone.
func (d Direction) Axis() (a Axis, ok bool) {
	switch d {
	case DirLeft, DirRight:
		return AxisX, true
	case DirFront, DirBehind:
		return AxisY, true
	case DirBelow, DirAbove:
		return AxisZ, true
	default:
		return AxisX, false
	}
}

// Positive reports whether d points along the positive axis.
func (d Direction) Positive() bool {
	return d == DirRight || d == DirBehind || d == DirAbove
}

// ---------------------------------------------------------------------------
// Wall
// ---------------------------------------------------------------------------

// Wall selects which vertical wall of a volume an opening is cut into.
type Wall int

const (
	WallFront Wall = iota // y = 0
	WallBack              // y = depth
	WallLeft              // x = 0
	WallRight             // x = width
)

// ParseWall parses an opening wall name.
func ParseWall(s string) (Wall, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return WallFront, nil
	case "back":
		return WallBack, nil
	case "left":
		return WallLeft, nil
	case "right":
		return WallRight, nil
	case "":
		return WallFront, fmt.Errorf("missing wall, expected front/back/left/right")
	}
	return WallFront, fmt.Errorf("invalid wall %q, expected front/back/left/right", s)
}

func (w Wall) String() string {
	switch w {
	case WallBack:
		return "back"
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	default:
		return "front"
	}
}

// ---------------------------------------------------------------------------
// Alignment
// ---------------------------------------------------------------------------

// Alignment is a set of edges a volume aligns to on its parent. At most
// one edge per axis may be set.
type Alignment uint8

const (
	AlignLeft Alignment = 1 << iota
	AlignRight
	AlignFront
	AlignBack
	AlignBottom
	AlignTop
)

var alignNames = []struct {
	name string
	flag Alignment
}{
	{"left", AlignLeft},
	{"right", AlignRight},
	{"front", AlignFront},
	{"back", AlignBack},
	{"bottom", AlignBottom},
	{"top", AlignTop},
}

// ParseAlignment parses a set of edge names separated by anything that is
// not a letter ("bottom right", "left,back", "top+front").
func ParseAlignment(s string) (Alignment, error) {
	var a Alignment
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	for _, w := range words {
		found := false
		for _, n := range alignNames {
			if n.name == w {
				a |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("invalid alignment %q, expected left/right/front/back/bottom/top", w)
		}
	}
	for _, ax := range Axes {
		if a.Low(ax) && a.High(ax) {
			return 0, fmt.Errorf("alignment %q names both edges of axis %s", s, ax)
		}
	}
	return a, nil
}

// Has reports whether all flags in f are set.
func (a Alignment) Has(f Alignment) bool { return a&f == f }

// Low reports whether a aligns to the low edge (left, front, bottom) of axis.
func (a Alignment) Low(axis Axis) bool {
	switch axis {
	case AxisX:
		return a.Has(AlignLeft)
	case AxisY:
		return a.Has(AlignFront)
	default:
		return a.Has(AlignBottom)
	}
}

// High reports whether a aligns to the high edge (right, back, top) of axis.
func (a Alignment) High(axis Axis) bool {
	switch axis {
	case AxisX:
		return a.Has(AlignRight)
	case AxisY:
		return a.Has(AlignBack)
	default:
		return a.Has(AlignTop)
	}
}

func (a Alignment) String() string {
	if a == 0 {
		return "none"
	}
	var names []string
	for _, n := range alignNames {
		if a.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, " ")
}
