package graph_test

import (
	"errors"
	"testing"

	"github.com/chazu/roomplan/pkg/graph"
)

func TestVec3GetSet(t *testing.T) {
	v := graph.Vec3{X: 1, Y: 2, Z: 3}
	for _, tt := range []struct {
		axis graph.Axis
		want float64
	}{
		{graph.AxisX, 1},
		{graph.AxisY, 2},
		{graph.AxisZ, 3},
	} {
		if got := v.Get(tt.axis); got != tt.want {
			t.Errorf("Get(%s) = %g, want %g", tt.axis, got, tt.want)
		}
	}

	w := v.Set(graph.AxisY, 9)
	if w.Y != 9 || v.Y != 2 {
		t.Errorf("Set should return a modified copy, got %v (original %v)", w, v)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in       string
		want     graph.Direction
		axis     graph.Axis
		positive bool
		wantErr  bool
	}{
		{"", graph.DirNone, graph.AxisX, false, false},
		{"right", graph.DirRight, graph.AxisX, true, false},
		{"left", graph.DirLeft, graph.AxisX, false, false},
		{"behind", graph.DirBehind, graph.AxisY, true, false},
		{" Front ", graph.DirFront, graph.AxisY, false, false},
		{"above", graph.DirAbove, graph.AxisZ, true, false},
		{"below", graph.DirBelow, graph.AxisZ, false, false},
		{"back", graph.DirNone, graph.AxisX, false, true},
		{"sideways", graph.DirNone, graph.AxisX, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := graph.ParseDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if d != tt.want {
				t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, d, tt.want)
			}
			if ax, ok := d.Axis(); ok && ax != tt.axis {
				t.Errorf("%s.Axis() = %s, want %s", d, ax, tt.axis)
			}
			if d.Positive() != tt.positive {
				t.Errorf("%s.Positive() = %v, want %v", d, d.Positive(), tt.positive)
			}
		})
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in      string
		want    graph.Alignment
		wantErr bool
	}{
		{"", 0, false},
		{"bottom", graph.AlignBottom, false},
		{"bottom right", graph.AlignBottom | graph.AlignRight, false},
		{"left,back", graph.AlignLeft | graph.AlignBack, false},
		{"TOP+front", graph.AlignTop | graph.AlignFront, false},
		{"left right", 0, true},
		{"top bottom", 0, true},
		{"centre", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := graph.ParseAlignment(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlignment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if a != tt.want {
				t.Errorf("ParseAlignment(%q) = %s, want %s", tt.in, a, tt.want)
			}
		})
	}
}

func TestAlignmentLowHigh(t *testing.T) {
	a := graph.AlignLeft | graph.AlignBack | graph.AlignTop
	if !a.Low(graph.AxisX) || a.High(graph.AxisX) {
		t.Error("x should be low-aligned only")
	}
	if a.Low(graph.AxisY) || !a.High(graph.AxisY) {
		t.Error("y should be high-aligned only")
	}
	if a.Low(graph.AxisZ) || !a.High(graph.AxisZ) {
		t.Error("z should be high-aligned only")
	}
	if got := a.String(); got != "left back top" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseWall(t *testing.T) {
	for in, want := range map[string]graph.Wall{
		"front": graph.WallFront,
		"back":  graph.WallBack,
		"left":  graph.WallLeft,
		"Right": graph.WallRight,
	} {
		w, err := graph.ParseWall(in)
		if err != nil || w != want {
			t.Errorf("ParseWall(%q) = %s, %v; want %s", in, w, err, want)
		}
	}
	for _, in := range []string{"", "above", "behind"} {
		if _, err := graph.ParseWall(in); err == nil {
			t.Errorf("ParseWall(%q) should fail", in)
		}
	}
}

func TestNewEntityKinds(t *testing.T) {
	tests := []struct {
		label string
		kind  graph.Kind
	}{
		{"room", graph.KindVolume},
		{"shelf", graph.KindVolume},
		{"shelves", graph.KindVolume},
		{"box", graph.KindVolume},
		{"door", graph.KindOpening},
		{"window", graph.KindOpening},
		{"constant", graph.KindConstant},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			e, err := graph.NewEntity(graph.EntitySpec{
				Label:     tt.label,
				Name:      "x",
				Width:     graph.Float(10),
				Depth:     graph.Float(20),
				Height:    graph.Float(30),
				Adjacent:  "hall",
				Direction: "front",
			})
			if err != nil {
				t.Fatalf("NewEntity(%s): %v", tt.label, err)
			}
			if e.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind(), tt.kind)
			}
		})
	}
}

func TestNewEntityShelvesAlias(t *testing.T) {
	e, err := graph.NewEntity(graph.EntitySpec{
		Label: "shelves", Name: "s",
		Width: graph.Float(1), Depth: graph.Float(1), Height: graph.Float(1),
		Adjacent: "hall",
	})
	if err != nil {
		t.Fatal(err)
	}
	if v := e.(*graph.Volume); v.VolumeKind != graph.VolumeShelf {
		t.Errorf("volume kind = %s, want shelf", v.VolumeKind)
	}
}

func TestNewEntityOpeningColumns(t *testing.T) {
	e, err := graph.NewEntity(graph.EntitySpec{
		Label:     "window",
		Name:      "w",
		Width:     graph.Float(120),
		Depth:     graph.Float(100),
		Height:    graph.Float(90),
		Adjacent:  "kitchen",
		Direction: "back",
		Offset:    20,
	})
	if err != nil {
		t.Fatal(err)
	}
	o := e.(*graph.Opening)
	if o.Dimensions.X != 120 || o.Dimensions.Y != 100 || o.Dimensions.Z != 0 {
		t.Errorf("dimensions = %v, want [120, 100, 0]", o.Dimensions)
	}
	if o.HeightFromFloor != 90 {
		t.Errorf("height from floor = %g, want 90", o.HeightFromFloor)
	}
	if o.Wall != graph.WallBack || o.Offset != 20 || o.Adjacent != "kitchen" {
		t.Errorf("unexpected opening %+v", o)
	}
}

func TestNewEntityDefaults(t *testing.T) {
	e, err := graph.NewEntity(graph.EntitySpec{
		Label: "room", Name: "hall",
		Width: graph.Float(400), Depth: graph.Float(400), Height: graph.Float(250),
		Adjacent: graph.Start,
	})
	if err != nil {
		t.Fatal(err)
	}
	v := e.(*graph.Volume)
	if v.Offset != 0 || v.Alignment != 0 || v.Colour != "" || v.Direction != graph.DirNone {
		t.Errorf("optional fields should default to empty, got %+v", v)
	}
	if v.Placed || !v.Position.IsZero() || len(v.Openings) != 0 {
		t.Error("new volume should be unplaced at the origin with no openings")
	}
}

func TestNewEntityErrors(t *testing.T) {
	dims := func(spec graph.EntitySpec) graph.EntitySpec {
		spec.Width, spec.Depth, spec.Height = graph.Float(1), graph.Float(1), graph.Float(1)
		return spec
	}
	tests := []struct {
		name string
		spec graph.EntitySpec
		want error
	}{
		{"unknown label", dims(graph.EntitySpec{Label: "garage", Name: "g", Adjacent: "x"}), graph.ErrUnknownKind},
		{"no name", dims(graph.EntitySpec{Label: "room", Adjacent: "x"}), graph.ErrMalformedEntity},
		{"reserved name", dims(graph.EntitySpec{Label: "room", Name: graph.Start, Adjacent: graph.Start}), graph.ErrMalformedEntity},
		{"missing width", graph.EntitySpec{Label: "room", Name: "r", Depth: graph.Float(1), Height: graph.Float(1), Adjacent: "x"}, graph.ErrMalformedEntity},
		{"zero height", graph.EntitySpec{Label: "box", Name: "b", Width: graph.Float(1), Depth: graph.Float(1), Height: graph.Float(0), Adjacent: "x"}, graph.ErrMalformedEntity},
		{"missing adjacent", dims(graph.EntitySpec{Label: "room", Name: "r"}), graph.ErrMalformedEntity},
		{"bad direction", dims(graph.EntitySpec{Label: "room", Name: "r", Adjacent: "x", Direction: "up"}), graph.ErrMalformedEntity},
		{"bad alignment", dims(graph.EntitySpec{Label: "room", Name: "r", Adjacent: "x", Alignment: "middle"}), graph.ErrMalformedEntity},
		{"door without wall", dims(graph.EntitySpec{Label: "door", Name: "d", Adjacent: "x"}), graph.ErrMalformedEntity},
		{"door missing span", graph.EntitySpec{Label: "door", Name: "d", Width: graph.Float(80), Adjacent: "x", Direction: "left"}, graph.ErrMalformedEntity},
		{"constant without value", graph.EntitySpec{Label: "constant", Name: "wall_thickness"}, graph.ErrMalformedEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.NewEntity(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewEntity error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlanBuilderCollectsErrors(t *testing.T) {
	_, err := graph.NewPlanBuilder().
		Room("hall", 400, 400, 250, graph.At(graph.Start)).
		Room("hall", 100, 100, 100, graph.At("hall")).
		Box("bad", -1, 1, 1, graph.At("hall")).
		Build()
	if err == nil {
		t.Fatal("expected build error")
	}
	if !errors.Is(err, graph.ErrDuplicateName) {
		t.Errorf("expected duplicate name in %v", err)
	}
	if !errors.Is(err, graph.ErrMalformedEntity) {
		t.Errorf("expected malformed entity in %v", err)
	}
}
