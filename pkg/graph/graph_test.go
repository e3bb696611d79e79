package graph

import (
	"errors"
	"testing"
)

func TestNewPlan(t *testing.T) {
	p := New()
	if p.index == nil {
		t.Fatal("index map should be initialized")
	}
	if p.Len() != 0 {
		t.Errorf("empty plan should have 0 entities, got %d", p.Len())
	}
}

func TestAddAndLookup(t *testing.T) {
	p := New()
	room := &Volume{Name: "hall", VolumeKind: VolumeRoom, Dimensions: Vec3{400, 400, 250}, Adjacent: Start}
	if err := p.Add(room); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if p.Len() != 1 {
		t.Errorf("entity count = %d, want 1", p.Len())
	}
	if got := p.Lookup("hall"); got != room {
		t.Errorf("Lookup returned %v, want %v", got, room)
	}
	if v, ok := p.Volume("hall"); !ok || v != room {
		t.Error("Volume(hall) should return the room")
	}
	if p.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}
}

func TestAddDuplicateName(t *testing.T) {
	p := New()
	if err := p.Add(&Constant{Name: "wall_thickness", Value: 12}); err != nil {
		t.Fatal(err)
	}
	err := p.Add(&Constant{Name: "wall_thickness", Value: 14})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestEntitiesKeepInsertionOrder(t *testing.T) {
	p := NewPlanBuilder().
		Room("c", 100, 100, 100, At(Start)).
		Door("d1", 80, 200, 0, "c", "front", 10).
		Shelf("a", 50, 30, 200, At("c")).
		Constant("wall_thickness", 8).
		Box("b", 10, 10, 10, At("a").Dir("above")).
		MustBuild()

	var names []string
	for _, e := range p.Entities() {
		names = append(names, e.EntityName())
	}
	want := []string{"c", "d1", "a", "wall_thickness", "b"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if n := len(p.Volumes()); n != 3 {
		t.Errorf("volumes = %d, want 3", n)
	}
	if n := len(p.Openings()); n != 1 {
		t.Errorf("openings = %d, want 1", n)
	}
}

func TestPlanConstantsLayering(t *testing.T) {
	p := NewPlanBuilder().
		Constant("wall_thickness", 12).
		Constant("stud_spacing", 40).
		MustBuild()

	defaults := DefaultConstants()
	c := p.Constants(defaults)

	if c.Wall() != 12 {
		t.Errorf("wall = %g, want 12", c.Wall())
	}
	if c.Floor() != 10 {
		t.Errorf("floor = %g, want default 10", c.Floor())
	}
	if c.Ceiling() != -1 {
		t.Errorf("ceiling = %g, want default -1", c.Ceiling())
	}
	if c["stud_spacing"] != 40 {
		t.Errorf("stud_spacing = %g, want 40", c["stud_spacing"])
	}
	if defaults.Wall() != 10 {
		t.Error("Constants must not modify the defaults map")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := NewPlanBuilder().
		Room("hall", 400, 400, 250, At(Start)).
		Door("d", 90, 210, 0, "hall", "front", 50).
		MustBuild()

	hall, _ := p.Volume("hall")
	door := p.Openings()[0]
	hall.Openings = append(hall.Openings, door)

	c := p.Clone()
	ch, _ := c.Volume("hall")
	ch.Position = Vec3{1, 2, 3}
	ch.Dimensions.X = 999

	if hall.Position != (Vec3{}) || hall.Dimensions.X != 400 {
		t.Error("mutating the clone changed the original volume")
	}
	if len(ch.Openings) != 1 {
		t.Fatalf("clone openings = %d, want 1", len(ch.Openings))
	}
	if ch.Openings[0] == door {
		t.Error("clone should reference the copied opening, not the original")
	}
	if ch.Openings[0] != c.Lookup("d") {
		t.Error("clone's attached opening should be the clone's own entity")
	}
}
