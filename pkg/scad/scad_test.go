package scad_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chazu/roomplan/pkg/colour"
	"github.com/chazu/roomplan/pkg/graph"
	"github.com/chazu/roomplan/pkg/layout"
	"github.com/chazu/roomplan/pkg/scad"
)

func resolve(t *testing.T, b *graph.PlanBuilder) *layout.Result {
	t.Helper()
	res, err := layout.Resolve(b.MustBuild())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return res
}

func write(t *testing.T, res *layout.Result, opts scad.Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := scad.Write(&buf, res, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

func TestWritePreamble(t *testing.T) {
	res := resolve(t, graph.NewPlanBuilder().
		Constant(graph.WallThickness, 12).
		Room("hall", 100, 80, 60, graph.At(graph.Start)))

	out := write(t, res, scad.Options{})
	for _, want := range []string{
		"wall_thickness = 12;\n",
		"floor_thickness = 10;\n",
		"ceiling_thickness = -1;\n",
		"module room(position, dimensions, rgba, label) {",
		"module block(position, dimensions, rgba, label) {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteVolumesAndOpenings(t *testing.T) {
	res := resolve(t, graph.NewPlanBuilder().
		Room("hall", 100, 80, 60, graph.At(graph.Start)).
		Shelf("rack", 20, 20, 80, graph.At("hall").Dir("right")).
		Door("d", 30, 40, 0, "hall", "front", 10).
		Window("w", 20, 20, 20, "hall", "left", 20))

	out := write(t, res, scad.Options{})

	wantHall := `room([0, 0, 0], [110, 90, 69], [0.5, 0.5, 0.5, 0.5], "hall") {
    // door d
    translate([15, 0, 10]) rotate([0, 0, 0]) translate([0, -10, 0]) cube([30, 20, 40]);
    // window w
    translate([0, 25, 30]) rotate([0, 0, 90]) translate([0, -10, 0]) cube([20, 20, 20]);
}
`
	if !strings.Contains(out, wantHall) {
		t.Errorf("hall block missing, got:\n%s", out)
	}

	wantRack := `block([110, 0, 0], [20, 20, 80], [0.5, 0.5, 0.5, 0.5], "rack");` + "\n"
	if !strings.Contains(out, wantRack) {
		t.Errorf("rack call missing, got:\n%s", out)
	}
	if strings.Index(out, `"hall"`) > strings.Index(out, `"rack"`) {
		t.Error("volumes should be written in plan order")
	}
}

func TestWriteColours(t *testing.T) {
	res := resolve(t, graph.NewPlanBuilder().
		Box("a", 10, 10, 10, graph.At(graph.Start).Coloured("red")).
		Box("b", 10, 10, 10, graph.At("a").Dir("right").Coloured("#0000ff")).
		Box("c", 10, 10, 10, graph.At("b").Dir("right").Coloured("no such colour")))

	var logs bytes.Buffer
	out := write(t, res, scad.Options{
		Opacity: 1,
		Colours: colour.Builtin(),
		Logger:  log.NewWithOptions(&logs, log.Options{}),
	})

	for _, want := range []string{
		`[1, 0, 0, 1], "a")`,
		`[0, 0, 1, 1], "b")`,
		`[0.5, 0.5, 0.5, 1], "c")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(logs.String(), "unknown colour") || !strings.Contains(logs.String(), "no such colour") {
		t.Errorf("expected a warning for the unknown colour, got %q", logs.String())
	}
}

func TestWriteSkipsUnplaced(t *testing.T) {
	res := resolve(t, graph.NewPlanBuilder().
		Box("a", 10, 10, 10, graph.At(graph.Start)).
		Box("lost", 10, 10, 10, graph.At("nowhere")))
	if res.Status != layout.StatusPartial {
		t.Fatalf("status = %s, want partial", res.Status)
	}

	out := write(t, res, scad.Options{})
	if strings.Contains(out, `"lost"`) {
		t.Errorf("unplaced volume written:\n%s", out)
	}
	if !strings.Contains(out, `"a");`) {
		t.Errorf("placed volume missing:\n%s", out)
	}
}

func TestWriteErrors(t *testing.T) {
	if err := scad.Write(&bytes.Buffer{}, nil, scad.Options{}); !errors.Is(err, scad.ErrNoResult) {
		t.Errorf("nil result: err = %v, want ErrNoResult", err)
	}

	p := graph.NewPlanBuilder().Box("a", 10, 10, 10, graph.At("b")).MustBuild()
	res, err := layout.Resolve(p)
	if err == nil {
		t.Fatal("expected resolution to fail without a root")
	}
	if err := scad.Write(&bytes.Buffer{}, res, scad.Options{}); !errors.Is(err, scad.ErrFailed) {
		t.Errorf("failed result: err = %v, want ErrFailed", err)
	}
}
