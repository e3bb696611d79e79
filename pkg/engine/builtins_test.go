package engine

import (
	"strings"
	"testing"

	"github.com/chazu/roomplan/pkg/graph"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(room "hall" :width 400)`,
			expect: `(room "hall" "__kw_width" 400)`,
		},
		{
			name:   "keyword value",
			input:  `(box "b" :direction :right)`,
			expect: `(box "b" "__kw_direction" "__kw_right")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "hyphenated name in string preserved",
			input:  `(door "front-door")`,
			expect: `(door "front-door")`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def living-room 1)`,
			expect: `(def living_room 1)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `:offset -5`,
			expect: `"__kw_offset" -5`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:from-floor`,
			expect: `"__kw_from-floor"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, src string) *graph.Plan {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return p
}

func evalErr(t *testing.T, src string) string {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal: %v", err)
	}
	if p != nil || len(evalErrs) == 0 {
		t.Fatalf("expected eval errors for %s", src)
	}
	return evalErrs[0].Message
}

const housePlan = `
;; a small house
(constant "wall_thickness" 12)
(def hall (room "hall" :width 400 :depth 400 :height 250 :adjacent "start"))
(room "kitchen" :width 300 :depth 400 :height 250 :adjacent hall :direction :right :align (list :back))
(shelf "pantry" :width 60 :depth 30 :height 200 :adjacent "kitchen"
       :align (list :left :bottom) :offset 5 :colour "khaki")
(box "crate" :width 40 :depth 40 :height 40 :adjacent "pantry" :direction :above :align "right front")
(door "front-door" :width 90 :span 210 :from-floor 0 :adjacent hall :wall :front :offset 50)
(window "w1" :width 120 :span 100 :from-floor 90 :adjacent "kitchen" :wall :back :offset 20)
`

func TestEvaluateHousePlan(t *testing.T) {
	p := mustEval(t, housePlan)

	want := []string{"wall_thickness", "hall", "kitchen", "pantry", "crate", "front-door", "w1"}
	var got []string
	for _, e := range p.Entities() {
		got = append(got, e.EntityName())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("entities = %v, want %v", got, want)
	}

	hall, _ := p.Volume("hall")
	if hall.VolumeKind != graph.VolumeRoom || hall.Adjacent != graph.Start {
		t.Errorf("hall = %v", hall)
	}
	if hall.Dimensions != (graph.Vec3{X: 400, Y: 400, Z: 250}) {
		t.Errorf("hall dims = %v", hall.Dimensions)
	}

	kitchen, _ := p.Volume("kitchen")
	if kitchen.Adjacent != "hall" || kitchen.Direction != graph.DirRight || kitchen.Alignment != graph.AlignBack {
		t.Errorf("kitchen placement = %s of %s aligned %s", kitchen.Direction, kitchen.Adjacent, kitchen.Alignment)
	}

	pantry, _ := p.Volume("pantry")
	if pantry.VolumeKind != graph.VolumeShelf || pantry.Offset != 5 || pantry.Colour != "khaki" {
		t.Errorf("pantry = %v", pantry)
	}
	if !pantry.Alignment.Has(graph.AlignLeft | graph.AlignBottom) {
		t.Errorf("pantry alignment = %s", pantry.Alignment)
	}

	crate, _ := p.Volume("crate")
	if !crate.Alignment.Has(graph.AlignRight|graph.AlignFront) || crate.Direction != graph.DirAbove {
		t.Errorf("crate = %v", crate)
	}

	door, ok := p.Lookup("front-door").(*graph.Opening)
	if !ok {
		t.Fatal("front-door should be an opening")
	}
	if door.Dimensions.X != 90 || door.Dimensions.Y != 210 || door.Wall != graph.WallFront || door.Offset != 50 {
		t.Errorf("door = %+v", door)
	}
	if !strings.HasPrefix(door.Source.Text, `(door "front-door" :width 90`) {
		t.Errorf("door source = %q", door.Source.Text)
	}

	w1 := p.Lookup("w1").(*graph.Opening)
	if w1.OpeningKind != graph.OpeningWindow || w1.HeightFromFloor != 90 || w1.Wall != graph.WallBack {
		t.Errorf("w1 = %+v", w1)
	}

	if c := p.Constants(graph.DefaultConstants()); c.Wall() != 12 {
		t.Errorf("wall = %g, want 12", c.Wall())
	}
}

func TestEvaluateComputedDimensions(t *testing.T) {
	p := mustEval(t, `
(def unit 60)
(room "hall" :width (* unit 5) :depth 200.5 :height 250 :adjacent "start")
(constant "floor_thickness" :value (/ unit 4))
`)
	hall, _ := p.Volume("hall")
	if hall.Dimensions.X != 300 || hall.Dimensions.Y != 200.5 {
		t.Errorf("hall dims = %v", hall.Dimensions)
	}
	if c := p.Constants(nil); c.Floor() != 15 {
		t.Errorf("floor = %g, want 15", c.Floor())
	}
}

func TestOpeningDefaultsToFloor(t *testing.T) {
	p := mustEval(t, `
(room "hall" :width 100 :depth 100 :height 100 :adjacent "start")
(door "d" :width 80 :span 200 :adjacent "hall" :wall :left)
`)
	d := p.Lookup("d").(*graph.Opening)
	if d.HeightFromFloor != 0 || d.Offset != 0 {
		t.Errorf("door = %+v", d)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing name", `(room :width 1)`, "name"},
		{"two names", `(box "a" "b" :width 1)`, "exactly one name"},
		{"bad number", `(box "a" :width "wide" :depth 1 :height 1 :adjacent "start")`, "width"},
		{"unknown keyword", `(box "a" :width 1 :depth 1 :height 1 :adjacent "start" :colur "red")`, ":colur"},
		{"opening keyword on volume", `(room "a" :width 1 :depth 1 :height 1 :adjacent "start" :wall :front)`, ":wall"},
		{"missing dimension", `(room "a" :width 1 :depth 1 :adjacent "start")`, "height"},
		{"bad direction", `(box "a" :width 1 :depth 1 :height 1 :adjacent "start" :direction :up)`, "direction"},
		{"conflicting alignment", `(box "a" :width 1 :depth 1 :height 1 :adjacent "start" :align (list :top :bottom))`, "both edges"},
		{"missing wall", `(door "d" :width 1 :span 1 :adjacent "hall")`, "wall"},
		{"duplicate name", `(box "a" :width 1 :depth 1 :height 1 :adjacent "start") (box "a" :width 1 :depth 1 :height 1 :adjacent "a")`, "duplicate"},
		{"constant without value", `(constant "wall_thickness")`, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := evalErr(t, tt.src); !strings.Contains(msg, tt.want) {
				t.Errorf("message = %q, want it to mention %q", msg, tt.want)
			}
		})
	}
}

func TestBuiltinReturnsName(t *testing.T) {
	p := mustEval(t, `
(def a (box "first" :width 1 :depth 1 :height 1 :adjacent "start"))
(box "second" :width 1 :depth 1 :height 1 :adjacent a :direction :right)
`)
	second, _ := p.Volume("second")
	if second.Adjacent != "first" {
		t.Errorf("second.adjacent = %q, want first", second.Adjacent)
	}
}
