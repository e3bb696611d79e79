package colour

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rgbTxt = `! $Xorg: rgb.txt,v 1.3 2000/08/17 19:54:00 cpqbld Exp $
255 250 250		snow
248 248 255		ghost white
248 248 255		GhostWhite
240 230 140		khaki

 0   0 128		navy
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLoad(t *testing.T) {
	tab, err := Load(strings.NewReader(rgbTxt))
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 4 {
		t.Errorf("len = %d, want 4 (ghost white and GhostWhite collapse)", tab.Len())
	}

	tests := []struct {
		name string
		want RGBA
	}{
		{"snow", RGBA{1, 250.0 / 255, 250.0 / 255, 1}},
		{"Ghost White", RGBA{248.0 / 255, 248.0 / 255, 1, 1}},
		{"ghostwhite", RGBA{248.0 / 255, 248.0 / 255, 1, 1}},
		{"KHAKI", RGBA{240.0 / 255, 230.0 / 255, 140.0 / 255, 1}},
		{"navy", RGBA{0, 0, 128.0 / 255, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tab.Lookup(tt.name)
			if !ok {
				t.Fatalf("%q not found", tt.name)
			}
			if !near(got.R, tt.want.R) || !near(got.G, tt.want.G) || !near(got.B, tt.want.B) || got.A != 1 {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}

	if _, ok := tab.Lookup("octarine"); ok {
		t.Error("unknown colour should not be found")
	}
}

func TestLookupHex(t *testing.T) {
	tab := Builtin()
	got, ok := tab.Lookup("#ff8000")
	if !ok {
		t.Fatal("hex colour should be accepted")
	}
	if !near(got.R, 1) || !near(got.G, 128.0/255) || !near(got.B, 0) {
		t.Errorf("got %+v", got)
	}
	if _, ok := tab.Lookup("#zzzzzz"); ok {
		t.Error("malformed hex should not be found")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short line", "255 255 white\n"},
		{"bad channel", "255 256 255 white\n"},
		{"not a number", "a b c white\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := Load(strings.NewReader("! only a comment\n")); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("err = %v, want ErrEmptyTable", err)
	}
}

func TestOpenFallsBackToBuiltin(t *testing.T) {
	tab, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
	if tab == nil || tab.Len() == 0 {
		t.Fatal("builtin table expected")
	}
	if _, ok := tab.Lookup("khaki"); !ok {
		t.Error("builtin table should know khaki")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgb.txt")
	if err := os.WriteFile(path, []byte(rgbTxt), 0o644); err != nil {
		t.Fatal(err)
	}
	tab, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tab.Lookup("snow"); !ok {
		t.Error("snow should come from the file")
	}
	if _, ok := tab.Lookup("red"); ok {
		t.Error("a loaded table should not include builtin names")
	}
}

func TestWithAlpha(t *testing.T) {
	c := Grey.WithAlpha(0.25)
	if c.A != 0.25 || Grey.A != 1 {
		t.Errorf("WithAlpha = %+v, Grey = %+v", c, Grey)
	}
}
