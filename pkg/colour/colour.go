// Package colour maps colour names to RGBA values.
//
// Names come from an X11 rgb.txt file ("255 250 250\t\tsnow" per line) or,
// when none is available, from a small builtin table. Lookups ignore case
// and spaces, so "Light Blue", "light blue" and "LightBlue" are the same
// colour. Hex values such as "#8fbc8f" are accepted anywhere a name is.
package colour

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultRGBFile is where X11 installs its colour table.
const DefaultRGBFile = "/etc/X11/rgb.txt"

var ErrEmptyTable = errors.New("colour: no colours in table")

// RGBA is a colour with channels in 0..1.
type RGBA struct {
	R, G, B, A float64
}

// Grey is used for volumes without a known colour.
var Grey = RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Table is a set of named colours.
type Table struct {
	colours map[string]RGBA
}

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// Lookup returns the colour called name, or the colour given by a hex
// string. The alpha channel is 1.
func (t *Table) Lookup(name string) (RGBA, bool) {
	if strings.HasPrefix(strings.TrimSpace(name), "#") {
		c, err := colorful.Hex(strings.TrimSpace(name))
		if err != nil {
			return RGBA{}, false
		}
		return RGBA{R: c.R, G: c.G, B: c.B, A: 1}, true
	}
	c, ok := t.colours[key(name)]
	return c, ok
}

// Len returns the number of named colours.
func (t *Table) Len() int {
	return len(t.colours)
}

// Load reads an rgb.txt table. Lines starting with ! or # and blank lines
// are skipped.
func Load(r io.Reader) (*Table, error) {
	t := &Table{colours: make(map[string]RGBA)}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '!' || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, fmt.Errorf("colour: line %d: expected \"r g b name\", got %q", line, text)
		}
		var ch [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil || v < 0 || v > 255 {
				return nil, fmt.Errorf("colour: line %d: channel %q must be 0..255", line, fields[i])
			}
			ch[i] = float64(v) / 255
		}
		t.colours[key(strings.Join(fields[3:], " "))] = RGBA{R: ch[0], G: ch[1], B: ch[2], A: 1}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("colour: %w", err)
	}
	if len(t.colours) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

// LoadFile reads the rgb.txt table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("colour: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Open loads the table at path, or DefaultRGBFile when path is empty. If the
// file cannot be read it returns the builtin table together with the error,
// so callers can log it and carry on.
func Open(path string) (*Table, error) {
	if path == "" {
		path = DefaultRGBFile
	}
	t, err := LoadFile(path)
	if err != nil {
		return Builtin(), err
	}
	return t, nil
}

// Builtin returns a table of common colour names.
func Builtin() *Table {
	t := &Table{colours: make(map[string]RGBA, len(builtin))}
	for name, rgb := range builtin {
		t.colours[key(name)] = RGBA{
			R: float64(rgb[0]) / 255,
			G: float64(rgb[1]) / 255,
			B: float64(rgb[2]) / 255,
			A: 1,
		}
	}
	return t
}

// X11 values.
var builtin = map[string][3]uint8{
	"white":        {255, 255, 255},
	"black":        {0, 0, 0},
	"grey":         {190, 190, 190},
	"gray":         {190, 190, 190},
	"light grey":   {211, 211, 211},
	"dark grey":    {169, 169, 169},
	"red":          {255, 0, 0},
	"green":        {0, 255, 0},
	"blue":         {0, 0, 255},
	"yellow":       {255, 255, 0},
	"cyan":         {0, 255, 255},
	"magenta":      {255, 0, 255},
	"orange":       {255, 165, 0},
	"pink":         {255, 192, 203},
	"purple":       {160, 32, 240},
	"brown":        {165, 42, 42},
	"tan":          {210, 180, 140},
	"beige":        {245, 245, 220},
	"wheat":        {245, 222, 179},
	"khaki":        {240, 230, 140},
	"ivory":        {255, 255, 240},
	"salmon":       {250, 128, 114},
	"navy":         {0, 0, 128},
	"light blue":   {173, 216, 230},
	"sky blue":     {135, 206, 235},
	"forest green": {34, 139, 34},
	"dark green":   {0, 100, 0},
	"olive drab":   {107, 142, 35},
	"sienna":       {160, 82, 45},
	"chocolate":    {210, 105, 30},
	"burlywood":    {222, 184, 135},
	"slate grey":   {112, 128, 144},
	"steel blue":   {70, 130, 180},
	"lavender":     {230, 230, 250},
	"linen":        {250, 240, 230},
}
