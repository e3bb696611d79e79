// Package scad writes a resolved plan as an OpenSCAD script.
//
// The script starts with the three thickness constants and two modules:
// room, a hollow shell open at the top, and block, a solid cuboid. Each
// placed volume becomes one call to either module. Attached openings are
// passed as children and subtracted from the volume:
//
//	room([0, 0, 0], [410, 410, 259], [0.5, 0.5, 0.5, 0.5], "hall") {
//	    translate([55, 0, 10]) rotate([0, 0, 0]) translate([0, -10, 0]) cube([90, 20, 210]);
//	}
package scad

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/chazu/roomplan/pkg/colour"
	"github.com/chazu/roomplan/pkg/graph"
	"github.com/chazu/roomplan/pkg/layout"
)

// DefaultOpacity is the alpha applied to every volume colour.
const DefaultOpacity = 0.5

var (
	ErrNoResult = errors.New("scad: nil result")
	ErrFailed   = errors.New("scad: layout failed")
)

// Options configures Write.
type Options struct {
	// Opacity is the alpha channel of every volume, 0 means DefaultOpacity.
	Opacity float64
	// Colours resolves volume colour names. Nil uses colour.Builtin.
	Colours *colour.Table
	// Logger receives warnings about unknown colours. Nil discards them.
	Logger *log.Logger
}

func (o *Options) defaults() {
	if o.Opacity <= 0 || o.Opacity > 1 {
		o.Opacity = DefaultOpacity
	}
	if o.Colours == nil {
		o.Colours = colour.Builtin()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

const preamble = `wall_thickness = %g;
floor_thickness = %g;
ceiling_thickness = %g;

module room(position, dimensions, rgba, label) {
    color(rgba) translate(position) difference() {
        cube(dimensions);
        translate([wall_thickness/2, wall_thickness/2, floor_thickness])
            cube([dimensions[0]-wall_thickness, dimensions[1]-wall_thickness, dimensions[2]-floor_thickness]);
        children();
    }
}

module block(position, dimensions, rgba, label) {
    color(rgba) translate(position) difference() {
        cube(dimensions);
        children();
    }
}

`

// Write emits the script for res. Placed volumes are written in plan order;
// unplaced volumes and constants are skipped. A failed layout is an error.
func Write(w io.Writer, res *layout.Result, opts Options) error {
	if res == nil || res.Plan == nil {
		return ErrNoResult
	}
	if res.Status == layout.StatusFailed {
		return fmt.Errorf("%w: %s", ErrFailed, res.Summary())
	}
	opts.defaults()

	var buf bytes.Buffer
	c := res.Constants
	fmt.Fprintf(&buf, preamble, c.Wall(), c.Floor(), c.Ceiling())

	for _, v := range res.Placed() {
		writeVolume(&buf, v, opts)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeVolume(buf *bytes.Buffer, v *graph.Volume, opts Options) {
	module := "block"
	if v.VolumeKind == graph.VolumeRoom {
		module = "room"
	}

	rgba := volumeColour(v, opts)
	fmt.Fprintf(buf, "%s(%s, %s, [%g, %g, %g, %g], %q)",
		module, vec(v.Position), vec(v.Dimensions), rgba.R, rgba.G, rgba.B, rgba.A, v.Name)

	if len(v.Openings) == 0 {
		buf.WriteString(";\n")
		return
	}
	buf.WriteString(" {\n")
	for _, o := range v.Openings {
		fmt.Fprintf(buf, "    // %s %s\n", o.OpeningKind, o.Name)
		fmt.Fprintf(buf, "    translate(%s) rotate(%s) translate(%s) cube(%s);\n",
			vec(o.PostShift), vec(o.Rotation), vec(o.PreShift), vec(o.CutSize()))
	}
	buf.WriteString("}\n")
}

func volumeColour(v *graph.Volume, opts Options) colour.RGBA {
	if v.Colour == "" {
		return colour.Grey.WithAlpha(opts.Opacity)
	}
	rgba, ok := opts.Colours.Lookup(v.Colour)
	if !ok {
		opts.Logger.Warn("unknown colour, using grey", "volume", v.Name, "colour", v.Colour)
		return colour.Grey.WithAlpha(opts.Opacity)
	}
	return rgba.WithAlpha(opts.Opacity)
}

func vec(v graph.Vec3) string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}
