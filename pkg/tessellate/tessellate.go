// Package tessellate turns a resolved plan into triangle meshes using a
// geometry kernel. One mesh is produced per placed volume.
//
// Rooms are hollow shells open at the top: the outer cuboid minus an inner
// cuboid inset by half a wall on each side and by the floor below. Shelves
// and boxes are solid blocks. Attached openings are cut from their volume
// with the same transform order the OpenSCAD output uses.
package tessellate

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/roomplan/pkg/graph"
	"github.com/chazu/roomplan/pkg/kernel"
	"github.com/chazu/roomplan/pkg/layout"
)

var ErrNoResult = errors.New("tessellate: nil result")

// Part is the solid built for one placed volume, in world coordinates.
type Part struct {
	Name  string
	Kind  graph.VolumeKind
	Solid kernel.Solid
}

// Solids builds one solid per placed volume in plan order. Unplaced
// volumes are skipped; the resolver reports them.
func Solids(res *layout.Result, k kernel.Kernel) ([]Part, error) {
	if res == nil || res.Plan == nil {
		return nil, ErrNoResult
	}

	var parts []Part
	for _, v := range res.Placed() {
		s, err := volumeSolid(k, v, res.Constants)
		if err != nil {
			return nil, fmt.Errorf("tessellate: volume %q: %w", v.Name, err)
		}
		parts = append(parts, Part{Name: v.Name, Kind: v.VolumeKind, Solid: s})
	}
	return parts, nil
}

// Tessellate builds the solids of res and meshes each of them. The
// meshes are named after their volumes. ctx is checked between volumes.
func Tessellate(ctx context.Context, res *layout.Result, k kernel.Kernel) ([]*kernel.Mesh, error) {
	parts, err := Solids(res, k)
	if err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mesh, err := k.ToMesh(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %q: %w", p.Name, err)
		}
		mesh.Name = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// volumeSolid builds v in its local frame, cuts its openings and moves it to
// its position.
func volumeSolid(k kernel.Kernel, v *graph.Volume, c graph.Constants) (kernel.Solid, error) {
	d := v.Dimensions
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return nil, fmt.Errorf("non-positive size %s", d)
	}

	solid := k.Box(d.X, d.Y, d.Z)

	if v.VolumeKind == graph.VolumeRoom {
		wall, floor := c.Wall(), c.Floor()
		inner := graph.Vec3{X: d.X - wall, Y: d.Y - wall, Z: d.Z - floor}
		// A room too thin for its walls stays solid.
		if inner.X > 0 && inner.Y > 0 && inner.Z > 0 {
			hollow := translate(k, k.Box(inner.X, inner.Y, inner.Z), graph.Vec3{X: wall / 2, Y: wall / 2, Z: floor})
			solid = k.Difference(solid, hollow)
		}
	}

	var cuts kernel.Solid
	for _, o := range v.Openings {
		cut, err := openingSolid(k, o)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", o.Name, err)
		}
		if cuts == nil {
			cuts = cut
		} else {
			cuts = k.Union(cuts, cut)
		}
	}
	if cuts != nil {
		solid = k.Difference(solid, cuts)
	}

	return translate(k, solid, v.Position), nil
}

// openingSolid builds the cut cuboid of o in its volume's frame: shifted
// onto the wall plane, rotated to the wall, then moved along and up it.
func openingSolid(k kernel.Kernel, o *graph.Opening) (kernel.Solid, error) {
	size := o.CutSize()
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("non-positive cut %s", size)
	}
	s := k.Box(size.X, size.Y, size.Z)
	s = translate(k, s, o.PreShift)
	s = rotate(k, s, o.Rotation)
	s = translate(k, s, o.PostShift)
	return s, nil
}

func translate(k kernel.Kernel, s kernel.Solid, v graph.Vec3) kernel.Solid {
	if v.IsZero() {
		return s
	}
	return k.Translate(s, v.X, v.Y, v.Z)
}

func rotate(k kernel.Kernel, s kernel.Solid, v graph.Vec3) kernel.Solid {
	if v.IsZero() {
		return s
	}
	return k.Rotate(s, v.X, v.Y, v.Z)
}
