package layout

import "github.com/chazu/roomplan/pkg/graph"

// walker carries the state of one depth-first resolution pass.
type walker struct {
	plan    *graph.Plan
	idx     index
	consts  graph.Constants
	res     *Result
	visited map[string]bool
	blocked map[string]bool
}

// resolve fixes the root at the origin and walks its subtree. The root's
// own direction, alignment and offset are ignored.
func (w *walker) resolve() {
	root, ok := w.plan.Volume(w.idx.root)
	if !ok || w.blocked[root.Name] {
		return
	}
	root.Position = graph.Vec3{}
	root.Placed = true
	w.visited[root.Name] = true
	w.res.Order = append(w.res.Order, root.Name)
	w.walk(root)
}

// walk positions each dependent of parent, then descends into it.
// Openings are leaves of the tree.
func (w *walker) walk(parent *graph.Volume) {
	for _, name := range w.idx.of(parent.Name) {
		if w.visited[name] || w.blocked[name] {
			continue
		}
		switch dep := w.plan.Lookup(name).(type) {
		case *graph.Volume:
			w.visited[name] = true
			w.res.Order = append(w.res.Order, name)
			placeVolume(parent, dep)
			w.walk(dep)

		case *graph.Opening:
			w.visited[name] = true
			w.res.Order = append(w.res.Order, name)
			attachOpening(parent, dep, w.consts)
		}
	}
}

// placeVolume computes v's position from its parent, axis by axis. The
// direction rule runs first and the alignment rule second, so alignment
// wins on a shared axis. An axis named by neither rule stays at 0.
func placeVolume(parent, v *graph.Volume) {
	var pos graph.Vec3
	dirAxis, hasDir := v.Direction.Axis()

	for _, ax := range graph.Axes {
		ppos := parent.Position.Get(ax)
		pdim := parent.Dimensions.Get(ax)
		vdim := v.Dimensions.Get(ax)
		var val float64

		if hasDir && dirAxis == ax {
			if v.Direction.Positive() {
				val = ppos + pdim
			} else {
				val = ppos - vdim
			}
		}

		if v.Alignment.Low(ax) {
			val = ppos + v.Offset
		}
		if v.Alignment.High(ax) {
			val = ppos + pdim - vdim + v.Offset
		}

		pos = pos.Set(ax, val)
	}

	v.Position = pos
	v.Placed = true
}

// attachOpening appends o to parent's openings and computes the transform
// that puts its cut into the selected wall, in parent-local coordinates.
//
// The cut cuboid (width x thickness x span) is first centred on the wall
// plane (PreShift), then turned to run along y for the left and right walls
// (Rotation, degrees about z), then moved along the wall by half a wall
// plus the offset and up by the height from the floor (PostShift). Only
// rooms have a floor slab to step over.
func attachOpening(parent *graph.Volume, o *graph.Opening, c graph.Constants) {
	thickness := o.Dimensions.Z
	along := c.Wall()/2 + o.Offset
	up := o.HeightFromFloor
	if parent.VolumeKind == graph.VolumeRoom {
		up += c.Floor()
	}

	o.PreShift = graph.Vec3{Y: -thickness / 2}
	o.Rotation = graph.Vec3{}

	switch o.Wall {
	case graph.WallFront:
		o.PostShift = graph.Vec3{X: along, Y: 0, Z: up}
	case graph.WallBack:
		o.PostShift = graph.Vec3{X: along, Y: parent.Dimensions.Y, Z: up}
	case graph.WallLeft:
		o.Rotation = graph.Vec3{Z: 90}
		o.PostShift = graph.Vec3{X: 0, Y: along, Z: up}
	case graph.WallRight:
		o.Rotation = graph.Vec3{Z: 90}
		o.PostShift = graph.Vec3{X: parent.Dimensions.X, Y: along, Z: up}
	}

	o.Attached = true
	parent.Openings = append(parent.Openings, o)
}
