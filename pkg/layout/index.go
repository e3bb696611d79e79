package layout

import "github.com/chazu/roomplan/pkg/graph"

// index maps each adjacency target to the names of the entities placed
// against it, in plan order.
type index struct {
	dependents map[string][]string
	root       string
}

// buildIndex indexes every volume and opening by its adjacency target.
// Constants are not part of the tree. Validation has already rejected
// plans with zero or several roots, so the first root found is the only one.
func buildIndex(p *graph.Plan) index {
	idx := index{dependents: make(map[string][]string)}
	for _, e := range p.Entities() {
		if e.Kind() == graph.KindConstant {
			continue
		}
		target := e.AdjacentTo()
		if target == graph.Start && idx.root == "" {
			idx.root = e.EntityName()
		}
		idx.dependents[target] = append(idx.dependents[target], e.EntityName())
	}
	return idx
}

// of returns the dependents of name.
func (idx index) of(name string) []string {
	return idx.dependents[name]
}

// adjustDimensions turns interior room sizes into exterior ones (half a
// wall on each side, floor below and ceiling above) and sizes every
// opening's cut to twice the wall so it passes fully through the wall.
// Shelves and boxes keep their input sizes.
func adjustDimensions(p *graph.Plan, c graph.Constants) {
	wall, floor, ceiling := c.Wall(), c.Floor(), c.Ceiling()
	for _, e := range p.Entities() {
		switch v := e.(type) {
		case *graph.Volume:
			if v.VolumeKind == graph.VolumeRoom {
				v.Dimensions.X += wall
				v.Dimensions.Y += wall
				v.Dimensions.Z += floor + ceiling
			}
		case *graph.Opening:
			v.Dimensions.Z = 2 * wall
		}
	}
}
