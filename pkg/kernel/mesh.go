package kernel

// Mesh is a triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // volume this mesh was built from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the corners and the normal of the first corner of
// triangle i.
func (m *Mesh) Triangle(i int) (corners [3][3]float32, normal [3]float32) {
	for j := 0; j < 3; j++ {
		v := m.Indices[i*3+j] * 3
		corners[j] = [3]float32{m.Vertices[v], m.Vertices[v+1], m.Vertices[v+2]}
		if j == 0 && int(v+2) < len(m.Normals) {
			normal = [3]float32{m.Normals[v], m.Normals[v+1], m.Normals[v+2]}
		}
	}
	return corners, normal
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh has
// zero bounds.
func (m *Mesh) Bounds() (min, max [3]float32) {
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if i == 0 || v < min[a] {
				min[a] = v
			}
			if i == 0 || v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max
}
