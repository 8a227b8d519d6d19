// Package cube builds the fixed-topology triangle list of an axis-aligned cube.
package cube

import "github.com/go-gl/mathgl/mgl32"

// VertexCount is the number of vertices in a cube mesh (6 faces x 2 triangles x 3).
const VertexCount = 36

// Face identifies one side of the cube. The value is also the face's position
// in the vertex list: vertices [6*f, 6*f+6) belong to face f.
type Face int

// Faces in vertex-list order.
const (
	Front  Face = iota // +Z
	Back               // -Z
	Top                // +Y
	Bottom             // -Y
	Right              // +X
	Left               // -X
)

var faceNormals = [6]mgl32.Vec3{
	Front:  {0, 0, 1},
	Back:   {0, 0, -1},
	Top:    {0, 1, 0},
	Bottom: {0, -1, 0},
	Right:  {1, 0, 0},
	Left:   {-1, 0, 0},
}

var faceNames = [6]string{"front", "back", "top", "bottom", "right", "left"}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	return faceNormals[f]
}

func (f Face) String() string {
	if f < Front || f > Left {
		return "unknown"
	}
	return faceNames[f]
}

// FaceOf returns the face a vertex index belongs to.
// The gradient shader applies the same rule to gl_VertexID.
func FaceOf(vertexIndex int) Face {
	return Face(vertexIndex / 6)
}

// Mesh holds the 36 vertex positions of one cube.
type Mesh [VertexCount]mgl32.Vec3

// corner signs per vertex, in units of half the edge length.
var corners = [VertexCount][3]float32{
	// Front
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1},
	{-1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	// Back
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1},
	{-1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	// Top
	{-1, 1, 1}, {1, 1, 1}, {1, 1, -1},
	{-1, 1, 1}, {1, 1, -1}, {-1, 1, -1},
	// Bottom
	{-1, -1, 1}, {1, -1, 1}, {1, -1, -1},
	{-1, -1, 1}, {1, -1, -1}, {-1, -1, -1},
	// Right
	{1, -1, 1}, {1, -1, -1}, {1, 1, -1},
	{1, -1, 1}, {1, 1, -1}, {1, 1, 1},
	// Left
	{-1, -1, 1}, {-1, -1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
}

// Build returns the cube centered at (cx, cy, cz) with the given edge length.
func Build(cx, cy, cz, size float32) Mesh {
	d := size / 2

	var m Mesh
	for i, c := range corners {
		m[i] = mgl32.Vec3{
			offset(cx, d, c[0]),
			offset(cy, d, c[1]),
			offset(cz, d, c[2]),
		}
	}
	return m
}

// offset computes c-d or c+d exactly as written, without a multiply.
func offset(c, d, sign float32) float32 {
	if sign < 0 {
		return c - d
	}
	return c + d
}

// Flatten returns the mesh as x, y, z triples for vertex upload.
func (m *Mesh) Flatten() []float32 {
	out := make([]float32, 0, VertexCount*3)
	for _, v := range m {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	lo, hi := m[0], m[0]
	for _, v := range m[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < lo[k] {
				lo[k] = v[k]
			}
			if v[k] > hi[k] {
				hi[k] = v[k]
			}
		}
	}
	return lo, hi
}

var faceUV = [12]float32{
	0, 0,
	1, 0,
	1, 1,
	0, 0,
	1, 1,
	0, 1,
}

// TexCoords returns per-vertex texture coordinates matching Build's vertex
// order: every face maps the full texture.
func TexCoords() []float32 {
	out := make([]float32, 0, VertexCount*2)
	for f := 0; f < 6; f++ {
		out = append(out, faceUV[:]...)
	}
	return out
}
