// Package transform composes the per-cube model matrix from the scene-wide
// pose (zoom and free rotation) and the per-cube spin.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cubecarpet/pkg/cube"
)

// Pose is the part of the interaction state the composer reads.
type Pose struct {
	// Angles are the accumulated spin angles around X, Y and Z, in radians.
	Angles [3]float32

	// Rotation is the accumulated free rotation applied to the whole scene.
	Rotation mgl32.Mat4

	// Scale is the uniform zoom factor.
	Scale float32
}

// IdentityPose returns a pose that leaves geometry untouched.
func IdentityPose() Pose {
	return Pose{Rotation: mgl32.Ident4(), Scale: 1}
}

// Round4 rounds v to four decimal digits. Ties go towards +Inf, so -0.5
// units round to zero rather than away from it.
func Round4(v float32) float32 {
	return float32(roundHalfUp(float64(v), 10000))
}

func roundHalfUp(x, scale float64) float64 {
	return math.Floor(x*scale+0.5) / scale
}

// CenterOf recovers the center of a cube mesh from its front-bottom-left
// (vertex 0) and back-top-right (vertex 8) corners. Components are rounded to
// four decimals first so jitter from mesh construction does not move the pivot.
func CenterOf(m *cube.Mesh) mgl32.Vec3 {
	a, b := m[0], m[8]
	return mgl32.Vec3{
		(Round4(a[0]) + Round4(b[0])) / 2,
		(Round4(a[1]) + Round4(b[1])) / 2,
		(Round4(a[2]) + Round4(b[2])) / 2,
	}
}

// Model returns the model matrix for a cube centered at center:
//
//	Rotation * Scale * T(center) * Rx * Ry * Rz * T(-center)
//
// Zoom and free rotation act about the world origin so the fractal moves as
// one rigid body. The spin acts about the cube's own center, so each cube
// turns in place.
func Model(center mgl32.Vec3, p Pose) mgl32.Mat4 {
	m := mgl32.Ident4()
	m = m.Mul4(mgl32.Scale3D(p.Scale, p.Scale, p.Scale))
	m = p.Rotation.Mul4(m)
	m = m.Mul4(mgl32.Translate3D(center[0], center[1], center[2]))
	m = m.Mul4(mgl32.HomogRotate3DX(p.Angles[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(p.Angles[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(p.Angles[2]))
	m = m.Mul4(mgl32.Translate3D(-center[0], -center[1], -center[2]))
	return m
}

// ModelForMesh is Model with the pivot taken from the mesh corners.
func ModelForMesh(m *cube.Mesh, p Pose) mgl32.Mat4 {
	return Model(CenterOf(m), p)
}

// Global returns the scene-wide part of the model matrix (Rotation * Scale).
func Global(p Pose) mgl32.Mat4 {
	return p.Rotation.Mul4(mgl32.Scale3D(p.Scale, p.Scale, p.Scale))
}

// DragRotation returns the rotation for a pointer drag of (dx, dy) pixels:
// horizontal motion turns around world Y, vertical motion around world X.
func DragRotation(dx, dy, sensitivity float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(dx * sensitivity).Mul4(mgl32.HomogRotate3DX(dy * sensitivity))
}
