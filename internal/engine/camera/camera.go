// Package camera provides the fixed camera the fractal is viewed through.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Fixed holds view and projection matrices computed once at startup.
type Fixed struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Lens describes a perspective camera.
type Lens struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	FovYDegrees float32
	Near        float32
	Far         float32
}

// NewPerspective builds the camera for a viewport of width x height pixels.
func NewPerspective(l Lens, width, height int) Fixed {
	return Fixed{
		View:       mgl32.LookAtV(l.Eye, l.Target, l.Up),
		Projection: mgl32.Perspective(mgl32.DegToRad(l.FovYDegrees), Aspect(width, height), l.Near, l.Far),
	}
}

// NewIdentity returns a camera that passes model space straight to clip
// space, so a carpet spanning [-1, 1] fills the viewport.
func NewIdentity() Fixed {
	return Fixed{View: mgl32.Ident4(), Projection: mgl32.Ident4()}
}

// Aspect returns width/height, falling back to 1 for a degenerate viewport.
func Aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
