// Package interaction holds the mutable session state driven by user input.
//
// State is owned by the application and passed explicitly to the input
// handlers and the render loop. Each field has exactly one kind of writer,
// listed on the handler methods below.
package interaction

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cubecarpet/pkg/transform"
)

// Axis selects one of the three spin axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Tuning holds the fixed constants of the input handlers.
type Tuning struct {
	DragSensitivity float32 // radians per pixel
	ZoomStep        float32
	ZoomMin         float32
	ZoomMax         float32
	FrameDivisor    float32 // spin speed units per radian per frame
}

// DefaultTuning returns the stock handler constants.
func DefaultTuning() Tuning {
	return Tuning{
		DragSensitivity: 0.01,
		ZoomStep:        0.1,
		ZoomMin:         0.1,
		ZoomMax:         10.0,
		FrameDivisor:    200,
	}
}

// State is the session's interaction state.
type State struct {
	Tuning Tuning

	Speeds [3]float32
	Angles [3]float32

	Rotation mgl32.Mat4
	Scale    float32

	Dragging     bool
	LastX, LastY float32
}

// New returns a State at rest: no spin, identity rotation, zoom 1.
func New(t Tuning) *State {
	if t.FrameDivisor == 0 {
		t.FrameDivisor = DefaultTuning().FrameDivisor
	}
	return &State{
		Tuning:   t,
		Rotation: mgl32.Ident4(),
		Scale:    1,
	}
}

// SetSpinSpeed handles a speed slider change. Writes Speeds[axis].
func (s *State) SetSpinSpeed(axis Axis, v float32) {
	if axis < AxisX || axis > AxisZ {
		return
	}
	s.Speeds[axis] = v
}

// PointerDown starts a drag. Writes Dragging, LastX, LastY.
func (s *State) PointerDown(x, y float32) {
	s.Dragging = true
	s.LastX, s.LastY = x, y
}

// PointerMove turns the scene by the motion since the last pointer event
// while dragging. Writes Rotation, LastX, LastY.
func (s *State) PointerMove(x, y float32) {
	if !s.Dragging {
		return
	}

	delta := transform.DragRotation(x-s.LastX, y-s.LastY, s.Tuning.DragSensitivity)
	s.Rotation = delta.Mul4(s.Rotation)
	s.LastX, s.LastY = x, y
}

// PointerUp ends a drag. Writes Dragging.
func (s *State) PointerUp() {
	s.Dragging = false
}

// PointerLeave ends a drag when the pointer leaves the surface. Writes Dragging.
func (s *State) PointerLeave() {
	s.Dragging = false
}

// Wheel zooms by one step against the sign of deltaY (positive scrolls
// away, zooming out). Writes Scale.
func (s *State) Wheel(deltaY float32) {
	switch {
	case deltaY > 0:
		s.Scale -= s.Tuning.ZoomStep
	case deltaY < 0:
		s.Scale += s.Tuning.ZoomStep
	}
	s.Scale = mgl32.Clamp(s.Scale, s.Tuning.ZoomMin, s.Tuning.ZoomMax)
}

// Advance moves each spin angle forward by one frame. Writes Angles.
// Only the render loop calls this.
func (s *State) Advance() {
	for i := range s.Angles {
		s.Angles[i] += s.Speeds[i] / s.Tuning.FrameDivisor
	}
}

// Reset returns the view to rest without touching the spin speeds.
// Writes Angles, Rotation, Scale, Dragging.
func (s *State) Reset() {
	s.Angles = [3]float32{}
	s.Rotation = mgl32.Ident4()
	s.Scale = 1
	s.Dragging = false
}

// Pose returns the read-only view used by the transform composer.
func (s *State) Pose() transform.Pose {
	return transform.Pose{
		Angles:   s.Angles,
		Rotation: s.Rotation,
		Scale:    s.Scale,
	}
}
