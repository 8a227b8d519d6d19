package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/cubecarpet/pkg/cube"
)

const tolerance = 1e-5

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tolerance, "component %d: want %v got %v", i, want, got)
	}
}

func assertMat4InDelta(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], got[i], tolerance, "element %d", i)
	}
}

func TestRound4(t *testing.T) {
	assert.Equal(t, float32(0.3333), Round4(1.0/3))
	assert.Equal(t, float32(-0.6667), Round4(-2.0/3))
	assert.Equal(t, float32(2), Round4(2))
	assert.Equal(t, float32(-1.5), Round4(-1.5))
}

func TestRoundHalfUpTies(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{2.5, 3},
		{-2.5, -2},
		{-0.5, 0},
		{0.5, 1},
		{-1.25, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundHalfUp(tt.x, 1), "x=%v", tt.x)
	}
	// quarter steps are exact in binary, so the tie survives scaling
	assert.Equal(t, -0.12, roundHalfUp(-0.125, 100))
}

func TestCenterOf(t *testing.T) {
	m := cube.Build(0, 0, 1.0/3, 2.0/3)
	c := CenterOf(&m)
	// the far corner rounds to 0.6667 before averaging
	assert.Equal(t, mgl32.Vec3{0, 0, Round4(2.0/3) / 2}, c)
	assert.InDelta(t, 0.33335, c.Z(), 1e-7)

	m = cube.Build(-0.5, 0.25, 2, 1)
	assert.Equal(t, mgl32.Vec3{-0.5, 0.25, 2}, CenterOf(&m))
}

func TestModelIdentityPose(t *testing.T) {
	got := Model(mgl32.Vec3{1, 2, 3}, IdentityPose())
	assertMat4InDelta(t, mgl32.Ident4(), got)
}

func TestModelDeterministic(t *testing.T) {
	p := Pose{
		Angles:   [3]float32{0.3, -1.2, 5.5},
		Rotation: DragRotation(13, -7, 0.01),
		Scale:    1.7,
	}
	c := mgl32.Vec3{0.25, -0.5, 0.1}

	assert.Equal(t, Model(c, p), Model(c, p))
}

func TestModelPivotsAboutCubeCenter(t *testing.T) {
	c := mgl32.Vec3{0.7777778, -0.3333333, 0.1111111}
	base := Pose{
		Rotation: DragRotation(25, 40, 0.01),
		Scale:    2.5,
	}
	want := mgl32.TransformCoordinate(c, Global(base))

	for step := 0; step < 50; step++ {
		p := base
		p.Angles = [3]float32{float32(step) * 0.13, float32(step) * -0.07, float32(step) * 0.21}

		got := mgl32.TransformCoordinate(c, Model(c, p))
		assertVec3InDelta(t, want, got)
	}
}

func TestModelSpinIsLocal(t *testing.T) {
	c := mgl32.Vec3{1, 0, 0}
	p := IdentityPose()
	p.Angles[2] = float32(math.Pi / 2)

	m := Model(c, p)

	// a corner offset +X from the center swings to +Y around the center,
	// not around the world origin
	got := mgl32.TransformCoordinate(mgl32.Vec3{2, 0, 0}, m)
	assertVec3InDelta(t, mgl32.Vec3{1, 1, 0}, got)
}

func TestModelGlobalTransformOrder(t *testing.T) {
	p := IdentityPose()
	p.Scale = 2
	p.Rotation = mgl32.HomogRotate3DY(float32(math.Pi / 2))

	// scale first, then the free rotation, both about the world origin
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, Model(mgl32.Vec3{5, 5, 5}, p))
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -2}, got)
}

func TestDragRotationSingleAxis(t *testing.T) {
	got := DragRotation(10, 0, 0.01)
	assertMat4InDelta(t, mgl32.HomogRotate3DY(0.1), got)

	c, s := float32(math.Cos(0.1)), float32(math.Sin(0.1))
	want := mgl32.Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
	assertMat4InDelta(t, want, got)
}

func TestDragRotationBothAxes(t *testing.T) {
	got := DragRotation(10, 20, 0.01)
	want := mgl32.HomogRotate3DY(0.1).Mul4(mgl32.HomogRotate3DX(0.2))
	assertMat4InDelta(t, want, got)
}
