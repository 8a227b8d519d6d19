package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Faultbox/cubecarpet/internal/engine/camera"
	"github.com/Faultbox/cubecarpet/internal/engine/renderer"
	"github.com/Faultbox/cubecarpet/internal/interaction"
	"github.com/Faultbox/cubecarpet/pkg/carpet"
	"github.com/Faultbox/cubecarpet/pkg/cube"
	"github.com/Faultbox/cubecarpet/pkg/transform"
)

// testCamera looks at the origin from z = 4.
func testCamera() camera.Fixed {
	return camera.NewPerspective(camera.Lens{
		Eye:         mgl32.Vec3{0, 0, 4},
		Up:          mgl32.Vec3{0, 1, 0},
		FovYDegrees: 45,
		Near:        0.1,
		Far:         100,
	}, 800, 600)
}

func newTestScene(t *testing.T, rec *renderer.Recorder) *Scene {
	t.Helper()
	cfg := Config{
		Root:       carpet.Region{X: -1, Y: -1, Size: 2},
		Background: mgl32.Vec4{0, 0, 0, 1},
	}
	shading := &renderer.GradientShading{Color: mgl32.Vec4{0.04, 0.6, 1, 1}}
	return New(cfg, rec, shading, testCamera(), carpet.NewGenerator(5))
}

func TestFrameSubmitsEveryCube(t *testing.T) {
	rec := renderer.NewRecorder()
	s := newTestScene(t, rec)
	require.True(t, s.Ready())

	state := interaction.New(interaction.DefaultTuning())
	stats, err := s.Frame(state, 3)
	require.NoError(t, err)

	assert.Equal(t, carpet.Count(3), stats.Cubes)
	assert.Equal(t, stats.Cubes*36, stats.Vertices)
	require.Len(t, rec.Draws, stats.Cubes)

	cam := testCamera()
	for _, d := range rec.Draws {
		assert.Equal(t, 36, d.VertexCount)
		assert.Len(t, d.Positions, 108)
		assert.Equal(t, cam.View, d.Matrices[renderer.UniformView])
		assert.Equal(t, cam.Projection, d.Matrices[renderer.UniformProjection])
		assert.Contains(t, d.Matrices, renderer.UniformModel)
		assert.Contains(t, d.Vec4s, "uColor")
	}
}

func TestFrameAdvancesAnglesStepDoesNot(t *testing.T) {
	rec := renderer.NewRecorder()
	s := newTestScene(t, rec)
	state := interaction.New(interaction.DefaultTuning())
	state.SetSpinSpeed(interaction.AxisY, 2)

	_, err := s.Frame(state, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, state.Angles[1], 1e-7)

	_, err = s.Step(state, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, state.Angles[1], 1e-7)
	assert.Len(t, rec.Draws, 9)
}

func TestFrameModelMatrixUsesPose(t *testing.T) {
	rec := renderer.NewRecorder()
	s := newTestScene(t, rec)
	state := interaction.New(interaction.DefaultTuning())
	state.SetSpinSpeed(interaction.AxisX, 40)
	state.Wheel(-1)

	_, err := s.Frame(state, 1)
	require.NoError(t, err)
	require.Len(t, rec.Draws, 1)

	p := carpet.Collect(carpet.Generate(-1, -1, 2, 1))[0]
	mesh := cube.Build(float32(p.X), float32(p.Y), float32(p.Z), float32(p.Size))
	want := transform.ModelForMesh(&mesh, state.Pose())
	assert.Equal(t, want, rec.Draws[0].Matrices[renderer.UniformModel])
	assert.Equal(t, mesh.Flatten(), rec.Draws[0].Positions)
}

func TestDepthZeroClearsOnly(t *testing.T) {
	rec := renderer.NewRecorder()
	s := newTestScene(t, rec)

	stats, err := s.Frame(interaction.New(interaction.DefaultTuning()), 0)
	require.NoError(t, err)
	assert.Zero(t, stats.Cubes)
	assert.Empty(t, rec.Draws)
	assert.Equal(t, 1, rec.Clears)
}

func TestDepthClampedByGenerator(t *testing.T) {
	rec := renderer.NewRecorder()
	s := newTestScene(t, rec)

	stats, err := s.Step(interaction.New(interaction.DefaultTuning()), 99)
	require.NoError(t, err)
	assert.Equal(t, carpet.Count(5), stats.Cubes)
}

func TestCompileFailureDegrades(t *testing.T) {
	rec := renderer.NewRecorder()
	rec.CompileErr = errors.New("vertex shader: 0:1: version not supported")
	s := newTestScene(t, rec)
	assert.False(t, s.Ready())

	stats, err := s.Frame(interaction.New(interaction.DefaultTuning()), 3)
	assert.NoError(t, err)
	assert.Zero(t, stats.Cubes)
	assert.Empty(t, rec.Draws)
	assert.Equal(t, 1, rec.Clears)
}

func TestDrawFailuresAreCollected(t *testing.T) {
	rec := renderer.NewRecorder()
	rec.DrawErr = func(i int) error {
		if i%2 == 0 {
			return errors.New("GL_OUT_OF_MEMORY")
		}
		return nil
	}
	s := newTestScene(t, rec)

	stats, err := s.Frame(interaction.New(interaction.DefaultTuning()), 2)
	require.Error(t, err)

	// every cube is attempted even though some fail
	assert.Equal(t, 9, stats.Cubes+stats.Failed)
	assert.Positive(t, stats.Failed)
	assert.LessOrEqual(t, len(multierr.Errors(err)), maxReportedErrors)
	assert.Len(t, rec.Draws, stats.Cubes)
}
