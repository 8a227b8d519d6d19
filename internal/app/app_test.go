package app

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubecarpet/internal/config"
	"github.com/Faultbox/cubecarpet/internal/engine/loop"
	"github.com/Faultbox/cubecarpet/internal/engine/renderer"
	"github.com/Faultbox/cubecarpet/internal/interaction"
	"github.com/Faultbox/cubecarpet/pkg/carpet"
	"github.com/Faultbox/cubecarpet/pkg/cube"
)

// funcDriver runs a callback per frame and stops after frames frames.
type funcDriver struct {
	frames  int
	poll    func(s *Session, f loop.Frame)
	present int
}

func (d *funcDriver) Poll(s *Session, f loop.Frame) bool {
	if int(f.Index) >= d.frames {
		return false
	}
	if d.poll != nil {
		d.poll(s, f)
	}
	return true
}

func (d *funcDriver) Present(*Session) { d.present++ }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Graphics.FPSLimit = 0
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config) (*Session, *renderer.Recorder) {
	t.Helper()
	rec := renderer.NewRecorder()
	s, err := New(cfg, rec)
	require.NoError(t, err)
	return s, rec
}

func TestRunHeadless(t *testing.T) {
	r, err := RunHeadless(testConfig(), 10)
	require.NoError(t, err)

	assert.Equal(t, 10, r.Frames)
	assert.True(t, r.Rendering)
	assert.Equal(t, 2, r.Depth)
	assert.Equal(t, carpet.Count(2), r.Cubes)
	assert.Equal(t, 9*cube.VertexCount, r.Vertices)
	assert.Zero(t, r.Failed)
	assert.InDelta(t, 1.1, r.Scale, 1e-6)

	// spin starts on frame 6; frame 5 was a depth preview
	assert.InDelta(t, 4*0.5/200, r.Angles[interaction.AxisX], 1e-6)
	assert.Zero(t, r.Angles[interaction.AxisY])
}

func TestRunHeadlessDefaultFrames(t *testing.T) {
	r, err := RunScript(context.Background(), testConfig(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeadlessFrames, r.Frames)
	assert.Equal(t, 1, r.Cubes)
}

func TestSessionDrawsConfiguredDepth(t *testing.T) {
	cfg := testConfig()
	cfg.Fractal.Depth = 3
	s, rec := newTestSession(t, cfg)

	require.NoError(t, s.Run(context.Background(), &funcDriver{frames: 1}))

	// every level up to the depth contributes its centre cubes
	assert.Len(t, rec.Draws, 73)
	assert.Equal(t, carpet.Count(3), s.LastStats().Cubes)
	for _, d := range rec.Draws {
		assert.Equal(t, cube.VertexCount, d.VertexCount)
	}
}

func TestPauseFreezesSpin(t *testing.T) {
	cfg := testConfig()
	cfg.Interaction.Speeds = [3]float64{1, 2, 3}
	s, _ := newTestSession(t, cfg)

	d := &funcDriver{frames: 6, poll: func(s *Session, f loop.Frame) {
		if f.Index == 2 {
			s.TogglePause()
		}
	}}
	require.NoError(t, s.Run(context.Background(), d))

	// frames 0 and 1 advanced; 2..5 were paused
	want := [3]float32{2 * 1.0 / 200, 2 * 2.0 / 200, 2 * 3.0 / 200}
	for i := range want {
		assert.InDelta(t, want[i], s.State().Angles[i], 1e-6)
	}
	assert.Contains(t, s.Title(), "paused")
	assert.Equal(t, 6, d.present)
}

func TestApplyDepthSkipsOneAdvance(t *testing.T) {
	cfg := testConfig()
	cfg.Interaction.Speeds = [3]float64{2, 0, 0}
	s, _ := newTestSession(t, cfg)

	d := &funcDriver{frames: 3, poll: func(s *Session, f loop.Frame) {
		if f.Index == 1 {
			s.SetDepth(2)
			s.ApplyDepth()
		}
	}}
	require.NoError(t, s.Run(context.Background(), d))

	assert.InDelta(t, 2*2.0/200, s.State().Angles[interaction.AxisX], 1e-6)
	assert.Equal(t, carpet.Count(2), s.LastStats().Cubes)
}

func TestQuitStopsBeforeDrawing(t *testing.T) {
	s, rec := newTestSession(t, testConfig())

	d := &funcDriver{frames: 100, poll: func(s *Session, f loop.Frame) {
		if f.Index == 3 {
			s.Quit()
		}
	}}
	require.NoError(t, s.Run(context.Background(), d))

	assert.Equal(t, 3, d.present)
	assert.Equal(t, 3, rec.Clears)
}

func TestKeyActions(t *testing.T) {
	cfg := testConfig()
	cfg.Fractal.MaxDepth = 4
	s, _ := newTestSession(t, cfg)

	s.NudgeDepth(10)
	assert.Equal(t, 4, s.Panel().DepthValue())
	s.NudgeDepth(-1)
	assert.Equal(t, 3, s.Panel().DepthValue())

	s.NudgeSpeed(interaction.AxisY, -3)
	s.NudgeSpeed(interaction.Axis(7), 1)
	assert.InDelta(t, -0.3, s.State().Speeds[interaction.AxisY], 1e-6)

	s.PointerDown(0, 0)
	s.PointerMove(10, 0)
	s.Wheel(1)
	assert.InDelta(t, 0.9, s.State().Scale, 1e-6)
	assert.False(t, s.State().Rotation.ApproxEqual(mgl32.Ident4()))

	s.ResetView()
	assert.Equal(t, float32(1), s.State().Scale)
	assert.True(t, s.State().Rotation.ApproxEqual(mgl32.Ident4()))
	assert.InDelta(t, -0.3, s.State().Speeds[interaction.AxisY], 1e-6)

	assert.Equal(t, "Cube Carpet | depth 3 | x 0.00 y -0.30 z 0.00 | zoom 1.00", s.Title())
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	s, _ := newTestSession(t, testConfig())

	s.PointerDown(5, 5)
	s.PointerLeave()
	s.PointerMove(50, 50)

	assert.True(t, s.State().Rotation.ApproxEqual(mgl32.Ident4()))
}

func TestResizeUpdatesProjection(t *testing.T) {
	s, rec := newTestSession(t, testConfig())

	require.NoError(t, s.Run(context.Background(), &funcDriver{frames: 1}))
	before := rec.Draws[0].Matrices[renderer.UniformProjection]

	s.Resize(400, 800)
	s.Resize(0, 100)
	assert.Equal(t, 400, rec.Width)
	assert.Equal(t, 800, rec.Height)

	require.NoError(t, s.Run(context.Background(), &funcDriver{frames: 1}))
	after := rec.Draws[0].Matrices[renderer.UniformProjection]
	assert.False(t, before.ApproxEqual(after))
}

func TestIdentityProjection(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Projection = config.ProjectionIdentity
	s, rec := newTestSession(t, cfg)

	require.NoError(t, s.Run(context.Background(), &funcDriver{frames: 1}))
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, mgl32.Ident4(), rec.Draws[0].Matrices[renderer.UniformProjection])
	assert.Equal(t, mgl32.Ident4(), rec.Draws[0].Matrices[renderer.UniformView])
}

func TestCompileFailureKeepsRunning(t *testing.T) {
	rec := renderer.NewRecorder()
	rec.CompileErr = errors.New("0:1: syntax error")
	s, err := New(testConfig(), rec)
	require.NoError(t, err)
	assert.False(t, s.Rendering())

	d := &funcDriver{frames: 4}
	require.NoError(t, s.Run(context.Background(), d))
	assert.Equal(t, 4, d.present)
	assert.Equal(t, 4, rec.Clears)
	assert.Empty(t, rec.Draws)
}

func TestDrawFailuresDoNotStopLoop(t *testing.T) {
	cfg := testConfig()
	cfg.Fractal.Depth = 2
	rec := renderer.NewRecorder()
	perFrame := carpet.Count(2)
	rec.DrawErr = func(call int) error {
		// the first cube of every frame fails
		if call%perFrame == 0 {
			return errors.New("lost context")
		}
		return nil
	}
	s, err := New(cfg, rec)
	require.NoError(t, err)

	d := &funcDriver{frames: 3}
	require.NoError(t, s.Run(context.Background(), d))
	assert.Equal(t, 3, d.present)
	assert.Equal(t, 1, s.LastStats().Failed)
	assert.Equal(t, perFrame-1, s.LastStats().Cubes)
}

func TestTexturedFallsBackToCheckerboard(t *testing.T) {
	cfg := testConfig()
	cfg.Shading.Mode = config.ShadingTextured
	cfg.Shading.Texture = "/nonexistent/texture.png"
	s, rec := newTestSession(t, cfg)

	assert.True(t, s.Rendering())
	assert.Equal(t, 1, rec.Textures)
	assert.Equal(t, 1, rec.Uploads[renderer.TexCoordBuffer])
}

func TestUnknownShading(t *testing.T) {
	cfg := testConfig()
	cfg.Shading.Mode = "phong"
	_, err := New(cfg, renderer.NewRecorder())
	assert.Error(t, err)
}
