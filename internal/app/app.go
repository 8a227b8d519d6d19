// Package app ties the fractal scene, the interaction state and the controls
// into one interactive session and drives it frame by frame.
//
// The session knows nothing about windows: a Driver feeds it input before
// each frame and presents the result afterwards. The desktop driver lives in
// app/desktop; RunHeadless uses a scripted driver and a recording backend.
package app

import (
	"context"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/config"
	"github.com/Faultbox/cubecarpet/internal/controls"
	"github.com/Faultbox/cubecarpet/internal/engine/camera"
	"github.com/Faultbox/cubecarpet/internal/engine/loop"
	"github.com/Faultbox/cubecarpet/internal/engine/renderer"
	"github.com/Faultbox/cubecarpet/internal/engine/scene"
	"github.com/Faultbox/cubecarpet/internal/engine/texture"
	"github.com/Faultbox/cubecarpet/internal/interaction"
	"github.com/Faultbox/cubecarpet/internal/logger"
	"github.com/Faultbox/cubecarpet/pkg/carpet"
)

// Title is the window title prefix.
const Title = "Cube Carpet"

// Driver connects a session to a presentation surface.
type Driver interface {
	// Poll delivers pending input to the session before frame f is drawn.
	// It reports false when the surface is gone and the session should end.
	Poll(s *Session, f loop.Frame) bool

	// Present shows the frame that was just drawn.
	Present(s *Session)
}

// Session is one running instance of the fractal viewer.
type Session struct {
	config  *config.Config
	backend renderer.Backend
	scene   *scene.Scene
	state   *interaction.State
	panel   *controls.Panel
	sched   *loop.Scheduler

	width, height int

	quit bool
	step bool
	last scene.Stats
}

// New builds a session rendering through backend. The backend must be ready
// to compile programs.
func New(cfg *config.Config, backend renderer.Backend) (*Session, error) {
	shading, err := newShading(cfg.Shading)
	if err != nil {
		return nil, fmt.Errorf("shading: %w", err)
	}

	s := &Session{
		config:  cfg,
		backend: backend,
		sched:   loop.New(cfg.Graphics.FPSLimit),
		width:   cfg.Graphics.Width,
		height:  cfg.Graphics.Height,
	}

	s.state = interaction.New(interaction.Tuning{
		DragSensitivity: cfg.Interaction.DragSensitivity,
		ZoomStep:        cfg.Interaction.ZoomStep,
		ZoomMin:         cfg.Interaction.ZoomMin,
		ZoomMax:         cfg.Interaction.ZoomMax,
		FrameDivisor:    cfg.Interaction.FrameDivisor,
	})

	s.panel = controls.NewPanel(controls.Limits{
		MaxDepth:   cfg.Fractal.MaxDepth,
		SpeedLimit: cfg.Interaction.SpeedLimit,
		SpeedStep:  cfg.Interaction.SpeedStep,
	}, s.state)
	s.panel.Depth.Set(float64(cfg.Fractal.Depth))
	for i, v := range cfg.Interaction.Speeds {
		s.panel.Speeds[i].Set(v)
	}
	s.panel.OnApply = func(depth int) {
		s.step = true
		logger.Debug("depth applied", zap.Int("depth", depth))
	}

	bg := cfg.Graphics.Background
	s.scene = scene.New(scene.Config{
		Root: carpet.Region{
			X:    cfg.Fractal.OriginX,
			Y:    cfg.Fractal.OriginY,
			Size: cfg.Fractal.Size,
		},
		Background: mgl32.Vec4{bg[0], bg[1], bg[2], bg[3]},
	}, backend, shading, s.camera(), carpet.NewGenerator(cfg.Fractal.MaxDepth))

	logger.Info("session ready",
		zap.Int("depth", s.panel.DepthValue()),
		zap.String("shading", shading.Name()),
		zap.String("projection", cfg.Camera.Projection),
		zap.Bool("rendering", s.scene.Ready()),
	)
	return s, nil
}

// newShading picks the shading strategy. A texture that cannot be loaded is
// not fatal: the textured mode falls back to a generated checkerboard.
func newShading(cfg config.ShadingConfig) (renderer.Shading, error) {
	var img *image.RGBA
	if cfg.Mode == config.ShadingTextured && cfg.Texture != "" {
		loaded, err := texture.Load(cfg.Texture)
		if err != nil {
			logger.Warn("texture unavailable, using checkerboard",
				zap.String("path", cfg.Texture),
				zap.Error(err),
			)
		} else {
			img = loaded
		}
	}
	c := cfg.Color
	return renderer.NewShading(cfg.Mode, mgl32.Vec4{c[0], c[1], c[2], c[3]}, img)
}

func (s *Session) camera() camera.Fixed {
	c := s.config.Camera
	if c.Projection == config.ProjectionIdentity {
		return camera.NewIdentity()
	}
	return camera.NewPerspective(camera.Lens{
		Eye:         c.Eye,
		Target:      c.Target,
		Up:          c.Up,
		FovYDegrees: c.FovDegrees,
		Near:        c.Near,
		Far:         c.Far,
	}, s.width, s.height)
}

// State returns the interaction state.
func (s *Session) State() *interaction.State { return s.state }

// Panel returns the controls.
func (s *Session) Panel() *controls.Panel { return s.panel }

// Scheduler returns the frame scheduler.
func (s *Session) Scheduler() *loop.Scheduler { return s.sched }

// LastStats returns the statistics of the most recent frame.
func (s *Session) LastStats() scene.Stats { return s.last }

// Rendering reports whether the scene has a working program.
func (s *Session) Rendering() bool { return s.scene.Ready() }

// Title returns the window title, including the controls readout.
func (s *Session) Title() string {
	title := Title + " | " + s.panel.Readout(s.state.Scale)
	if s.sched.Paused() {
		title += " | paused"
	}
	return title
}

// Quit ends the session after the current frame.
func (s *Session) Quit() { s.quit = true }

// TogglePause freezes or resumes the spin animation.
func (s *Session) TogglePause() {
	paused := s.sched.Toggle()
	logger.Debug("animation", zap.Bool("paused", paused))
}

// ApplyDepth fires the "apply depth" trigger: the next frame is drawn
// without advancing the spin angles.
func (s *Session) ApplyDepth() { s.panel.Apply() }

// SetDepth moves the depth slider.
func (s *Session) SetDepth(depth int) { s.panel.Depth.Set(float64(depth)) }

// NudgeDepth moves the depth slider by n steps.
func (s *Session) NudgeDepth(n int) { s.panel.Depth.Nudge(n) }

// NudgeSpeed moves the spin speed slider of axis by n steps.
func (s *Session) NudgeSpeed(axis interaction.Axis, n int) {
	if axis < interaction.AxisX || axis > interaction.AxisZ {
		return
	}
	s.panel.Speeds[axis].Nudge(n)
}

// ResetView restores rotation, spin angles and zoom.
func (s *Session) ResetView() { s.state.Reset() }

// PointerDown starts a drag at (x, y).
func (s *Session) PointerDown(x, y float32) { s.state.PointerDown(x, y) }

// PointerMove continues a drag.
func (s *Session) PointerMove(x, y float32) { s.state.PointerMove(x, y) }

// PointerUp ends a drag.
func (s *Session) PointerUp() { s.state.PointerUp() }

// PointerLeave ends a drag when the pointer leaves the surface.
func (s *Session) PointerLeave() { s.state.PointerLeave() }

// Wheel zooms. deltaY follows the browser sign convention.
func (s *Session) Wheel(deltaY float32) { s.state.Wheel(deltaY) }

// Resize adapts the backend viewport and the projection to a new surface size.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.backend.Resize(width, height)
	s.scene.SetCamera(s.camera())
	logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Run drives frames until the driver or a Quit ends the session, or ctx is
// cancelled.
func (s *Session) Run(ctx context.Context, d Driver) error {
	logger.Info("starting render loop", zap.Duration("interval", s.sched.Interval))

	return s.sched.Run(ctx, func(ctx context.Context, f loop.Frame) (loop.Result, error) {
		if !d.Poll(s, f) {
			return loop.Stop, nil
		}
		if s.quit {
			return loop.Stop, nil
		}

		s.render(f)
		d.Present(s)
		return loop.Continue, nil
	})
}

// render draws one frame. Paused frames and the frame after an "apply
// depth" are drawn without advancing the spin. Backend failures are logged
// and the loop goes on.
func (s *Session) render(f loop.Frame) {
	depth := s.panel.DepthValue()

	var (
		stats scene.Stats
		err   error
	)
	// The scheduler's mark may have changed while this tick polled input.
	if s.sched.Paused() || s.step {
		stats, err = s.scene.Step(s.state, depth)
	} else {
		stats, err = s.scene.Frame(s.state, depth)
	}
	s.step = false
	s.last = stats

	if err != nil {
		logger.Warn("frame rendered with errors",
			zap.Uint64("frame", f.Index),
			zap.Int("failed", stats.Failed),
			zap.Error(err),
		)
	}
}
