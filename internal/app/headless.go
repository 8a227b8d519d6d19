package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/config"
	"github.com/Faultbox/cubecarpet/internal/engine/loop"
	"github.com/Faultbox/cubecarpet/internal/engine/renderer"
	"github.com/Faultbox/cubecarpet/internal/interaction"
	"github.com/Faultbox/cubecarpet/internal/logger"
)

// DefaultHeadlessFrames is used when RunHeadless is asked for no frames.
const DefaultHeadlessFrames = 120

// Report summarizes a headless run.
type Report struct {
	Frames    int
	Cubes     int
	Vertices  int
	Failed    int
	Depth     int
	Scale     float32
	Angles    [3]float32
	Rendering bool
}

// Input is one scripted input action, applied before frame Frame.
type Input struct {
	Frame int
	Do    func(s *Session)
}

// DefaultScript drags the carpet a little, zooms in, previews a deeper
// carpet and resumes spinning.
func DefaultScript() []Input {
	return []Input{
		{Frame: 0, Do: func(s *Session) { s.PointerDown(100, 100) }},
		{Frame: 1, Do: func(s *Session) { s.PointerMove(120, 105) }},
		{Frame: 2, Do: func(s *Session) { s.PointerMove(140, 110) }},
		{Frame: 3, Do: func(s *Session) { s.PointerUp() }},
		{Frame: 4, Do: func(s *Session) { s.Wheel(-100) }},
		{Frame: 5, Do: func(s *Session) { s.NudgeDepth(1); s.ApplyDepth() }},
		{Frame: 6, Do: func(s *Session) { s.NudgeSpeed(interaction.AxisX, 5) }},
	}
}

// scriptDriver replays scripted input and stops after a number of frames.
type scriptDriver struct {
	frames int
	script []Input
	next   int
	shown  int
}

func (d *scriptDriver) Poll(s *Session, f loop.Frame) bool {
	if int(f.Index) >= d.frames {
		return false
	}
	for d.next < len(d.script) && d.script[d.next].Frame <= int(f.Index) {
		d.script[d.next].Do(s)
		d.next++
	}
	return true
}

func (d *scriptDriver) Present(*Session) { d.shown++ }

// RunHeadless renders frames frames against a recording backend, replaying
// DefaultScript. It needs neither a window nor a GPU.
func RunHeadless(cfg *config.Config, frames int) (Report, error) {
	return RunScript(context.Background(), cfg, frames, DefaultScript())
}

// RunScript is RunHeadless with a caller supplied input script. Script
// entries must be ordered by frame.
func RunScript(ctx context.Context, cfg *config.Config, frames int, script []Input) (Report, error) {
	if frames <= 0 {
		frames = DefaultHeadlessFrames
	}

	backend := renderer.NewRecorder()
	backend.Resize(cfg.Graphics.Width, cfg.Graphics.Height)
	defer backend.Close()

	s, err := New(cfg, backend)
	if err != nil {
		return Report{}, err
	}
	// Headless frames are not paced.
	s.sched.Interval = 0

	d := &scriptDriver{frames: frames, script: script}
	if err := s.Run(ctx, d); err != nil {
		return Report{}, err
	}

	stats := s.LastStats()
	r := Report{
		Frames:    d.shown,
		Cubes:     stats.Cubes,
		Vertices:  stats.Vertices,
		Failed:    stats.Failed,
		Depth:     s.panel.DepthValue(),
		Scale:     s.state.Scale,
		Angles:    s.state.Angles,
		Rendering: s.Rendering(),
	}

	logger.Info("headless run finished",
		zap.Int("frames", r.Frames),
		zap.Int("depth", r.Depth),
		zap.Int("cubes", r.Cubes),
		zap.Int("vertices", r.Vertices),
		zap.Int("failed", r.Failed),
		zap.Float32("scale", r.Scale),
		zap.Int("draw_calls", len(backend.Draws)),
	)
	return r, nil
}
