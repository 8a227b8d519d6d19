// Package desktop runs a session in an SDL2 window with an OpenGL backend.
package desktop

import (
	"context"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/app"
	"github.com/Faultbox/cubecarpet/internal/config"
	"github.com/Faultbox/cubecarpet/internal/engine/input"
	"github.com/Faultbox/cubecarpet/internal/engine/loop"
	"github.com/Faultbox/cubecarpet/internal/engine/renderer/opengl"
	"github.com/Faultbox/cubecarpet/internal/engine/window"
	"github.com/Faultbox/cubecarpet/internal/interaction"
	"github.com/Faultbox/cubecarpet/internal/logger"
)

// keymap binds key presses to session actions.
var keymap = map[sdl.Scancode]func(s *app.Session){
	sdl.SCANCODE_ESCAPE: (*app.Session).Quit,
	sdl.SCANCODE_SPACE:  (*app.Session).TogglePause,
	sdl.SCANCODE_RETURN: (*app.Session).ApplyDepth,
	sdl.SCANCODE_R:      (*app.Session).ResetView,

	sdl.SCANCODE_UP:   func(s *app.Session) { s.NudgeDepth(1) },
	sdl.SCANCODE_DOWN: func(s *app.Session) { s.NudgeDepth(-1) },

	sdl.SCANCODE_Q: func(s *app.Session) { s.NudgeSpeed(interaction.AxisX, 1) },
	sdl.SCANCODE_A: func(s *app.Session) { s.NudgeSpeed(interaction.AxisX, -1) },
	sdl.SCANCODE_W: func(s *app.Session) { s.NudgeSpeed(interaction.AxisY, 1) },
	sdl.SCANCODE_S: func(s *app.Session) { s.NudgeSpeed(interaction.AxisY, -1) },
	sdl.SCANCODE_E: func(s *app.Session) { s.NudgeSpeed(interaction.AxisZ, 1) },
	sdl.SCANCODE_D: func(s *app.Session) { s.NudgeSpeed(interaction.AxisZ, -1) },
}

func init() {
	// 1..7 pick the depth directly
	for i, sc := range []sdl.Scancode{
		sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3, sdl.SCANCODE_4,
		sdl.SCANCODE_5, sdl.SCANCODE_6, sdl.SCANCODE_7,
	} {
		depth := i + 1
		keymap[sc] = func(s *app.Session) { s.SetDepth(depth) }
	}
}

// Desktop owns the window, the input handler and the GL backend.
type Desktop struct {
	window  *window.Window
	input   *input.Input
	backend *opengl.Backend
	session *app.Session
}

// New opens the window and builds the session.
func New(cfg *config.Config) (*Desktop, error) {
	d := &Desktop{}

	var err error
	d.window, err = window.New(window.Config{
		Title:      app.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	logSDLVersion()

	// Backend AFTER window, since the OpenGL context must exist
	width, height := d.window.DrawableSize()
	d.backend, err = opengl.New(opengl.Config{Width: width, Height: height})
	if err != nil {
		d.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	d.input = input.New()

	d.session, err = app.New(cfg, d.backend)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	d.session.Resize(width, height)
	d.window.SetTitle(d.session.Title())

	return d, nil
}

// Run drives the session until the window is closed, Esc is pressed or ctx
// is cancelled.
func (d *Desktop) Run(ctx context.Context) error {
	return d.session.Run(ctx, d)
}

// Poll drains SDL input and dispatches it to the session.
func (d *Desktop) Poll(s *app.Session, _ loop.Frame) bool {
	if d.input.Update() {
		return false
	}

	for _, ev := range d.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			// The event carries window points; the viewport needs pixels.
			s.Resize(d.window.DrawableSize())
		case input.EventKeyDown:
			if ev.Repeat && !repeatable(ev.Key) {
				continue
			}
			if action, ok := keymap[ev.Key]; ok {
				action(s)
			}
		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT {
				s.PointerDown(float32(ev.MouseX), float32(ev.MouseY))
			}
		case input.EventMouseMove:
			s.PointerMove(float32(ev.MouseX), float32(ev.MouseY))
		case input.EventMouseUp:
			if ev.Button == sdl.BUTTON_LEFT {
				s.PointerUp()
			}
		case input.EventMouseLeave:
			s.PointerLeave()
		case input.EventMouseWheel:
			s.Wheel(ev.WheelY)
		}
	}
	return true
}

// repeatable reports whether holding key should keep nudging its slider.
func repeatable(key sdl.Scancode) bool {
	switch key {
	case sdl.SCANCODE_UP, sdl.SCANCODE_DOWN,
		sdl.SCANCODE_Q, sdl.SCANCODE_A,
		sdl.SCANCODE_W, sdl.SCANCODE_S,
		sdl.SCANCODE_E, sdl.SCANCODE_D:
		return true
	}
	return false
}

// Present swaps buffers and mirrors the controls in the title.
func (d *Desktop) Present(s *app.Session) {
	d.window.SwapBuffers()
	d.window.SetTitle(s.Title())
}

// Close releases the GL backend and the window.
func (d *Desktop) Close() {
	logger.Info("closing desktop")

	if d.backend != nil {
		d.backend.Close()
	}
	if d.window != nil {
		d.window.Close()
	}
}

var _ app.Driver = (*Desktop)(nil)

// logSDLVersion reports the linked SDL version once at startup.
func logSDLVersion() {
	var v sdl.Version
	sdl.GetVersion(&v)
	logger.Debug("sdl", zap.String("version", fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)))
}
