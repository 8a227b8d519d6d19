// Package config handles application configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/cubecarpet/pkg/carpet"
)

// Shading modes.
const (
	ShadingGradient = "gradient"
	ShadingTextured = "textured"
)

// Camera projections.
const (
	ProjectionPerspective = "perspective"
	ProjectionIdentity    = "identity"
)

// Config holds all application settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Fractal     FractalConfig     `yaml:"fractal"`
	Interaction InteractionConfig `yaml:"interaction"`
	Camera      CameraConfig      `yaml:"camera"`
	Shading     ShadingConfig     `yaml:"shading"`
	Logging     LoggingConfig     `yaml:"logging"`

	// Headless and Frames only come from flags.
	Headless bool `yaml:"-"`
	Frames   int  `yaml:"-"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	Background [4]float32 `yaml:"background"`
}

// FractalConfig describes the carpet.
type FractalConfig struct {
	Depth    int     `yaml:"depth"`
	MaxDepth int     `yaml:"max_depth"`
	OriginX  float64 `yaml:"origin_x"`
	OriginY  float64 `yaml:"origin_y"`
	Size     float64 `yaml:"size"`
}

// InteractionConfig tunes pointer and spin handling.
type InteractionConfig struct {
	DragSensitivity float32    `yaml:"drag_sensitivity"`
	ZoomStep        float32    `yaml:"zoom_step"`
	ZoomMin         float32    `yaml:"zoom_min"`
	ZoomMax         float32    `yaml:"zoom_max"`
	FrameDivisor    float32    `yaml:"frame_divisor"`
	SpeedLimit      float64    `yaml:"speed_limit"`
	SpeedStep       float64    `yaml:"speed_step"`
	Speeds          [3]float64 `yaml:"speeds"`
}

// CameraConfig holds the fixed view and projection.
type CameraConfig struct {
	Projection string     `yaml:"projection"`
	Eye        [3]float32 `yaml:"eye"`
	Target     [3]float32 `yaml:"target"`
	Up         [3]float32 `yaml:"up"`
	FovDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// ShadingConfig selects how cube surfaces are colored.
type ShadingConfig struct {
	Mode    string     `yaml:"mode"`
	Color   [4]float32 `yaml:"color"`
	Texture string     `yaml:"texture"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
			Background: [4]float32{0, 0, 0, 1},
		},
		Fractal: FractalConfig{
			Depth:    1,
			MaxDepth: carpet.DefaultMaxDepth,
			OriginX:  -1,
			OriginY:  -1,
			Size:     2,
		},
		Interaction: InteractionConfig{
			DragSensitivity: 0.01,
			ZoomStep:        0.1,
			ZoomMin:         0.1,
			ZoomMax:         10,
			FrameDivisor:    200,
			SpeedLimit:      10,
			SpeedStep:       0.1,
		},
		Camera: CameraConfig{
			Projection: ProjectionPerspective,
			Eye:        [3]float32{0, 0, 4},
			Target:     [3]float32{0, 0, 0},
			Up:         [3]float32{0, 1, 0},
			FovDegrees: 45,
			Near:       0.1,
			Far:        100,
		},
		Shading: ShadingConfig{
			Mode:  ShadingGradient,
			Color: [4]float32{0.2, 0.6, 1.0, 1.0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Graphics.Width > 0 && c.Graphics.Height > 0,
		"graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	check(c.Graphics.FPSLimit >= 0, "graphics.fps_limit: %d is negative", c.Graphics.FPSLimit)

	check(c.Fractal.MaxDepth >= 1, "fractal.max_depth: %d < 1", c.Fractal.MaxDepth)
	check(c.Fractal.Depth >= 1 && c.Fractal.Depth <= c.Fractal.MaxDepth,
		"fractal.depth: %d outside 1..%d", c.Fractal.Depth, c.Fractal.MaxDepth)
	check(c.Fractal.Size > 0, "fractal.size: %g must be positive", c.Fractal.Size)

	in := c.Interaction
	check(in.ZoomStep > 0, "interaction.zoom_step: %g must be positive", in.ZoomStep)
	check(in.ZoomMin > 0 && in.ZoomMin <= in.ZoomMax,
		"interaction: zoom range %g..%g is invalid", in.ZoomMin, in.ZoomMax)
	check(in.FrameDivisor > 0, "interaction.frame_divisor: %g must be positive", in.FrameDivisor)
	check(in.SpeedLimit > 0, "interaction.speed_limit: %g must be positive", in.SpeedLimit)
	for i, v := range in.Speeds {
		check(v >= -in.SpeedLimit && v <= in.SpeedLimit,
			"interaction.speeds[%d]: %g outside +-%g", i, v, in.SpeedLimit)
	}

	switch c.Camera.Projection {
	case ProjectionPerspective:
		check(c.Camera.FovDegrees > 0 && c.Camera.FovDegrees < 180,
			"camera.fov_degrees: %g outside (0, 180)", c.Camera.FovDegrees)
		check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far,
			"camera: clip planes %g..%g are invalid", c.Camera.Near, c.Camera.Far)
	case ProjectionIdentity:
	default:
		errs = append(errs, fmt.Errorf("camera.projection: unknown %q", c.Camera.Projection))
	}

	switch c.Shading.Mode {
	case ShadingGradient, ShadingTextured:
	default:
		errs = append(errs, fmt.Errorf("shading.mode: unknown %q", c.Shading.Mode))
	}

	return errors.Join(errs...)
}
