package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/cubecarpet/pkg/carpet"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagDepth      = flag.String("depth", "", "Initial recursion depth")
	flagShading    = flag.String("shading", "", "Shading mode: gradient or textured")
	flagTexture    = flag.String("texture", "", "Texture image for textured shading (png, jpeg, tga)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagHeadless   = flag.Bool("headless", false, "Render against a recording backend, without a window")
	flagFrames     = flag.Int("frames", 0, "Frames to render in headless mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDepth != "" {
		depth, err := carpet.ParseDepth(*flagDepth)
		if err != nil {
			return fmt.Errorf("-depth: %w", err)
		}
		cfg.Fractal.Depth = min(depth, cfg.Fractal.MaxDepth)
	}
	if *flagShading != "" {
		cfg.Shading.Mode = *flagShading
	}
	if *flagTexture != "" {
		cfg.Shading.Texture = *flagTexture
		if *flagShading == "" {
			cfg.Shading.Mode = ShadingTextured
		}
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagHeadless {
		cfg.Headless = true
	}
	if *flagFrames > 0 {
		cfg.Frames = *flagFrames
	}
	return nil
}
