package renderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cubecarpet/internal/engine/shader/glsl"
	"github.com/Faultbox/cubecarpet/internal/engine/texture"
	"github.com/Faultbox/cubecarpet/pkg/cube"
)

// Shading is a pluggable coloring strategy. It supplies the program sources
// and the uniforms that differ between modes; geometry and transforms are
// shared.
type Shading interface {
	Name() string
	Sources() (vertex, fragment string)

	// Setup runs once after the program is in use.
	Setup(b Backend) error

	// Apply sets per-cube uniforms before the cube is drawn.
	Apply(b Backend, level int)
}

// Shading mode names.
const (
	ModeGradient = "gradient"
	ModeTextured = "textured"
)

// GradientShading colors faces procedurally from one base color: a flat term
// per face (derived from the vertex index) times a height gradient, darkened
// with subdivision level.
type GradientShading struct {
	Color mgl32.Vec4
}

func (g *GradientShading) Name() string { return ModeGradient }

func (g *GradientShading) Sources() (string, string) {
	return glsl.GradientVertexShader, glsl.GradientFragmentShader
}

func (g *GradientShading) Setup(b Backend) error {
	b.SetUniformVec4("uColor", g.Color)
	return nil
}

func (g *GradientShading) Apply(b Backend, level int) {
	b.SetUniformInt("uLevel", int32(level))
}

// TexturedShading maps one texture onto every cube face.
type TexturedShading struct {
	Image *image.RGBA
}

// DefaultTexture is the checkerboard used when no texture image is available.
func DefaultTexture() *image.RGBA {
	return texture.Checkerboard(64, 8,
		color.RGBA{R: 10, G: 153, B: 255, A: 255},
		color.RGBA{R: 240, G: 240, B: 240, A: 255},
	)
}

func (s *TexturedShading) Name() string { return ModeTextured }

func (s *TexturedShading) Sources() (string, string) {
	return glsl.TexturedVertexShader, glsl.TexturedFragmentShader
}

func (s *TexturedShading) Setup(b Backend) error {
	img := s.Image
	if img == nil {
		img = DefaultTexture()
	}
	if err := b.UploadTexture(img); err != nil {
		return err
	}
	if err := b.UploadVertices(TexCoordBuffer, cube.TexCoords()); err != nil {
		return err
	}
	b.SetUniformInt("uTexture", 0)
	return nil
}

func (s *TexturedShading) Apply(Backend, int) {}

// NewShading returns the strategy for mode. For the textured mode img may be
// nil, in which case DefaultTexture is used.
func NewShading(mode string, base mgl32.Vec4, img *image.RGBA) (Shading, error) {
	switch strings.ToLower(mode) {
	case ModeGradient, "":
		return &GradientShading{Color: base}, nil
	case ModeTextured:
		return &TexturedShading{Image: img}, nil
	}
	return nil, fmt.Errorf("unknown shading mode %q (want %s or %s)", mode, ModeGradient, ModeTextured)
}
