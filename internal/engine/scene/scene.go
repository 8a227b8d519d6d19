// Package scene implements the per-frame render loop: it enumerates the
// fractal's cubes, composes their model matrices and submits them to the
// rendering backend.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/engine/camera"
	"github.com/Faultbox/cubecarpet/internal/engine/renderer"
	"github.com/Faultbox/cubecarpet/internal/interaction"
	"github.com/Faultbox/cubecarpet/internal/logger"
	"github.com/Faultbox/cubecarpet/pkg/carpet"
	"github.com/Faultbox/cubecarpet/pkg/cube"
	"github.com/Faultbox/cubecarpet/pkg/transform"
)

// maxReportedErrors caps how many per-cube failures one frame collects.
const maxReportedErrors = 8

// Config holds the scene configuration.
type Config struct {
	// Root is the square the carpet is generated in. Depth is ignored;
	// the depth comes from the control on every frame.
	Root carpet.Region

	Background mgl32.Vec4
}

// Stats summarizes one rendered frame.
type Stats struct {
	Cubes    int
	Vertices int
	Failed   int
}

// Scene draws the cube carpet.
type Scene struct {
	config    Config
	backend   renderer.Backend
	shading   renderer.Shading
	camera    camera.Fixed
	generator *carpet.Generator

	// ready is false when the program failed to build; frames then only clear.
	ready bool
}

// New creates a scene and builds the shading program. A compile or setup
// failure is logged and leaves the scene degraded rather than failing.
func New(cfg Config, backend renderer.Backend, shading renderer.Shading, cam camera.Fixed, gen *carpet.Generator) *Scene {
	s := &Scene{
		config:    cfg,
		backend:   backend,
		shading:   shading,
		camera:    cam,
		generator: gen,
	}

	if err := s.build(); err != nil {
		logger.Error("shading program unavailable, rendering disabled",
			zap.String("shading", shading.Name()),
			zap.Error(err),
		)
		return s
	}

	s.ready = true
	logger.Info("scene ready",
		zap.String("shading", shading.Name()),
		zap.Int("max_depth", gen.MaxDepth),
	)
	return s
}

func (s *Scene) build() error {
	vert, frag := s.shading.Sources()
	program, err := s.backend.CompileProgram(vert, frag)
	if err != nil {
		return fmt.Errorf("compile %s program: %w", s.shading.Name(), err)
	}
	s.backend.UseProgram(program)

	if err := s.shading.Setup(s.backend); err != nil {
		return fmt.Errorf("setup %s shading: %w", s.shading.Name(), err)
	}
	return nil
}

// Ready reports whether the shading program built successfully.
func (s *Scene) Ready() bool {
	return s.ready
}

// SetCamera replaces the camera, e.g. after the viewport changed aspect.
func (s *Scene) SetCamera(cam camera.Fixed) {
	s.camera = cam
}

// Frame advances the spin angles by one frame and draws the carpet at depth.
func (s *Scene) Frame(state *interaction.State, depth int) (Stats, error) {
	state.Advance()
	return s.draw(state.Pose(), depth)
}

// Step draws the carpet at depth once without advancing the spin angles.
func (s *Scene) Step(state *interaction.State, depth int) (Stats, error) {
	return s.draw(state.Pose(), depth)
}

// draw submits every cube. A failing cube does not stop the others; the
// failures are returned together.
func (s *Scene) draw(pose transform.Pose, depth int) (Stats, error) {
	s.backend.Clear(s.config.Background)

	var stats Stats
	if !s.ready {
		return stats, nil
	}

	s.backend.SetUniformMatrix(renderer.UniformView, s.camera.View)
	s.backend.SetUniformMatrix(renderer.UniformProjection, s.camera.Projection)

	root := s.config.Root
	var errs error
	for p := range s.generator.Generate(root.X, root.Y, root.Size, depth) {
		mesh := cube.Build(float32(p.X), float32(p.Y), float32(p.Z), float32(p.Size))
		if err := s.submit(&mesh, pose, p.Level); err != nil {
			stats.Failed++
			if stats.Failed <= maxReportedErrors {
				errs = multierr.Append(errs, fmt.Errorf("cube %d: %w", stats.Cubes+stats.Failed-1, err))
			}
			continue
		}
		stats.Cubes++
		stats.Vertices += cube.VertexCount
	}
	return stats, errs
}

func (s *Scene) submit(mesh *cube.Mesh, pose transform.Pose, level int) error {
	if err := s.backend.UploadVertices(renderer.PositionBuffer, mesh.Flatten()); err != nil {
		return err
	}
	s.backend.SetUniformMatrix(renderer.UniformModel, transform.ModelForMesh(mesh, pose))
	s.shading.Apply(s.backend, level)
	return s.backend.DrawTriangles(cube.VertexCount)
}
