// Package opengl implements renderer.Backend on OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/engine/renderer"
	"github.com/Faultbox/cubecarpet/internal/engine/shader"
	"github.com/Faultbox/cubecarpet/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Backend renders through OpenGL 4.1 core.
type Backend struct {
	config Config

	program  uint32
	uniforms map[string]int32

	vao     uint32
	vbo     [2]uint32
	texture uint32
}

// New creates the OpenGL backend.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Backend, error) {
	r := &Backend{
		config:   cfg,
		uniforms: make(map[string]int32),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(2, &r.vbo[0])

	logger.Debug("vertex buffers created",
		zap.Uint32("vao", r.vao),
		zap.Uint32("position_vbo", r.vbo[renderer.PositionBuffer]),
		zap.Uint32("texcoord_vbo", r.vbo[renderer.TexCoordBuffer]),
	)
	return r, nil
}

var _ renderer.Backend = (*Backend)(nil)

// Close releases GL objects.
func (r *Backend) Close() {
	logger.Info("closing renderer")
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.vbo[0] != 0 {
		gl.DeleteBuffers(2, &r.vbo[0])
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Backend) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// CompileProgram compiles and links a shader program.
func (r *Backend) CompileProgram(vertexSrc, fragmentSrc string) (renderer.Program, error) {
	program, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	logger.Debug("shader program created", zap.Uint32("program", program))
	return renderer.Program(program), nil
}

// UseProgram makes p current and resets the uniform location cache.
func (r *Backend) UseProgram(p renderer.Program) {
	if r.program != 0 && r.program != uint32(p) {
		gl.DeleteProgram(r.program)
	}
	r.program = uint32(p)
	clear(r.uniforms)
	gl.UseProgram(r.program)
}

// UploadVertices streams data into the buffer's VBO and points its attribute at it.
func (r *Backend) UploadVertices(buf renderer.Buffer, data []float32) error {
	if len(data) == 0 {
		return fmt.Errorf("upload %s: empty buffer", buf)
	}
	if len(data)%buf.Components() != 0 {
		return fmt.Errorf("upload %s: %d floats is not a multiple of %d", buf, len(data), buf.Components())
	}

	loc := uint32(buf)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo[buf])
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.DYNAMIC_DRAW)
	gl.VertexAttribPointer(loc, int32(buf.Components()), gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(loc)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return checkError("upload " + buf.String())
}

// UploadTexture replaces the bound 2D texture on unit 0.
func (r *Backend) UploadTexture(img *image.RGBA) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("upload texture: empty image")
	}
	rgba := img
	if b.Min != (image.Point{}) || img.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			copy(rgba.Pix[y*rgba.Stride:(y+1)*rgba.Stride], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
		}
	}

	if r.texture == 0 {
		gl.GenTextures(1, &r.texture)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	logger.Debug("texture uploaded",
		zap.Uint32("texture", r.texture),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return checkError("upload texture")
}

// location returns the cached uniform location for name, or -1.
func (r *Backend) location(name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	loc := shader.GetUniform(r.program, name)
	if loc < 0 {
		logger.Debug("uniform not active", zap.String("name", name), zap.Uint32("program", r.program))
	}
	r.uniforms[name] = loc
	return loc
}

// SetUniformMatrix sets a mat4 uniform of the current program.
func (r *Backend) SetUniformMatrix(name string, m mgl32.Mat4) {
	if loc := r.location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetUniformVec4 sets a vec4 uniform of the current program.
func (r *Backend) SetUniformVec4(name string, v mgl32.Vec4) {
	if loc := r.location(name); loc >= 0 {
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetUniformInt sets an int or sampler uniform of the current program.
func (r *Backend) SetUniformInt(name string, v int32) {
	if loc := r.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

// DrawTriangles draws vertexCount vertices from the bound buffers.
func (r *Backend) DrawTriangles(vertexCount int) error {
	if r.program == 0 {
		return renderer.ErrNoProgram
	}
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertexCount))
	return checkError("draw")
}

// Clear clears the color and depth buffers.
func (r *Backend) Clear(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// checkError drains the GL error queue into one error.
func checkError(op string) error {
	var codes []uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		codes = append(codes, code)
		if len(codes) == 8 {
			break
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("%s: GL errors %#x", op, codes)
}
