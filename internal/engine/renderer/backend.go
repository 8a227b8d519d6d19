// Package renderer defines the rendering backend contract used by the scene
// and provides the OpenGL and recording implementations of it.
package renderer

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoProgram is returned by draw calls issued before a program is in use.
var ErrNoProgram = errors.New("no shader program in use")

// Program is an opaque handle to a linked shader program.
type Program uint32

// Buffer selects a vertex attribute stream.
type Buffer int

const (
	// PositionBuffer holds x, y, z per vertex at attribute location 0.
	PositionBuffer Buffer = iota
	// TexCoordBuffer holds u, v per vertex at attribute location 1.
	TexCoordBuffer
)

// Components returns the number of floats per vertex in the buffer.
func (b Buffer) Components() int {
	if b == TexCoordBuffer {
		return 2
	}
	return 3
}

func (b Buffer) String() string {
	if b == TexCoordBuffer {
		return "texcoord"
	}
	return "position"
}

// Uniform names shared by every shading mode.
const (
	UniformModel      = "uModelMatrix"
	UniformView       = "uViewMatrix"
	UniformProjection = "uProjectionMatrix"
)

// Backend owns the GPU context, shader program, buffers and draw calls.
type Backend interface {
	// CompileProgram compiles and links a program. The error carries the
	// compiler diagnostics.
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	UseProgram(p Program)

	UploadVertices(buf Buffer, data []float32) error
	UploadTexture(img *image.RGBA) error

	SetUniformMatrix(name string, m mgl32.Mat4)
	SetUniformVec4(name string, v mgl32.Vec4)
	SetUniformInt(name string, v int32)

	DrawTriangles(vertexCount int) error
	Clear(color mgl32.Vec4)

	Resize(width, height int)
	Close()
}
