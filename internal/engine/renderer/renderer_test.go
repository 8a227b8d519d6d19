package renderer

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderDrawRequiresProgram(t *testing.T) {
	r := NewRecorder()
	assert.ErrorIs(t, r.DrawTriangles(36), ErrNoProgram)

	p, err := r.CompileProgram("v", "f")
	require.NoError(t, err)
	r.UseProgram(p)
	assert.NoError(t, r.DrawTriangles(36))
	assert.Len(t, r.Draws, 1)
}

func TestRecorderSnapshotsState(t *testing.T) {
	r := NewRecorder()
	p, _ := r.CompileProgram("v", "f")
	r.UseProgram(p)

	require.NoError(t, r.UploadVertices(PositionBuffer, []float32{1, 2, 3}))
	r.SetUniformMatrix(UniformModel, mgl32.Translate3D(1, 0, 0))
	require.NoError(t, r.DrawTriangles(1))

	require.NoError(t, r.UploadVertices(PositionBuffer, []float32{4, 5, 6}))
	r.SetUniformMatrix(UniformModel, mgl32.Translate3D(2, 0, 0))
	require.NoError(t, r.DrawTriangles(1))

	require.Len(t, r.Draws, 2)
	assert.Equal(t, []float32{1, 2, 3}, r.Draws[0].Positions)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), r.Draws[0].Matrices[UniformModel])
	assert.Equal(t, []float32{4, 5, 6}, r.Draws[1].Positions)
	assert.Equal(t, 2, r.Uploads[PositionBuffer])

	r.Clear(mgl32.Vec4{0, 0, 0, 1})
	assert.Empty(t, r.Draws)
	assert.Equal(t, 1, r.Clears)
}

func TestRecorderClearKeepsPreviousFrame(t *testing.T) {
	r := NewRecorder()
	p, _ := r.CompileProgram("v", "f")
	r.UseProgram(p)

	r.SetUniformMatrix(UniformModel, mgl32.Translate3D(1, 0, 0))
	require.NoError(t, r.DrawTriangles(36))
	frame := r.Draws

	r.Clear(mgl32.Vec4{})
	assert.Empty(t, r.Draws)
	r.SetUniformMatrix(UniformModel, mgl32.Translate3D(5, 0, 0))
	require.NoError(t, r.DrawTriangles(12))

	require.Len(t, frame, 1)
	assert.Equal(t, 36, frame[0].VertexCount)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), frame[0].Matrices[UniformModel])
	assert.Equal(t, 12, r.Draws[0].VertexCount)
}

func TestRecorderRejectsBadUploads(t *testing.T) {
	r := NewRecorder()
	assert.Error(t, r.UploadVertices(PositionBuffer, nil))
	assert.Error(t, r.UploadVertices(PositionBuffer, []float32{1, 2}))
	assert.NoError(t, r.UploadVertices(TexCoordBuffer, []float32{1, 2}))
	assert.Error(t, r.UploadTexture(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestRecorderCompileError(t *testing.T) {
	r := NewRecorder()
	r.CompileErr = errors.New("fragment shader: 0:3: syntax error")
	_, err := r.CompileProgram("v", "f")
	assert.EqualError(t, err, "fragment shader: 0:3: syntax error")
}

func TestNewShading(t *testing.T) {
	s, err := NewShading("Gradient", mgl32.Vec4{1, 0, 0, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeGradient, s.Name())

	s, err = NewShading(ModeTextured, mgl32.Vec4{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeTextured, s.Name())

	_, err = NewShading("phong", mgl32.Vec4{}, nil)
	assert.Error(t, err)
}

func TestGradientShadingUniforms(t *testing.T) {
	r := NewRecorder()
	p, _ := r.CompileProgram("v", "f")
	r.UseProgram(p)

	g := &GradientShading{Color: mgl32.Vec4{0.04, 0.6, 1, 1}}
	require.NoError(t, g.Setup(r))
	g.Apply(r, 2)
	require.NoError(t, r.DrawTriangles(36))

	d := r.Draws[0]
	assert.Equal(t, mgl32.Vec4{0.04, 0.6, 1, 1}, d.Vec4s["uColor"])
	assert.Equal(t, int32(2), d.Ints["uLevel"])
}

func TestTexturedShadingSetup(t *testing.T) {
	r := NewRecorder()
	p, _ := r.CompileProgram("v", "f")
	r.UseProgram(p)

	s := &TexturedShading{}
	require.NoError(t, s.Setup(r))

	assert.Equal(t, 1, r.Textures)
	assert.Len(t, r.Buffer(TexCoordBuffer), 72)
	assert.Equal(t, int32(0), r.ints["uTexture"])
}

func TestBufferComponents(t *testing.T) {
	assert.Equal(t, 3, PositionBuffer.Components())
	assert.Equal(t, 2, TexCoordBuffer.Components())
	assert.Equal(t, "texcoord", TexCoordBuffer.String())
}
