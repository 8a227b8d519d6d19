package renderer

import (
	"fmt"
	"image"
	"maps"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one recorded DrawTriangles call with the state it was issued under.
type Draw struct {
	VertexCount int
	Positions   []float32
	Matrices    map[string]mgl32.Mat4
	Vec4s       map[string]mgl32.Vec4
	Ints        map[string]int32
}

// Recorder is a Backend that records calls instead of drawing. It needs no
// GPU and backs headless runs and tests.
//
// Draws holds the calls issued since the last Clear.
type Recorder struct {
	// CompileErr, when set, is returned by CompileProgram.
	CompileErr error
	// DrawErr, when set, is called with the running draw call count and
	// its result returned.
	DrawErr func(call int) error

	Programs  []Program
	Current   Program
	Clears    int
	Textures  int
	Uploads   map[Buffer]int
	Draws     []Draw
	Width     int
	Height    int
	Closed    bool
	ClearedTo mgl32.Vec4

	calls    int
	buffers  map[Buffer][]float32
	matrices map[string]mgl32.Mat4
	vec4s    map[string]mgl32.Vec4
	ints     map[string]int32
}

var _ Backend = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Uploads:  make(map[Buffer]int),
		buffers:  make(map[Buffer][]float32),
		matrices: make(map[string]mgl32.Mat4),
		vec4s:    make(map[string]mgl32.Vec4),
		ints:     make(map[string]int32),
	}
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (Program, error) {
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, fmt.Errorf("empty shader source")
	}
	p := Program(len(r.Programs) + 1)
	r.Programs = append(r.Programs, p)
	return p, nil
}

func (r *Recorder) UseProgram(p Program) {
	r.Current = p
	clear(r.matrices)
	clear(r.vec4s)
	clear(r.ints)
}

func (r *Recorder) UploadVertices(buf Buffer, data []float32) error {
	if len(data) == 0 || len(data)%buf.Components() != 0 {
		return fmt.Errorf("upload %s: bad length %d", buf, len(data))
	}
	r.Uploads[buf]++
	r.buffers[buf] = append(r.buffers[buf][:0], data...)
	return nil
}

func (r *Recorder) UploadTexture(img *image.RGBA) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("upload texture: empty image")
	}
	r.Textures++
	return nil
}

func (r *Recorder) SetUniformMatrix(name string, m mgl32.Mat4) { r.matrices[name] = m }
func (r *Recorder) SetUniformVec4(name string, v mgl32.Vec4)   { r.vec4s[name] = v }
func (r *Recorder) SetUniformInt(name string, v int32)         { r.ints[name] = v }

func (r *Recorder) DrawTriangles(vertexCount int) error {
	if r.Current == 0 {
		return ErrNoProgram
	}
	call := r.calls
	r.calls++
	if r.DrawErr != nil {
		if err := r.DrawErr(call); err != nil {
			return err
		}
	}
	r.Draws = append(r.Draws, Draw{
		VertexCount: vertexCount,
		Positions:   append([]float32(nil), r.buffers[PositionBuffer]...),
		Matrices:    maps.Clone(r.matrices),
		Vec4s:       maps.Clone(r.vec4s),
		Ints:        maps.Clone(r.ints),
	})
	return nil
}

func (r *Recorder) Clear(c mgl32.Vec4) {
	r.Clears++
	r.ClearedTo = c
	r.Draws = nil
}

func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
}

func (r *Recorder) Close() { r.Closed = true }

// Buffer returns the last data uploaded to buf.
func (r *Recorder) Buffer(buf Buffer) []float32 {
	return r.buffers[buf]
}
