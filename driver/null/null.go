// Package null provides a driver.Driver that keeps every
// resource in process memory. It accepts WGSL shader
// source and supports full introspection, which makes it
// suitable for tests and for dry runs of pipeline setup
// without a GPU.
package null

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga/ir"

	"github.com/arev/rhi/driver"
	"github.com/arev/rhi/internal/wgslvars"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver in memory.
// The zero value is ready for use.
type Driver struct {
	ctx *Context
}

// Open initializes the driver.
func (d *Driver) Open() (driver.Context, error) {
	if d.ctx == nil {
		d.ctx = &Context{drv: d}
	}
	return d.ctx, nil
}

// Name returns the name of the driver.
func (d *Driver) Name() string { return "null" }

// Close deinitializes the driver.
func (d *Driver) Close() { d.ctx = nil }

// Context implements driver.Context in memory.
type Context struct {
	drv *Driver
}

// Driver returns the Driver that owns the Context.
func (c *Context) Driver() driver.Driver { return c.drv }

// Introspection returns true; the null driver derives
// program variables from WGSL source.
func (c *Context) Introspection() bool { return true }

// Limits returns fixed limits, generous enough for tests.
func (c *Context) Limits() driver.Limits {
	return driver.Limits{
		MaxTex1D:        16384,
		MaxTex2D:        16384,
		MaxTexCube:      16384,
		MaxTex3D:        2048,
		MaxLayers:       2048,
		MaxBufferSize:   1 << 30,
		MaxBlockSize:    1 << 16,
		MaxVertexIn:     16,
		MaxBlocks:       12,
		MaxViews:        16,
		MaxSamplers:     16,
		MaxColorTargets: 8,
	}
}

// NewBuffer creates a buffer backed by a byte slice.
func (c *Context) NewBuffer(desc *driver.BufDesc, init []byte) (driver.Buffer, error) {
	if desc.Size < 1 {
		return nil, errors.New("null: invalid buffer size")
	}
	if int64(len(init)) > desc.Size {
		return nil, errors.New("null: initial data larger than buffer")
	}
	b := &Buffer{desc: *desc, data: make([]byte, desc.Size)}
	copy(b.data, init)
	return b, nil
}

// Buffer is a backend buffer backed by process memory.
type Buffer struct {
	desc  driver.BufDesc
	data  []byte
	bound bool
	dead  bool
}

// Bind marks the buffer as current.
func (b *Buffer) Bind() { b.bound = true }

// Destroy invalidates the buffer.
func (b *Buffer) Destroy() {
	b.dead = true
	b.data = nil
}

// Update replaces a byte range of the buffer.
func (b *Buffer) Update(off int64, data []byte) error {
	if b.dead {
		return errors.New("null: buffer destroyed")
	}
	if off < 0 || off+int64(len(data)) > int64(len(b.data)) {
		return errors.New("null: buffer update out of bounds")
	}
	copy(b.data[off:], data)
	return nil
}

// Bytes returns the buffer's current contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Dead returns whether Destroy was called.
func (b *Buffer) Dead() bool { return b.dead }

// NewTexture creates a texture backed by one byte slice
// per sub-resource.
func (c *Context) NewTexture(desc *driver.TexDesc, init [][]byte) (driver.Texture, error) {
	if desc.Width < 1 || desc.Size() == 0 {
		return nil, errors.New("null: invalid texture description")
	}
	layers := max(1, desc.Layers) * desc.Type.Faces()
	levels := max(1, desc.Levels)
	t := &Texture{desc: *desc, slices: make([][]byte, layers*levels)}
	for i := range t.slices {
		t.slices[i] = make([]byte, t.sliceBytes(i%levels))
	}
	if len(init) != 0 {
		if len(init) != len(t.slices) {
			return nil, fmt.Errorf("null: %d initial slices, want %d", len(init), len(t.slices))
		}
		for i := range init {
			if len(init[i]) != len(t.slices[i]) {
				return nil, fmt.Errorf("null: initial slice %d is %d bytes, want %d",
					i, len(init[i]), len(t.slices[i]))
			}
			copy(t.slices[i], init[i])
		}
	}
	return t, nil
}

// Texture is a backend texture backed by process memory.
type Texture struct {
	desc   driver.TexDesc
	slices [][]byte
	bound  bool
	dead   bool
}

func (t *Texture) levelExtent(l int) driver.Dim3D {
	return driver.Dim3D{
		Width:  max(1, t.desc.Width>>l),
		Height: max(1, t.desc.Height>>l),
		Depth:  max(1, t.desc.Depth>>l),
	}
}

func (t *Texture) sliceBytes(l int) int {
	d := t.levelExtent(l)
	return t.desc.Size() * d.Width * d.Height * d.Depth
}

// Bind marks the texture as current.
func (t *Texture) Bind() { t.bound = true }

// Destroy invalidates the texture.
func (t *Texture) Destroy() {
	t.dead = true
	t.slices = nil
}

// Update replaces a region of one sub-resource.
func (t *Texture) Update(off driver.Off3D, size driver.Dim3D, layer, level int, data []byte) error {
	if t.dead {
		return errors.New("null: texture destroyed")
	}
	levels := max(1, t.desc.Levels)
	if level < 0 || level >= levels || layer < 0 || layer >= len(t.slices)/levels {
		return errors.New("null: texture sub-resource out of bounds")
	}
	ext := t.levelExtent(level)
	w, h, d := size.Width, max(1, size.Height), max(1, size.Depth)
	if off.X < 0 || off.Y < 0 || off.Z < 0 ||
		off.X+w > ext.Width || off.Y+h > ext.Height || off.Z+d > ext.Depth {
		return errors.New("null: texture region out of bounds")
	}
	px := t.desc.Size()
	if len(data) != px*w*h*d {
		return errors.New("null: texture update size mismatch")
	}
	dst := t.slices[layer*levels+level]
	for z := range d {
		for y := range h {
			si := (z*h + y) * w * px
			di := (((z+off.Z)*ext.Height+y+off.Y)*ext.Width + off.X) * px
			copy(dst[di:di+w*px], data[si:si+w*px])
		}
	}
	return nil
}

// Slice returns the current contents of one sub-resource.
func (t *Texture) Slice(layer, level int) []byte {
	return t.slices[layer*max(1, t.desc.Levels)+level]
}

// Dead returns whether Destroy was called.
func (t *Texture) Dead() bool { return t.dead }

// NewShader lowers WGSL source to IR. Compilation errors
// surface here.
func (c *Context) NewShader(stage driver.Stage, src []byte) (driver.Shader, error) {
	m, err := wgslvars.Lower(src)
	if err != nil {
		return nil, fmt.Errorf("null: %w", err)
	}
	return &Shader{stage: stage, module: m}, nil
}

// Shader is a backend shader holding a lowered IR module.
type Shader struct {
	stage  driver.Stage
	module *ir.Module
	dead   bool
}

// Destroy invalidates the shader.
func (s *Shader) Destroy() { s.dead = true }

// NewProgram derives the variable catalogs of the linked
// shaders.
func (c *Context) NewProgram(sh []driver.Shader) (driver.Program, *driver.ProgramVars, error) {
	modules := make([]*ir.Module, len(sh))
	for i := range sh {
		s, ok := sh[i].(*Shader)
		if !ok {
			return nil, nil, errors.New("null: foreign shader")
		}
		if s.dead {
			return nil, nil, errors.New("null: shader destroyed")
		}
		modules[i] = s.module
	}
	vars, err := wgslvars.Vars(modules...)
	if err != nil {
		return nil, nil, fmt.Errorf("null: %w", err)
	}
	return &Program{vars: vars}, vars, nil
}

// Program is a backend program.
type Program struct {
	vars  *driver.ProgramVars
	bound bool
	dead  bool
}

// Bind marks the program as current.
func (p *Program) Bind() { p.bound = true }

// Destroy invalidates the program.
func (p *Program) Destroy() { p.dead = true }

// NewSampler records sampling state.
func (c *Context) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	return &Sampler{spln: *spln}, nil
}

// Sampler is a backend sampler.
type Sampler struct {
	spln  driver.Sampling
	bound bool
	dead  bool
}

// Bind marks the sampler as current.
func (s *Sampler) Bind() { s.bound = true }

// Destroy invalidates the sampler.
func (s *Sampler) Destroy() { s.dead = true }

// NewPipeline records the resolved description.
func (c *Context) NewPipeline(prog driver.Program, desc *driver.PipelineDesc) (driver.Pipeline, error) {
	p, ok := prog.(*Program)
	if !ok {
		return nil, errors.New("null: foreign program")
	}
	if p.dead {
		return nil, errors.New("null: program destroyed")
	}
	if desc.NeedsBinding() {
		return nil, errors.New("null: description has unbound slots")
	}
	d := *desc
	return &Pipeline{prog: p, desc: d}, nil
}

// Pipeline is a backend pipeline holding the description
// it was created with.
type Pipeline struct {
	prog  *Program
	desc  driver.PipelineDesc
	bound bool
	dead  bool
}

// Bind marks the pipeline as current.
func (p *Pipeline) Bind() { p.bound = true }

// Destroy invalidates the pipeline.
func (p *Pipeline) Destroy() { p.dead = true }

// Desc returns the description the pipeline was created
// with.
func (p *Pipeline) Desc() driver.PipelineDesc { return p.desc }

// Dead returns whether Destroy was called.
func (p *Pipeline) Dead() bool { return p.dead }
