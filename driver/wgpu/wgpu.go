//go:build !nogpu

// Package wgpu provides a driver.Driver on top of
// github.com/gogpu/wgpu's hardware abstraction layer.
// Shaders are written in WGSL; introspection is derived
// from the source itself, so the driver reports program
// variables without device round trips.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/arev/rhi/driver"
	"github.com/arev/rhi/internal/wgslvars"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver over hal's Vulkan
// backend. The zero value is ready for use.
type Driver struct {
	instance hal.Instance
	ctx      *ctxt
}

// Open initializes the driver, selecting a discrete or
// integrated adapter when one is exposed.
func (d *Driver) Open() (driver.Context, error) {
	if d.ctx != nil {
		return d.ctx, nil
	}
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, driver.ErrNotInstalled
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, driver.ErrNoDevice
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		return nil, fmt.Errorf("wgpu: open adapter: %w", err)
	}
	d.instance = instance
	d.ctx = &ctxt{
		drv:    d,
		device: openDev.Device,
		queue:  openDev.Queue,
		limits: limits,
	}
	return d.ctx, nil
}

// Name returns the name of the driver.
func (d *Driver) Name() string { return "wgpu" }

// Close deinitializes the driver.
func (d *Driver) Close() {
	d.ctx = nil
	d.instance = nil
}

type ctxt struct {
	drv    *Driver
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits
}

func (c *ctxt) Driver() driver.Driver { return c.drv }

func (c *ctxt) Introspection() bool { return true }

func (c *ctxt) Limits() driver.Limits {
	return driver.Limits{
		MaxTex1D:        int(c.limits.MaxTextureDimension1D),
		MaxTex2D:        int(c.limits.MaxTextureDimension2D),
		MaxTexCube:      int(c.limits.MaxTextureDimension2D),
		MaxTex3D:        int(c.limits.MaxTextureDimension3D),
		MaxLayers:       int(c.limits.MaxTextureArrayLayers),
		MaxBufferSize:   int64(c.limits.MaxBufferSize),
		MaxBlockSize:    int64(c.limits.MaxUniformBufferBindingSize),
		MaxVertexIn:     int(c.limits.MaxVertexAttributes),
		MaxBlocks:       int(c.limits.MaxUniformBuffersPerShaderStage),
		MaxViews:        int(c.limits.MaxSampledTexturesPerShaderStage),
		MaxSamplers:     int(c.limits.MaxSamplersPerShaderStage),
		MaxColorTargets: int(c.limits.MaxColorAttachments),
	}
}

func (c *ctxt) NewBuffer(desc *driver.BufDesc, init []byte) (driver.Buffer, error) {
	usage := gputypes.BufferUsageCopyDst
	switch desc.Role {
	case driver.RVertex:
		usage |= gputypes.BufferUsageVertex
	case driver.RIndex:
		usage |= gputypes.BufferUsageIndex
	case driver.RConstant:
		usage |= gputypes.BufferUsageUniform
	}
	if desc.Usage&driver.UShaderConst != 0 {
		usage |= gputypes.BufferUsageUniform
	}
	if desc.Usage&(driver.UShaderRead|driver.UShaderWrite) != 0 {
		usage |= gputypes.BufferUsageStorage
	}
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Size:  uint64(desc.Size),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	if len(init) != 0 {
		c.queue.WriteBuffer(buf, 0, init)
	}
	return &buffer{ctx: c, buf: buf}, nil
}

type buffer struct {
	ctx *ctxt
	buf hal.Buffer
}

func (b *buffer) Bind() {}

func (b *buffer) Destroy() {
	if b.buf != nil {
		b.ctx.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
}

func (b *buffer) Update(off int64, data []byte) error {
	if b.buf == nil {
		return errors.New("wgpu: buffer destroyed")
	}
	b.ctx.queue.WriteBuffer(b.buf, uint64(off), data)
	return nil
}

func (c *ctxt) NewTexture(desc *driver.TexDesc, init [][]byte) (driver.Texture, error) {
	format, err := texFormat(desc.PixelFmt)
	if err != nil {
		return nil, err
	}
	usage := gputypes.TextureUsageCopyDst
	if desc.Usage&driver.UShaderSample != 0 {
		usage |= gputypes.TextureUsageTextureBinding
	}
	if desc.Usage&driver.URenderTarget != 0 {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	dim := gputypes.TextureDimension2D
	depthOrLayers := desc.Layers * desc.Type.Faces()
	switch desc.Type {
	case driver.Tex1D, driver.Tex1DArray:
		dim = gputypes.TextureDimension1D
	case driver.Tex3D:
		dim = gputypes.TextureDimension3D
		depthOrLayers = desc.Depth
	}
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(max(1, desc.Height)),
			DepthOrArrayLayers: uint32(max(1, depthOrLayers)),
		},
		MipLevelCount: uint32(desc.Levels),
		SampleCount:   uint32(desc.Samples),
		Dimension:     dim,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: uint32(desc.Levels),
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	t := &texture{ctx: c, desc: *desc, tex: tex, view: view}
	if len(init) != 0 {
		layers := max(1, desc.Layers) * desc.Type.Faces()
		for i := range init {
			level := i % desc.Levels
			layer := i / desc.Levels
			if layer >= layers {
				break
			}
			ext := t.levelExtent(level)
			err := t.Update(driver.Off3D{}, ext, layer, level, init[i])
			if err != nil {
				t.Destroy()
				return nil, err
			}
		}
	}
	return t, nil
}

type texture struct {
	ctx  *ctxt
	desc driver.TexDesc
	tex  hal.Texture
	view hal.TextureView
}

func (t *texture) levelExtent(l int) driver.Dim3D {
	return driver.Dim3D{
		Width:  max(1, t.desc.Width>>l),
		Height: max(1, t.desc.Height>>l),
		Depth:  max(1, t.desc.Depth>>l),
	}
}

func (t *texture) Bind() {}

func (t *texture) Destroy() {
	if t.tex != nil {
		t.ctx.device.DestroyTexture(t.tex)
		t.tex = nil
		t.view = nil
	}
}

func (t *texture) Update(off driver.Off3D, size driver.Dim3D, layer, level int, data []byte) error {
	if t.tex == nil {
		return errors.New("wgpu: texture destroyed")
	}
	w, h, d := size.Width, max(1, size.Height), max(1, size.Depth)
	px := t.desc.Size()
	// For array textures the Z origin addresses the layer;
	// 3D textures use it for the region offset instead.
	z := layer
	if t.desc.Type == driver.Tex3D {
		z = off.Z
	}
	t.ctx.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(level),
			Origin:   hal.Origin3D{X: uint32(off.X), Y: uint32(off.Y), Z: uint32(z)},
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * px),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: uint32(d),
		},
	)
	return nil
}

func (c *ctxt) NewShader(stage driver.Stage, src []byte) (driver.Shader, error) {
	if stage == driver.SGeometry {
		return nil, errors.New("wgpu: geometry stage not supported")
	}
	m, err := wgslvars.Lower(src)
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	mod, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Source: hal.ShaderSource{WGSL: string(src)},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}
	// The source is retained so NewProgram can compile its
	// own copies of the stages.
	return &shader{ctx: c, stage: stage, src: src, mod: mod, ir: m, entry: entryPoint(m, stage)}, nil
}

// entryPoint returns the name of the module's entry point
// for the given stage, if any.
func entryPoint(m *ir.Module, stage driver.Stage) string {
	want := ir.StageVertex
	if stage == driver.SFragment {
		want = ir.StageFragment
	}
	for i := range m.EntryPoints {
		if m.EntryPoints[i].Stage == want {
			return m.EntryPoints[i].Name
		}
	}
	return ""
}

type shader struct {
	ctx   *ctxt
	stage driver.Stage
	src   []byte
	mod   hal.ShaderModule
	ir    *ir.Module
	entry string
}

func (s *shader) Destroy() {
	if s.mod != nil {
		s.ctx.device.DestroyShaderModule(s.mod)
		s.mod = nil
	}
}

func (c *ctxt) NewProgram(sh []driver.Shader) (driver.Program, *driver.ProgramVars, error) {
	p := &program{ctx: c}
	modules := make([]*ir.Module, 0, len(sh))
	for i := range sh {
		s, ok := sh[i].(*shader)
		if !ok {
			p.Destroy()
			return nil, nil, errors.New("wgpu: foreign shader")
		}
		modules = append(modules, s.ir)
		// The program compiles its own copy of each stage,
		// so the shaders it was linked from may be destroyed
		// once it exists.
		mod, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Source: hal.ShaderSource{WGSL: string(s.src)},
		})
		if err != nil {
			p.Destroy()
			return nil, nil, fmt.Errorf("wgpu: create shader module: %w", err)
		}
		switch s.stage {
		case driver.SVertex:
			p.vert, p.vertEntry = mod, s.entry
		case driver.SFragment:
			p.frag, p.fragEntry = mod, s.entry
		}
	}
	if p.vert == nil {
		p.Destroy()
		return nil, nil, errors.New("wgpu: program has no vertex stage")
	}
	vars, err := wgslvars.Vars(modules...)
	if err != nil {
		p.Destroy()
		return nil, nil, fmt.Errorf("wgpu: %w", err)
	}
	return p, vars, nil
}

// program owns a compiled module per stage, independent of
// the shaders it was linked from.
type program struct {
	ctx       *ctxt
	vert      hal.ShaderModule
	frag      hal.ShaderModule
	vertEntry string
	fragEntry string
}

func (p *program) Bind() {}

func (p *program) Destroy() {
	if p.vert != nil {
		p.ctx.device.DestroyShaderModule(p.vert)
		p.vert = nil
	}
	if p.frag != nil {
		p.ctx.device.DestroyShaderModule(p.frag)
		p.frag = nil
	}
}

func (c *ctxt) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	s, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		AddressModeU: addrMode(spln.AddrU),
		AddressModeV: addrMode(spln.AddrV),
		AddressModeW: addrMode(spln.AddrW),
		MagFilter:    filterMode(spln.Mag),
		MinFilter:    filterMode(spln.Min),
		MipmapFilter: filterMode(spln.Mipmap),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	return &sampler{ctx: c, splr: s}, nil
}

type sampler struct {
	ctx  *ctxt
	splr hal.Sampler
}

func (s *sampler) Bind() {}

func (s *sampler) Destroy() {
	if s.splr != nil {
		s.ctx.device.DestroySampler(s.splr)
		s.splr = nil
	}
}

func (c *ctxt) NewPipeline(prog driver.Program, desc *driver.PipelineDesc) (driver.Pipeline, error) {
	p, ok := prog.(*program)
	if !ok {
		return nil, errors.New("wgpu: foreign program")
	}
	if desc.NeedsBinding() {
		return nil, errors.New("wgpu: description has unbound slots")
	}

	var entries []gputypes.BindGroupLayoutEntry
	for i := range desc.Blocks {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(desc.Blocks[i].Slot.Index),
			Visibility: stageFlags(desc.Blocks[i].Stages),
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for i := range desc.Views {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(desc.Views[i].Slot.Index),
			Visibility: stageFlags(desc.Views[i].Stages),
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: viewDimension(desc.Views[i].Type),
			},
		})
	}
	for i := range desc.Samplers {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(desc.Samplers[i].Slot.Index),
			Visibility: stageFlags(desc.Samplers[i].Stages),
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	bgl, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	layout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		BindGroupLayouts: []hal.BindGroupLayout{bgl},
	})
	if err != nil {
		c.device.DestroyBindGroupLayout(bgl)
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	// One vertex buffer slot per attribute: the front end
	// binds the feeding buffer once per attribute, so slot
	// i of the data set lines up with layout i here.
	bufs := make([]gputypes.VertexBufferLayout, len(desc.Attrs))
	for i := range desc.Attrs {
		format, err := vertexFormat(desc.Attrs[i].Format)
		if err != nil {
			c.device.DestroyPipelineLayout(layout)
			c.device.DestroyBindGroupLayout(bgl)
			return nil, err
		}
		bufs[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(desc.Attrs[i].Stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{{
				Format:         format,
				Offset:         uint64(desc.Attrs[i].Offset),
				ShaderLocation: uint32(desc.Attrs[i].Slot.Index),
			}},
		}
	}

	var frag *hal.FragmentState
	if p.frag != nil {
		targets := make([]gputypes.ColorTargetState, len(desc.Targets))
		for i := range desc.Targets {
			format, err := texFormat(desc.Targets[i].Format)
			if err != nil {
				c.device.DestroyPipelineLayout(layout)
				c.device.DestroyBindGroupLayout(bgl)
				return nil, err
			}
			targets[i] = gputypes.ColorTargetState{
				Format:    format,
				Blend:     blendState(desc.Targets[i].Blend),
				WriteMask: writeMask(desc.Targets[i].Blend),
			}
		}
		frag = &hal.FragmentState{
			Module:     p.frag,
			EntryPoint: p.fragEntry,
			Targets:    targets,
		}
	}

	var dsState *hal.DepthStencilState
	if desc.DS != nil {
		format, err := texFormat(desc.DS.Format)
		if err != nil {
			c.device.DestroyPipelineLayout(layout)
			c.device.DestroyBindGroupLayout(bgl)
			return nil, err
		}
		dsState = &hal.DepthStencilState{
			Format:            format,
			DepthWriteEnabled: desc.DSState.DepthWrite,
			DepthCompare:      gputypes.CompareFunctionAlways,
			StencilFront:      stencilFace(&desc.DSState.Front, desc.DSState.StencilTest),
			StencilBack:       stencilFace(&desc.DSState.Back, desc.DSState.StencilTest),
			StencilReadMask:   desc.DSState.Front.ReadMask,
			StencilWriteMask:  desc.DSState.Front.WriteMask,
		}
		if desc.DSState.DepthTest {
			dsState.DepthCompare = cmpFunc(desc.DSState.DepthCmp)
		}
	}

	pl, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     p.vert,
			EntryPoint: p.vertEntry,
			Buffers:    bufs,
		},
		Fragment:     frag,
		DepthStencil: dsState,
		Primitive: gputypes.PrimitiveState{
			Topology: topology(desc.Topology),
			CullMode: cullMode(desc.Raster.Cull),
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		c.device.DestroyPipelineLayout(layout)
		c.device.DestroyBindGroupLayout(bgl)
		return nil, fmt.Errorf("wgpu: create render pipeline: %w", err)
	}
	return &pipeline{ctx: c, pl: pl, layout: layout, bgl: bgl}, nil
}

type pipeline struct {
	ctx    *ctxt
	pl     hal.RenderPipeline
	layout hal.PipelineLayout
	bgl    hal.BindGroupLayout
}

func (p *pipeline) Bind() {}

func (p *pipeline) Destroy() {
	if p.pl != nil {
		p.ctx.device.DestroyRenderPipeline(p.pl)
		p.ctx.device.DestroyPipelineLayout(p.layout)
		p.ctx.device.DestroyBindGroupLayout(p.bgl)
		p.pl = nil
	}
}
