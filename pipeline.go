package rhi

import (
	"errors"
	"fmt"

	"github.com/arev/rhi/driver"
)

const pipelinePrefix = "pipeline: "

// Pipeline is a front-end handle combining a Shape, a
// Program and fixed-function state. Creating a pipeline
// freezes the backend-independent description; pinning
// resolves any unbound slots against the program and then
// creates the backend resource.
type Pipeline struct {
	fields []shapeField
	prog   *Program
	desc   driver.PipelineDesc
	pl     driver.Pipeline
	refs   int
}

// NewPipeline builds a pipeline from a shape and a
// program. raster and ds may be nil for default state.
// The shape's fields are copied; the shape may be reused
// or modified afterwards. The pipeline acquires a
// reference to prog.
func NewPipeline(shape *Shape, prog *Program, topology driver.Topology, raster *driver.RasterState, ds *driver.DSState) (*Pipeline, error) {
	if err := shape.Err(); err != nil {
		return nil, err
	}
	if prog == nil {
		return nil, errors.New(pipelinePrefix + "nil program")
	}
	p := &Pipeline{
		fields: make([]shapeField, len(shape.fields)),
		prog:   prog,
		refs:   1,
	}
	copy(p.fields, shape.fields)
	p.desc.Topology = topology
	if raster != nil {
		p.desc.Raster = *raster
	}
	if ds != nil {
		p.desc.DSState = *ds
	}
	for i := range p.fields {
		f := &p.fields[i]
		switch f.kind {
		case fieldVertexIn:
			stride := f.layout.stride()
			off := 0
			for _, e := range f.layout.Elements {
				p.desc.Attrs = append(p.desc.Attrs, driver.AttrDesc{
					Name:   e.Name,
					Slot:   e.Slot,
					Format: e.Format,
					Stride: stride,
					Offset: off,
				})
				off += e.Format.Size()
			}
		case fieldBlock:
			p.desc.Blocks = append(p.desc.Blocks, driver.BlockDesc{
				Name:   f.name,
				Slot:   f.slot,
				Size:   f.size,
				Stages: f.stages,
			})
		case fieldView:
			p.desc.Views = append(p.desc.Views, driver.ViewDesc{
				Name:   f.name,
				Slot:   f.slot,
				Type:   f.texType,
				Stages: f.stages,
			})
		case fieldSampler:
			p.desc.Samplers = append(p.desc.Samplers, driver.SamplerDesc{
				Name:   f.name,
				Slot:   f.slot,
				Stages: f.stages,
			})
		case fieldColorTarget:
			p.desc.Targets = append(p.desc.Targets, driver.TargetDesc{
				Name:   f.name,
				Slot:   f.slot,
				Format: f.format,
				Blend:  f.blend,
			})
		case fieldDepthTarget:
			p.desc.DS = &driver.DSDesc{Format: f.format, Depth: true}
		case fieldStencilTarget:
			p.desc.DS = &driver.DSDesc{Format: f.format, Stencil: true}
		case fieldDepthStencilTarget:
			p.desc.DS = &driver.DSDesc{Format: f.format, Depth: true, Stencil: true}
		case fieldScissor:
			p.desc.ScissorEnabled = true
		}
	}
	prog.ref()
	return p, nil
}

// Pin creates the backend resource on ctx, pinning the
// program first if necessary.
//
// If any slot of the description is unbound, the driver
// must support introspection; driver.ErrNoIntrospection is
// returned before any backend resource is created
// otherwise. Every unbound slot is then resolved by looking
// up the field's name among the program variables of the
// matching category. A name the program does not have is
// an error. Pinning a pinned pipeline fails with
// ErrPinned.
func (p *Pipeline) Pin(ctx driver.Context) error {
	if p.pl != nil {
		return fmt.Errorf(pipelinePrefix+"%w", ErrPinned)
	}
	needsBinding := p.desc.NeedsBinding()
	if needsBinding && !ctx.Introspection() {
		return fmt.Errorf(pipelinePrefix+"unbound slots: %w", driver.ErrNoIntrospection)
	}
	if !p.prog.Pinned() {
		if err := p.prog.Pin(ctx); err != nil {
			return err
		}
	}
	if needsBinding {
		vars := p.prog.Vars()
		if vars == nil {
			return fmt.Errorf(pipelinePrefix+"unbound slots: %w", driver.ErrNoIntrospection)
		}
		if err := p.resolve(vars); err != nil {
			return err
		}
		if p.desc.NeedsBinding() {
			panic(pipelinePrefix + "slots left unbound after resolution")
		}
	}
	pl, err := ctx.NewPipeline(p.prog.prog, &p.desc)
	if err != nil {
		return err
	}
	p.pl = pl
	Logger().Debug("pipeline pinned", "driver", ctx.Driver().Name(),
		"attrs", len(p.desc.Attrs), "blocks", len(p.desc.Blocks),
		"views", len(p.desc.Views), "samplers", len(p.desc.Samplers),
		"targets", len(p.desc.Targets))
	return nil
}

func (p *Pipeline) resolve(vars *driver.ProgramVars) error {
	for i := range p.desc.Attrs {
		if p.desc.Attrs[i].Slot.Bound {
			continue
		}
		v := vars.Attribute(p.desc.Attrs[i].Name)
		if v == nil {
			return fmt.Errorf(pipelinePrefix+"no vertex input %q in program", p.desc.Attrs[i].Name)
		}
		p.desc.Attrs[i].Slot = driver.BindSlot(v.Slot)
	}
	for i := range p.desc.Blocks {
		if p.desc.Blocks[i].Slot.Bound {
			continue
		}
		v := vars.Block(p.desc.Blocks[i].Name)
		if v == nil {
			return fmt.Errorf(pipelinePrefix+"no constant block %q in program", p.desc.Blocks[i].Name)
		}
		p.desc.Blocks[i].Slot = driver.BindSlot(v.Slot)
	}
	for i := range p.desc.Views {
		if p.desc.Views[i].Slot.Bound {
			continue
		}
		v := vars.Texture(p.desc.Views[i].Name)
		if v == nil {
			return fmt.Errorf(pipelinePrefix+"no texture %q in program", p.desc.Views[i].Name)
		}
		p.desc.Views[i].Slot = driver.BindSlot(v.Slot)
	}
	for i := range p.desc.Samplers {
		if p.desc.Samplers[i].Slot.Bound {
			continue
		}
		v := vars.Sampler(p.desc.Samplers[i].Name)
		if v == nil {
			return fmt.Errorf(pipelinePrefix+"no sampler %q in program", p.desc.Samplers[i].Name)
		}
		p.desc.Samplers[i].Slot = driver.BindSlot(v.Slot)
	}
	for i := range p.desc.Targets {
		if p.desc.Targets[i].Slot.Bound {
			continue
		}
		v := vars.Output(p.desc.Targets[i].Name)
		if v == nil {
			return fmt.Errorf(pipelinePrefix+"no output %q in program", p.desc.Targets[i].Name)
		}
		p.desc.Targets[i].Slot = driver.BindSlot(v.Slot)
	}
	return nil
}

// Desc returns the pipeline's description. After a
// successful Pin, every slot is bound.
func (p *Pipeline) Desc() driver.PipelineDesc { return p.desc }

// Release drops one reference, destroying the backend
// resource when the last one goes and releasing the
// program reference. Releasing a dead pipeline has no
// effect.
func (p *Pipeline) Release() {
	if p.refs <= 0 {
		return
	}
	if p.refs--; p.refs == 0 {
		if p.pl != nil {
			p.pl.Destroy()
			p.pl = nil
		}
		p.prog.Release()
		p.prog = nil
	}
}

func (p *Pipeline) ref() { p.refs++ }

// Pinned returns whether the backend resource exists.
func (p *Pipeline) Pinned() bool { return p.pl != nil }
