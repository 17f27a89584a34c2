package rhi

import (
	"fmt"

	"github.com/arev/rhi/driver"
)

const dataPrefix = "dataset: "

// PixelTarget holds the render target views of a data set.
// Width and Height are taken from the first color target,
// or from the depth/stencil target when there is none.
type PixelTarget struct {
	Colors  Set[*Texture]
	Depth   *Texture
	Stencil *Texture
	Width   int
	Height  int
}

// DataSet is the per-draw resource collection of a
// pipeline. Its lists follow the declaration order of the
// pipeline's shape fields exactly; consumers index them
// positionally and never by name. A data set holds one
// counted reference per entry; Free drops them all.
type DataSet struct {
	VertexBufs Set[*Buffer]
	Blocks     Set[*Buffer]
	Views      Set[*Texture]
	Samplers   Set[*Sampler]
	Target     PixelTarget

	Scissor    driver.Scissor
	ScissorOn  bool
	BlendColor [4]float32
	StencilRef uint32
}

// Free drops every reference held by the data set.
func (d *DataSet) Free() {
	d.VertexBufs.Free()
	d.Blocks.Free()
	d.Views.Free()
	d.Samplers.Free()
	d.Target.Colors.Free()
	if d.Target.Depth != nil {
		d.Target.Depth.Release()
		d.Target.Depth = nil
	}
	if d.Target.Stencil != nil {
		d.Target.Stencil.Release()
		d.Target.Stencil = nil
	}
}

// Assemble builds a data set for the pipeline from
// handles, consuming them positionally in shape field
// order. A vertex input consumes one *Buffer and appends
// it once per layout element, so vertex buffer entries
// line up with the pipeline's attributes. Constant blocks
// consume a *Buffer; resource views, color targets and
// depth/stencil targets consume a *Texture; sampler fields
// consume a *Sampler. A scissor field consumes nothing.
// A handle of the wrong kind, too few handles or leftover
// handles fail the assembly; no references are retained on
// failure.
func (p *Pipeline) Assemble(handles ...Handle) (*DataSet, error) {
	d := &DataSet{}
	next := 0
	for i := range p.fields {
		f := &p.fields[i]
		if f.kind == fieldScissor {
			d.ScissorOn = true
			continue
		}
		if next >= len(handles) {
			d.Free()
			return nil, fmt.Errorf(dataPrefix+"%d handles given, none left for field %q", len(handles), f.name)
		}
		h := handles[next]
		next++
		switch f.kind {
		case fieldVertexIn:
			b, ok := h.(*Buffer)
			if !ok {
				d.Free()
				return nil, fmt.Errorf(dataPrefix+"field %q wants a *Buffer, got %T", f.name, h)
			}
			for range f.layout.Elements {
				d.VertexBufs.Add(b)
			}
		case fieldBlock:
			b, ok := h.(*Buffer)
			if !ok {
				d.Free()
				return nil, fmt.Errorf(dataPrefix+"field %q wants a *Buffer, got %T", f.name, h)
			}
			d.Blocks.Add(b)
		case fieldView:
			t, ok := h.(*Texture)
			if !ok {
				d.Free()
				return nil, fmt.Errorf(dataPrefix+"field %q wants a *Texture, got %T", f.name, h)
			}
			d.Views.Add(t)
		case fieldSampler:
			s, ok := h.(*Sampler)
			if !ok {
				d.Free()
				return nil, fmt.Errorf(dataPrefix+"field %q wants a *Sampler, got %T", f.name, h)
			}
			d.Samplers.Add(s)
		case fieldColorTarget:
			t, ok := h.(*Texture)
			if !ok {
				d.Free()
				return nil, fmt.Errorf(dataPrefix+"field %q wants a *Texture, got %T", f.name, h)
			}
			d.Target.Colors.Add(t)
			if d.Target.Width == 0 {
				d.Target.Width = t.param.Width
				d.Target.Height = max(1, t.param.Height)
			}
		case fieldDepthTarget, fieldStencilTarget, fieldDepthStencilTarget:
			t, ok := h.(*Texture)
			if !ok {
				d.Free()
				return nil, fmt.Errorf(dataPrefix+"field %q wants a *Texture, got %T", f.name, h)
			}
			if f.kind != fieldStencilTarget {
				t.ref()
				d.Target.Depth = t
			}
			if f.kind != fieldDepthTarget {
				t.ref()
				d.Target.Stencil = t
			}
		}
	}
	if next != len(handles) {
		d.Free()
		return nil, fmt.Errorf(dataPrefix+"%d handles given, %d consumed", len(handles), next)
	}
	if d.Target.Width == 0 {
		t := d.Target.Depth
		if t == nil {
			t = d.Target.Stencil
		}
		if t != nil {
			d.Target.Width = t.param.Width
			d.Target.Height = max(1, t.param.Height)
		}
	}
	return d, nil
}
