package driver

// Slot identifies a binding location within a pipeline.
// The zero value is unbound. Descriptions that contain
// unbound slots must be resolved against the variables of
// a linked program before pipeline creation.
type Slot struct {
	Index int
	Bound bool
}

// BindSlot returns a bound Slot referring to index i.
func BindSlot(i int) Slot {
	return Slot{Index: i, Bound: true}
}

// AttrDesc describes a single vertex attribute of a
// pipeline. Stride is the distance in bytes between
// consecutive elements in the buffer that feeds the
// attribute, and Offset locates the attribute within an
// element.
type AttrDesc struct {
	Name   string
	Slot   Slot
	Format VertexFmt
	Stride int
	Offset int
}

// BlockDesc describes a constant block of a pipeline.
type BlockDesc struct {
	Name   string
	Slot   Slot
	Size   int64
	Stages Stage
}

// ViewDesc describes a sampled texture of a pipeline.
type ViewDesc struct {
	Name   string
	Slot   Slot
	Type   TexType
	Stages Stage
}

// SamplerDesc describes a sampler of a pipeline.
type SamplerDesc struct {
	Name   string
	Slot   Slot
	Stages Stage
}

// TargetDesc describes a color target of a pipeline.
// Blend is nil for targets that write incoming samples
// unmodified.
type TargetDesc struct {
	Name   string
	Slot   Slot
	Format PixelFmt
	Blend  *ColorBlend
}

// DSDesc describes the depth/stencil target of a pipeline.
// Depth and Stencil select the aspects that the pipeline
// will use; Format must provide the selected aspects.
type DSDesc struct {
	Format  PixelFmt
	Depth   bool
	Stencil bool
}

// PipelineDesc is a backend-independent description of a
// pipeline's layout and fixed-function state.
// The order of entries within each list is set when the
// description is built and does not change thereafter.
// Drivers receive descriptions whose slots are all bound.
type PipelineDesc struct {
	Attrs    []AttrDesc
	Blocks   []BlockDesc
	Views    []ViewDesc
	Samplers []SamplerDesc
	Targets  []TargetDesc
	DS       *DSDesc

	Topology Topology
	Raster   RasterState
	DSState  DSState

	// ScissorEnabled indicates that draws using the
	// pipeline restrict output to a scissor rectangle.
	ScissorEnabled bool
}

// NeedsBinding returns whether any slot of the description
// remains unbound.
func (d *PipelineDesc) NeedsBinding() bool {
	for i := range d.Attrs {
		if !d.Attrs[i].Slot.Bound {
			return true
		}
	}
	for i := range d.Blocks {
		if !d.Blocks[i].Slot.Bound {
			return true
		}
	}
	for i := range d.Views {
		if !d.Views[i].Slot.Bound {
			return true
		}
	}
	for i := range d.Samplers {
		if !d.Samplers[i].Slot.Bound {
			return true
		}
	}
	for i := range d.Targets {
		if !d.Targets[i].Slot.Bound {
			return true
		}
	}
	return false
}
