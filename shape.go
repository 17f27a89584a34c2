package rhi

import (
	"errors"

	"github.com/arev/rhi/driver"
)

const shapePrefix = "shape: "

// VertexElement describes one attribute within a vertex
// input. An unbound slot is resolved by name against the
// program when the pipeline is pinned.
type VertexElement struct {
	Name   string
	Format driver.VertexFmt
	Slot   driver.Slot
}

// VertexLayout describes the memory layout of a vertex
// input. Elements are laid out consecutively within a
// record of Stride bytes; a zero Stride means tightly
// packed.
type VertexLayout struct {
	Stride   int
	Elements []VertexElement
}

func (l *VertexLayout) stride() int {
	if l.Stride > 0 {
		return l.Stride
	}
	n := 0
	for i := range l.Elements {
		n += l.Elements[i].Format.Size()
	}
	return n
}

type fieldKind int

const (
	fieldVertexIn fieldKind = iota
	fieldBlock
	fieldView
	fieldSampler
	fieldColorTarget
	fieldDepthTarget
	fieldStencilTarget
	fieldDepthStencilTarget
	fieldScissor
)

type shapeField struct {
	kind    fieldKind
	name    string
	layout  VertexLayout
	slot    driver.Slot
	size    int64
	stages  driver.Stage
	texType driver.TexType
	format  driver.PixelFmt
	blend   *driver.ColorBlend
}

// Shape accumulates the fields of a pipeline. The order of
// Add/Set calls defines the field order, which in turn
// defines the order that Pipeline.Assemble consumes
// handles in. The zero value is an empty shape.
//
// Configuration errors are deferred: the first one is
// retained and reported by Err and by NewPipeline; calls
// after a failure have no effect.
type Shape struct {
	fields  []shapeField
	ds      bool
	scissor bool
	err     error
}

// Err returns the first configuration error, if any.
func (s *Shape) Err() error { return s.err }

func (s *Shape) fail(reason string) *Shape {
	if s.err == nil {
		s.err = errors.New(shapePrefix + reason)
	}
	return s
}

func (s *Shape) add(f shapeField) *Shape {
	if s.err == nil {
		s.fields = append(s.fields, f)
	}
	return s
}

// AddVertexInput appends a vertex input fed by a single
// buffer. Each layout element becomes one vertex attribute
// of the pipeline.
func (s *Shape) AddVertexInput(name string, layout VertexLayout) *Shape {
	switch {
	case name == "":
		return s.fail("unnamed vertex input")
	case len(layout.Elements) == 0:
		return s.fail("vertex input with no elements")
	}
	for i := range layout.Elements {
		switch {
		case layout.Elements[i].Name == "":
			return s.fail("unnamed vertex element")
		case layout.Elements[i].Format.Size() == 0:
			return s.fail("vertex element with invalid format")
		}
	}
	return s.add(shapeField{kind: fieldVertexIn, name: name, layout: layout})
}

// AddConstantBlock appends a constant block of size bytes,
// visible to stages.
func (s *Shape) AddConstantBlock(name string, slot driver.Slot, size int64, stages driver.Stage) *Shape {
	switch {
	case name == "":
		return s.fail("unnamed constant block")
	case size < 1:
		return s.fail("constant block with no size")
	}
	return s.add(shapeField{kind: fieldBlock, name: name, slot: slot, size: size, stages: stages})
}

// AddResourceView appends a sampled texture of the given
// type, visible to stages.
func (s *Shape) AddResourceView(name string, slot driver.Slot, typ driver.TexType, stages driver.Stage) *Shape {
	if name == "" {
		return s.fail("unnamed resource view")
	}
	return s.add(shapeField{kind: fieldView, name: name, slot: slot, texType: typ, stages: stages})
}

// AddSampler appends a sampler, visible to stages.
func (s *Shape) AddSampler(name string, slot driver.Slot, stages driver.Stage) *Shape {
	if name == "" {
		return s.fail("unnamed sampler")
	}
	return s.add(shapeField{kind: fieldSampler, name: name, slot: slot, stages: stages})
}

// AddColorTarget appends a color target that writes
// incoming samples unmodified.
func (s *Shape) AddColorTarget(name string, slot driver.Slot, format driver.PixelFmt) *Shape {
	if reason := checkColorFmt(name, format); reason != "" {
		return s.fail(reason)
	}
	return s.add(shapeField{kind: fieldColorTarget, name: name, slot: slot, format: format})
}

// AddBlendTarget appends a color target with blending.
func (s *Shape) AddBlendTarget(name string, slot driver.Slot, format driver.PixelFmt, blend driver.ColorBlend) *Shape {
	if reason := checkColorFmt(name, format); reason != "" {
		return s.fail(reason)
	}
	b := blend
	return s.add(shapeField{kind: fieldColorTarget, name: name, slot: slot, format: format, blend: &b})
}

func checkColorFmt(name string, format driver.PixelFmt) string {
	switch {
	case name == "":
		return "unnamed color target"
	case format.Size() == 0, format.HasDepth(), format.HasStencil():
		return "invalid color target format"
	}
	return ""
}

// SetDepthTarget sets a depth-only target. A shape has at
// most one depth/stencil target.
func (s *Shape) SetDepthTarget(format driver.PixelFmt) *Shape {
	switch {
	case s.ds:
		return s.fail("more than one depth/stencil target")
	case !format.HasDepth():
		return s.fail("depth target format has no depth")
	}
	s.ds = true
	return s.add(shapeField{kind: fieldDepthTarget, name: "depth", format: format})
}

// SetStencilTarget sets a stencil-only target. A shape has
// at most one depth/stencil target.
func (s *Shape) SetStencilTarget(format driver.PixelFmt) *Shape {
	switch {
	case s.ds:
		return s.fail("more than one depth/stencil target")
	case !format.HasStencil():
		return s.fail("stencil target format has no stencil")
	}
	s.ds = true
	return s.add(shapeField{kind: fieldStencilTarget, name: "stencil", format: format})
}

// SetDepthStencilTarget sets a combined depth/stencil
// target. A shape has at most one depth/stencil target.
func (s *Shape) SetDepthStencilTarget(format driver.PixelFmt) *Shape {
	switch {
	case s.ds:
		return s.fail("more than one depth/stencil target")
	case !format.HasDepth() || !format.HasStencil():
		return s.fail("depth/stencil target format lacks an aspect")
	}
	s.ds = true
	return s.add(shapeField{kind: fieldDepthStencilTarget, name: "depth/stencil", format: format})
}

// EnableScissor marks draws of the pipeline as restricted
// to a scissor rectangle. It may be called at most once
// and consumes no handle during assembly.
func (s *Shape) EnableScissor() *Shape {
	if s.scissor {
		return s.fail("scissor enabled twice")
	}
	s.scissor = true
	return s.add(shapeField{kind: fieldScissor, name: "scissor"})
}
