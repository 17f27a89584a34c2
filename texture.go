package rhi

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/arev/rhi/driver"
)

const texPrefix = "texture: "

// TexParam describes the parameters of a new texture.
// Height and Depth may be zero on axes the texture type
// does not use; Layers and Samples may be zero for
// non-array and single-sample types.
type TexParam struct {
	Type driver.TexType
	driver.PixelFmt
	driver.Dim3D
	Layers  int
	Levels  int
	Samples int
}

func (p *TexParam) validate() error {
	var reason string
	switch {
	case p.Size() == 0:
		reason = "invalid pixel format"
	case p.Width < 1 || p.Height < 0 || p.Depth < 0:
		reason = "invalid size"
	case p.is1D() && p.Height > 1:
		reason = "height in 1D texture"
	case !p.is1D() && p.Height < 1:
		reason = "height is not positive"
	case p.Type == driver.Tex3D && p.Depth < 1:
		reason = "3D texture with no depth"
	case p.Type != driver.Tex3D && p.Depth > 1:
		reason = "depth in non-3D texture"
	case p.isCube() && p.Width != p.Height:
		reason = "cube faces are not square"
	case p.Type.Arrayed() && p.Layers < 1:
		reason = "array texture with no layers"
	case !p.Type.Arrayed() && p.Layers > 1:
		reason = "layers in non-array texture"
	case p.Levels < 1 || p.Levels > p.maxLevels():
		reason = "invalid mip level count"
	case p.isMS() != (p.Samples > 1):
		reason = "invalid sample count"
	default:
		goto validParam
	}
	return errors.New(texPrefix + reason)
validParam:
	return nil
}

func (p *TexParam) is1D() bool {
	return p.Type == driver.Tex1D || p.Type == driver.Tex1DArray
}

func (p *TexParam) isCube() bool {
	return p.Type == driver.TexCube || p.Type == driver.TexCubeArray
}

func (p *TexParam) isMS() bool {
	return p.Type == driver.Tex2DMS || p.Type == driver.Tex2DArrayMS
}

func (p *TexParam) maxLevels() int {
	n := max(p.Width, p.Height, p.Depth)
	return bits.Len(uint(n))
}

// images returns the number of array images, which is 1
// for non-array types.
func (p *TexParam) images() int {
	if p.Type.Arrayed() {
		return p.Layers
	}
	return 1
}

// slices returns the number of sub-resources: one per
// (image, face, level) triple.
func (p *TexParam) slices() int {
	return p.images() * p.Type.Faces() * p.Levels
}

// levelExtent returns the size of mip level l, which is at
// least 1 on every axis.
func (p *TexParam) levelExtent(l int) driver.Dim3D {
	return driver.Dim3D{
		Width:  max(1, p.Width>>l),
		Height: max(1, p.Height>>l),
		Depth:  max(1, p.Depth>>l),
	}
}

// levelBytes returns the byte size of one slice of mip
// level l.
func (p *TexParam) levelBytes(l int) int {
	d := p.levelExtent(l)
	return p.Size() * d.Width * d.Height * d.Depth
}

// Texture is a front-end texture handle.
type Texture struct {
	param TexParam
	usage driver.Usage
	data  [][]byte
	tex   driver.Texture
	refs  int
}

// NewTexture creates a new sampled texture handle.
// init must either be empty or contain exactly one byte
// slice per sub-resource of the texture, indexed
// (image×faces + face)×levels + level, each slice exactly
// the byte size of its mip level. The payload is retained
// by the handle until it is pinned.
func NewTexture(param *TexParam, init [][]byte) (*Texture, error) {
	return newTexture(param, init, driver.UShaderSample|driver.UShaderRead|driver.UCopyDst)
}

// NewTarget creates a new texture handle usable as a color
// or depth/stencil target of a data set. Targets carry no
// initial payload.
func NewTarget(param *TexParam) (*Texture, error) {
	return newTexture(param, nil, driver.URenderTarget|driver.UShaderSample)
}

func newTexture(param *TexParam, init [][]byte, usage driver.Usage) (*Texture, error) {
	if err := param.validate(); err != nil {
		return nil, err
	}
	if len(init) != 0 {
		if param.Samples > 1 {
			return nil, errors.New(texPrefix + "multi-sample texture with initial data")
		}
		if n := param.slices(); len(init) != n {
			return nil, fmt.Errorf(texPrefix+"payload has %d slices, want %d", len(init), n)
		}
		levels := param.Levels
		for i := range init {
			if n := param.levelBytes(i % levels); len(init[i]) != n {
				return nil, fmt.Errorf(texPrefix+"payload slice %d is %d bytes, want %d", i, len(init[i]), n)
			}
		}
	}
	return &Texture{param: *param, usage: usage, data: init, refs: 1}, nil
}

// Pin creates the backend resource on ctx, handing it the
// retained payload, and then discards the payload.
// Pinning a pinned texture fails with ErrPinned.
func (t *Texture) Pin(ctx driver.Context) error {
	if t.tex != nil {
		return fmt.Errorf(texPrefix+"%w", ErrPinned)
	}
	desc := driver.TexDesc{
		Type:     t.param.Type,
		PixelFmt: t.param.PixelFmt,
		Dim3D:    t.param.levelExtent(0),
		Layers:   t.param.images(),
		Levels:   t.param.Levels,
		Samples:  max(1, t.param.Samples),
		Usage:    t.usage,
	}
	tex, err := ctx.NewTexture(&desc, t.data)
	if err != nil {
		return err
	}
	t.tex = tex
	t.data = nil
	Logger().Debug("texture pinned", "driver", ctx.Driver().Name(),
		"width", desc.Width, "height", desc.Height, "slices", t.param.slices())
	return nil
}

// Update replaces a region of one sub-resource.
// layer indexes the flattened (image, face) pairs and level
// the mip level. The texture must be pinned, the region
// must be within the extent of the mip level on every axis
// and len(data) must be exactly the byte size of the
// region. Nothing is written otherwise.
func (t *Texture) Update(off driver.Off3D, size driver.Dim3D, layer, level int, data []byte) error {
	if t.tex == nil {
		return fmt.Errorf(texPrefix+"%w", ErrNotPinned)
	}
	if level < 0 || level >= t.param.Levels {
		return fmt.Errorf(texPrefix+"level %d out of bounds", level)
	}
	w, h, d := size.Width, max(1, size.Height), max(1, size.Depth)
	ext := t.param.levelExtent(level)
	switch {
	case layer < 0 || layer >= t.param.images()*t.param.Type.Faces():
		return fmt.Errorf(texPrefix+"layer %d out of bounds", layer)
	case w < 1 || size.Height < 0 || size.Depth < 0:
		return errors.New(texPrefix + "invalid region size")
	case off.X < 0 || off.Y < 0 || off.Z < 0,
		off.X+w > ext.Width, off.Y+h > ext.Height, off.Z+d > ext.Depth:
		return fmt.Errorf(texPrefix+"region out of bounds of level %d", level)
	case len(data) != t.param.Size()*w*h*d:
		return fmt.Errorf(texPrefix+"update is %d bytes, want %d", len(data), t.param.Size()*w*h*d)
	}
	return t.tex.Update(off, size, layer, level, data)
}

// Release drops one reference, destroying the backend
// resource when the last one goes. Releasing a dead
// texture has no effect.
func (t *Texture) Release() {
	if t.refs <= 0 {
		return
	}
	if t.refs--; t.refs == 0 {
		if t.tex != nil {
			t.tex.Destroy()
			t.tex = nil
		}
		t.data = nil
	}
}

func (t *Texture) ref() { t.refs++ }

// Pinned returns whether the backend resource exists.
func (t *Texture) Pinned() bool { return t.tex != nil }

// Param returns the texture's creation parameters.
func (t *Texture) Param() TexParam { return t.param }
