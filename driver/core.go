package driver

// Context is the main interface to an underlying driver
// implementation. It is used to create backend resources
// and to query device capabilities.
// A Context is obtained from a call to Driver.Open.
//
// Resource creation is synchronous: every New* method
// either returns a usable resource or an error. The core
// adds no retry policy, so failures reported here surface
// unchanged to the caller that requested the resource.
type Context interface {
	// Driver returns the Driver that owns the Context.
	Driver() Driver

	// NewBuffer creates a new buffer.
	// If init is non-nil, its contents define the initial
	// data of the buffer and len(init) must not exceed
	// desc.Size.
	NewBuffer(desc *BufDesc, init []byte) (Buffer, error)

	// NewTexture creates a new texture.
	// init must either be empty or contain exactly one
	// byte slice per sub-resource of the texture, in
	// (image, face, level) order.
	NewTexture(desc *TexDesc, init [][]byte) (Texture, error)

	// NewShader creates a new shader from source text.
	// The source bytes are opaque to the core and are
	// handed to the driver unmodified.
	NewShader(stage Stage, src []byte) (Shader, error)

	// NewProgram links a set of compiled shaders.
	// If the driver supports introspection, the returned
	// ProgramVars describes the variables of the linked
	// program; otherwise it is nil.
	NewProgram(sh []Shader) (Program, *ProgramVars, error)

	// NewSampler creates a new sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// NewPipeline creates a new pipeline from a linked
	// program and a fully resolved layout description.
	// Every binding slot in desc must be bound; drivers
	// may assume that desc.NeedsBinding() is false.
	NewPipeline(prog Program, desc *PipelineDesc) (Pipeline, error)

	// Introspection returns whether the driver can report
	// the variables of a linked program.
	Introspection() bool

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the Context.
	Limits() Limits
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Binder is the interface that wraps the Bind method.
// Binding makes a resource current for subsequent driver
// operations. What "current" means is driver-specific;
// drivers with explicit binding models may treat it as
// a no-op.
type Binder interface {
	Bind()
}

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed. When a larger buffer
// is necessary, a new one must be created and the data
// must be copied explicitly.
type Buffer interface {
	Destroyer
	Binder

	// Update replaces a byte range of the buffer.
	// The range [off, off+len(data)) must lie within the
	// buffer's size.
	Update(off int64, data []byte) error
}

// Texture is the interface that defines a GPU texture.
type Texture interface {
	Destroyer
	Binder

	// Update replaces a region of a single sub-resource.
	// The region must lie within the extent of the given
	// mip level and len(data) must equal the byte size of
	// the region.
	Update(off Off3D, size Dim3D, layer, level int, data []byte) error
}

// Shader is the interface that defines a compiled shader
// stage.
type Shader interface {
	Destroyer
}

// Program is the interface that defines a linked shader
// program. A Program retains whatever compiled-stage state
// it needs internally; the Shaders it was linked from may
// be destroyed once linking succeeds.
type Program interface {
	Destroyer
	Binder
}

// Sampler is the interface that defines a texture sampler.
type Sampler interface {
	Destroyer
	Binder
}

// Pipeline is the interface that defines a GPU pipeline.
type Pipeline interface {
	Destroyer
	Binder
}

// BufRole determines what a buffer provides to the GPU.
type BufRole int

// Buffer roles.
const (
	RVertex BufRole = iota
	RIndex
	RConstant
	ROther
)

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Texture.
const (
	// The resource can be read in shaders.
	UShaderRead Usage = 1 << iota
	// The resource can be written in shaders.
	UShaderWrite
	// The resource can provide constant data for shaders.
	// Valid only for Buffer.
	UShaderConst
	// The resource can be sampled in shaders.
	// Valid only for Texture.
	UShaderSample
	// The resource can provide vertex data for draw calls.
	// Valid only for Buffer.
	UVertexData
	// The resource can provide index data for draw calls.
	// Valid only for Buffer.
	UIndexData
	// The resource can be used as render target.
	// Valid only for Texture.
	URenderTarget
	// The resource can be updated in place after creation.
	UCopyDst
	// The resource can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// BufDesc describes a buffer to be created.
// It is plain data with no behavior.
type BufDesc struct {
	Role  BufRole
	Usage Usage
	Size  int64
}

// TexType is the type of a texture.
type TexType int

// Texture types.
const (
	Tex1D TexType = iota
	Tex1DArray
	Tex2D
	Tex2DArray
	Tex2DMS
	Tex2DArrayMS
	Tex3D
	TexCube
	TexCubeArray
)

// Faces returns the number of cube faces per image,
// which is 6 for cube types and 1 otherwise.
func (t TexType) Faces() int {
	switch t {
	case TexCube, TexCubeArray:
		return 6
	}
	return 1
}

// Arrayed returns whether the type addresses more than
// one image.
func (t TexType) Arrayed() bool {
	switch t {
	case Tex1DArray, Tex2DArray, Tex2DArrayMS, TexCubeArray:
		return true
	}
	return false
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	FInvalid PixelFmt = iota
	// Color, 8-bit channels.
	RGBA8un
	RGBA8sRGB
	BGRA8un
	BGRA8sRGB
	RG8un
	R8un
	// Color, 16-bit channels.
	RGBA16f
	RG16f
	R16f
	// Color, 32-bit channels.
	RGBA32f
	RG32f
	R32f
	// Depth/Stencil.
	D16un
	D32f
	S8ui
	D24unS8ui
	D32fS8ui
)

// Size returns the number of bytes per pixel of f.
func (f PixelFmt) Size() int {
	switch f {
	case R8un, S8ui:
		return 1
	case RG8un, R16f, D16un:
		return 2
	case RGBA8un, RGBA8sRGB, BGRA8un, BGRA8sRGB, RG16f, R32f, D32f, D24unS8ui:
		return 4
	case RGBA16f, RG32f, D32fS8ui:
		return 8
	case RGBA32f:
		return 16
	}
	return 0
}

// HasDepth returns whether f contains a depth aspect.
func (f PixelFmt) HasDepth() bool {
	switch f {
	case D16un, D32f, D24unS8ui, D32fS8ui:
		return true
	}
	return false
}

// HasStencil returns whether f contains a stencil aspect.
func (f PixelFmt) HasStencil() bool {
	switch f {
	case S8ui, D24unS8ui, D32fS8ui:
		return true
	}
	return false
}

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// TexDesc describes a texture to be created.
// It is plain data with no behavior.
type TexDesc struct {
	Type TexType
	PixelFmt
	Dim3D
	Layers  int
	Levels  int
	Samples int
	Usage   Usage
}

// Stage is a mask of programmable stages.
type Stage int

// Stages.
const (
	SVertex Stage = 1 << iota
	SGeometry
	SFragment
)

// VertexFmt describes the format of a vertex input.
type VertexFmt int

// Vertex formats.
const (
	Int8 VertexFmt = iota
	Int8x2
	Int8x4
	Int16
	Int16x2
	Int16x4
	Int32
	Int32x2
	Int32x3
	Int32x4
	UInt8
	UInt8x2
	UInt8x4
	UInt16
	UInt16x2
	UInt16x4
	UInt32
	UInt32x2
	UInt32x3
	UInt32x4
	Float32
	Float32x2
	Float32x3
	Float32x4
)

// Size returns the number of bytes that a single vertex
// of format f occupies.
func (f VertexFmt) Size() int {
	switch f {
	case Int8, UInt8:
		return 1
	case Int8x2, UInt8x2, Int16, UInt16:
		return 2
	case Int8x4, UInt8x4, Int16x2, UInt16x2, Int32, UInt32, Float32:
		return 4
	case Int16x4, UInt16x4, Int32x2, UInt32x2, Float32x2:
		return 8
	case Int32x3, UInt32x3, Float32x3:
		return 12
	case Int32x4, UInt32x4, Float32x4:
		return 16
	}
	return 0
}

// Topology is the type of primitive topologies,
// which determines how vertex data is assembled.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLnStrip
	TTriangle
	TTriStrip
)

// CullMode is the type of cull modes, which
// determines primitive culling based on triangle
// facing direction.
type CullMode int

// Cull modes.
const (
	CNone CullMode = iota
	CFront
	CBack
)

// FillMode is the type of triangle fill modes, which
// determines the final rasterization of triangles.
type FillMode int

// Triangle fill modes.
const (
	FFill FillMode = iota
	FLines
)

// RasterState defines the rasterization state of a
// graphics pipeline.
type RasterState struct {
	// Winding order is either clockwise or counter-clockwise.
	Clockwise bool
	Cull      CullMode
	Fill      FillMode
	// DepthBias enables depth bias computation.
	DepthBias bool
	BiasValue float32
	BiasSlope float32
	BiasClamp float32
}

// CmpFunc is the type of comparison functions.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CNotEqual
	CGreaterEqual
	CAlways
)

// StencilOp is the type of stencil operations.
type StencilOp int

// Stencil operations.
const (
	SKeep StencilOp = iota
	SZero
	SReplace
	SIncClamp
	SDecClamp
	SInvert
	SIncWrap
	SDecWrap
)

// StencilT defines stencil test parameters for the
// depth/stencil state of a graphics pipeline.
type StencilT struct {
	DSFail    [2]StencilOp
	Pass      StencilOp
	ReadMask  uint32
	WriteMask uint32
	Cmp       CmpFunc
}

// DSState defines the depth/stencil state of a
// graphics pipeline.
type DSState struct {
	// DepthTest enables the depth test.
	DepthTest bool
	// DepthWrite enables depth writes.
	DepthWrite bool
	DepthCmp   CmpFunc
	// StencilTest enables the stencil test.
	StencilTest bool
	Front       StencilT
	Back        StencilT
}

// BlendOp is the type of blend operations.
type BlendOp int

// Blend operations.
const (
	BAdd BlendOp = iota
	BSubtract
	BRevSubtract
	BMin
	BMax
)

// BlendFac is the type of blend factors.
type BlendFac int

// Blend factors.
const (
	BZero BlendFac = iota
	BOne
	BSrcColor
	BInvSrcColor
	BSrcAlpha
	BInvSrcAlpha
	BDstColor
	BInvDstColor
	BDstAlpha
	BInvDstAlpha
	BSrcAlphaSaturated
	BBlendColor
	BInvBlendColor
)

// ColorMask is the type of a color write mask.
type ColorMask int

// Color write masks.
const (
	CRed ColorMask = 1 << iota
	CGreen
	CBlue
	CAlpha
	// Write to all channels.
	CAll ColorMask = 1<<iota - 1
)

// ColorBlend defines a render target's blend parameters.
type ColorBlend struct {
	// Blend enables blending.
	Blend bool
	// WriteMask specifies which color channels to write.
	// If blending is not enabled, the incoming samples
	// are written unmodified to the specified channels.
	WriteMask ColorMask
	// In the arrays that follow, [0] is for color and
	// [1] is for alpha.
	Op     [2]BlendOp
	SrcFac [2]BlendFac
	DstFac [2]BlendFac
}

// Scissor defines a scissor rectangle.
type Scissor struct {
	X, Y, Width, Height int
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
	// FNoMipmap forces mip level 0 to be used.
	// It is only valid as the mip filter of a sampler.
	FNoMipmap
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampling describes texture sampler state.
type Sampling struct {
	Min    Filter
	Mag    Filter
	Mipmap Filter
	AddrU  AddrMode
	AddrV  AddrMode
	AddrW  AddrMode
	MinLOD float32
	MaxLOD float32
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width of 1D textures.
	MaxTex1D int
	// Maximum width and height of 2D textures.
	MaxTex2D int
	// Maximum width and height of cube textures.
	MaxTexCube int
	// Maximum width, height and depth of 3D textures.
	MaxTex3D int
	// Maximum number of layers in a texture array.
	MaxLayers int

	// Maximum size of a buffer in bytes.
	MaxBufferSize int64
	// Maximum range of a constant block in bytes.
	MaxBlockSize int64

	// Maximum number of vertex inputs in a pipeline.
	MaxVertexIn int
	// Maximum number of constant blocks in a pipeline.
	MaxBlocks int
	// Maximum number of sampled textures in a pipeline.
	MaxViews int
	// Maximum number of samplers in a pipeline.
	MaxSamplers int
	// Maximum number of color targets in a pipeline.
	MaxColorTargets int
}
