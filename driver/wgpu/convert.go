//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/arev/rhi/driver"
)

func texFormat(f driver.PixelFmt) (gputypes.TextureFormat, error) {
	switch f {
	case driver.RGBA8un:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case driver.RGBA8sRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb, nil
	case driver.BGRA8un:
		return gputypes.TextureFormatBGRA8Unorm, nil
	case driver.BGRA8sRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb, nil
	case driver.RG8un:
		return gputypes.TextureFormatRG8Unorm, nil
	case driver.R8un:
		return gputypes.TextureFormatR8Unorm, nil
	case driver.RGBA16f:
		return gputypes.TextureFormatRGBA16Float, nil
	case driver.RG16f:
		return gputypes.TextureFormatRG16Float, nil
	case driver.R16f:
		return gputypes.TextureFormatR16Float, nil
	case driver.RGBA32f:
		return gputypes.TextureFormatRGBA32Float, nil
	case driver.RG32f:
		return gputypes.TextureFormatRG32Float, nil
	case driver.R32f:
		return gputypes.TextureFormatR32Float, nil
	case driver.D16un:
		return gputypes.TextureFormatDepth16Unorm, nil
	case driver.D32f:
		return gputypes.TextureFormatDepth32Float, nil
	case driver.S8ui:
		return gputypes.TextureFormatStencil8, nil
	case driver.D24unS8ui:
		return gputypes.TextureFormatDepth24PlusStencil8, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("wgpu: unsupported pixel format %d", f)
}

func vertexFormat(f driver.VertexFmt) (gputypes.VertexFormat, error) {
	switch f {
	case driver.Int8x2:
		return gputypes.VertexFormatSint8x2, nil
	case driver.Int8x4:
		return gputypes.VertexFormatSint8x4, nil
	case driver.Int16x2:
		return gputypes.VertexFormatSint16x2, nil
	case driver.Int16x4:
		return gputypes.VertexFormatSint16x4, nil
	case driver.Int32:
		return gputypes.VertexFormatSint32, nil
	case driver.Int32x2:
		return gputypes.VertexFormatSint32x2, nil
	case driver.Int32x3:
		return gputypes.VertexFormatSint32x3, nil
	case driver.Int32x4:
		return gputypes.VertexFormatSint32x4, nil
	case driver.UInt8x2:
		return gputypes.VertexFormatUint8x2, nil
	case driver.UInt8x4:
		return gputypes.VertexFormatUint8x4, nil
	case driver.UInt16x2:
		return gputypes.VertexFormatUint16x2, nil
	case driver.UInt16x4:
		return gputypes.VertexFormatUint16x4, nil
	case driver.UInt32:
		return gputypes.VertexFormatUint32, nil
	case driver.UInt32x2:
		return gputypes.VertexFormatUint32x2, nil
	case driver.UInt32x3:
		return gputypes.VertexFormatUint32x3, nil
	case driver.UInt32x4:
		return gputypes.VertexFormatUint32x4, nil
	case driver.Float32:
		return gputypes.VertexFormatFloat32, nil
	case driver.Float32x2:
		return gputypes.VertexFormatFloat32x2, nil
	case driver.Float32x3:
		return gputypes.VertexFormatFloat32x3, nil
	case driver.Float32x4:
		return gputypes.VertexFormatFloat32x4, nil
	}
	return 0, fmt.Errorf("wgpu: unsupported vertex format %d", f)
}

func addrMode(m driver.AddrMode) gputypes.AddressMode {
	switch m {
	case driver.AMirror:
		return gputypes.AddressModeMirrorRepeat
	case driver.AClamp:
		return gputypes.AddressModeClampToEdge
	}
	return gputypes.AddressModeRepeat
}

func filterMode(f driver.Filter) gputypes.FilterMode {
	if f == driver.FLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

func stageFlags(s driver.Stage) gputypes.ShaderStage {
	var f gputypes.ShaderStage
	if s&driver.SVertex != 0 {
		f |= gputypes.ShaderStageVertex
	}
	if s&driver.SFragment != 0 {
		f |= gputypes.ShaderStageFragment
	}
	if f == 0 {
		f = gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	}
	return f
}

func viewDimension(t driver.TexType) gputypes.TextureViewDimension {
	switch t {
	case driver.Tex1D, driver.Tex1DArray:
		return gputypes.TextureViewDimension1D
	case driver.Tex2DArray, driver.Tex2DArrayMS:
		return gputypes.TextureViewDimension2DArray
	case driver.Tex3D:
		return gputypes.TextureViewDimension3D
	case driver.TexCube:
		return gputypes.TextureViewDimensionCube
	case driver.TexCubeArray:
		return gputypes.TextureViewDimensionCubeArray
	}
	return gputypes.TextureViewDimension2D
}

func topology(t driver.Topology) gputypes.PrimitiveTopology {
	switch t {
	case driver.TPoint:
		return gputypes.PrimitiveTopologyPointList
	case driver.TLine:
		return gputypes.PrimitiveTopologyLineList
	case driver.TLnStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case driver.TTriStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	}
	return gputypes.PrimitiveTopologyTriangleList
}

func cullMode(m driver.CullMode) gputypes.CullMode {
	switch m {
	case driver.CFront:
		return gputypes.CullModeFront
	case driver.CBack:
		return gputypes.CullModeBack
	}
	return gputypes.CullModeNone
}

func cmpFunc(f driver.CmpFunc) gputypes.CompareFunction {
	switch f {
	case driver.CNever:
		return gputypes.CompareFunctionNever
	case driver.CLess:
		return gputypes.CompareFunctionLess
	case driver.CEqual:
		return gputypes.CompareFunctionEqual
	case driver.CLessEqual:
		return gputypes.CompareFunctionLessEqual
	case driver.CGreater:
		return gputypes.CompareFunctionGreater
	case driver.CNotEqual:
		return gputypes.CompareFunctionNotEqual
	case driver.CGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	}
	return gputypes.CompareFunctionAlways
}

func stencilOp(o driver.StencilOp) hal.StencilOperation {
	switch o {
	case driver.SZero:
		return hal.StencilOperationZero
	case driver.SReplace:
		return hal.StencilOperationReplace
	case driver.SIncClamp:
		return hal.StencilOperationIncrementClamp
	case driver.SDecClamp:
		return hal.StencilOperationDecrementClamp
	case driver.SInvert:
		return hal.StencilOperationInvert
	case driver.SIncWrap:
		return hal.StencilOperationIncrementWrap
	case driver.SDecWrap:
		return hal.StencilOperationDecrementWrap
	}
	return hal.StencilOperationKeep
}

func stencilFace(t *driver.StencilT, enabled bool) hal.StencilFaceState {
	if !enabled {
		return hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
	}
	return hal.StencilFaceState{
		Compare:     cmpFunc(t.Cmp),
		FailOp:      stencilOp(t.DSFail[0]),
		DepthFailOp: stencilOp(t.DSFail[1]),
		PassOp:      stencilOp(t.Pass),
	}
}

func blendFactor(f driver.BlendFac) gputypes.BlendFactor {
	switch f {
	case driver.BOne:
		return gputypes.BlendFactorOne
	case driver.BSrcColor:
		return gputypes.BlendFactorSrc
	case driver.BInvSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case driver.BSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case driver.BInvSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case driver.BDstColor:
		return gputypes.BlendFactorDst
	case driver.BInvDstColor:
		return gputypes.BlendFactorOneMinusDst
	case driver.BDstAlpha:
		return gputypes.BlendFactorDstAlpha
	case driver.BInvDstAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	case driver.BSrcAlphaSaturated:
		return gputypes.BlendFactorSrcAlphaSaturated
	case driver.BBlendColor:
		return gputypes.BlendFactorConstant
	case driver.BInvBlendColor:
		return gputypes.BlendFactorOneMinusConstant
	}
	return gputypes.BlendFactorZero
}

func blendOp(o driver.BlendOp) gputypes.BlendOperation {
	switch o {
	case driver.BSubtract:
		return gputypes.BlendOperationSubtract
	case driver.BRevSubtract:
		return gputypes.BlendOperationReverseSubtract
	case driver.BMin:
		return gputypes.BlendOperationMin
	case driver.BMax:
		return gputypes.BlendOperationMax
	}
	return gputypes.BlendOperationAdd
}

func blendState(b *driver.ColorBlend) *gputypes.BlendState {
	if b == nil || !b.Blend {
		return nil
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			Operation: blendOp(b.Op[0]),
			SrcFactor: blendFactor(b.SrcFac[0]),
			DstFactor: blendFactor(b.DstFac[0]),
		},
		Alpha: gputypes.BlendComponent{
			Operation: blendOp(b.Op[1]),
			SrcFactor: blendFactor(b.SrcFac[1]),
			DstFactor: blendFactor(b.DstFac[1]),
		},
	}
}

func writeMask(b *driver.ColorBlend) gputypes.ColorWriteMask {
	if b == nil {
		return gputypes.ColorWriteMaskAll
	}
	var m gputypes.ColorWriteMask
	if b.WriteMask&driver.CRed != 0 {
		m |= gputypes.ColorWriteMaskRed
	}
	if b.WriteMask&driver.CGreen != 0 {
		m |= gputypes.ColorWriteMaskGreen
	}
	if b.WriteMask&driver.CBlue != 0 {
		m |= gputypes.ColorWriteMaskBlue
	}
	if b.WriteMask&driver.CAlpha != 0 {
		m |= gputypes.ColorWriteMaskAlpha
	}
	return m
}
