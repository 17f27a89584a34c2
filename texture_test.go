package rhi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/arev/rhi"
	"github.com/arev/rhi/driver"
)

func TestNewTexture(t *testing.T) {
	cases := []struct {
		param rhi.TexParam
		ok    bool
	}{
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1}, true},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 4}, true},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.FInvalid, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 0, Height: 8}, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 5}, false},
		{rhi.TexParam{Type: driver.TexCube, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1}, true},
		{rhi.TexParam{Type: driver.TexCube, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 4}, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex2DArray, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Layers: 4, Levels: 1}, true},
		{rhi.TexParam{Type: driver.Tex2DArray, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Layers: 2, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex3D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8, Depth: 8}, Levels: 1}, true},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8, Depth: 8}, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex2DMS, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1, Samples: 4}, true},
		{rhi.TexParam{Type: driver.Tex2DMS, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1}, false},
		{rhi.TexParam{Type: driver.Tex2D, PixelFmt: driver.RGBA8un, Dim3D: driver.Dim3D{Width: 8, Height: 8}, Levels: 1, Samples: 4}, false},
	}
	for _, c := range cases {
		tex, err := rhi.NewTexture(&c.param, nil)
		if c.ok {
			if err != nil {
				t.Fatalf("rhi.NewTexture failed: %v", err)
			}
			tex.Release()
			continue
		}
		if err == nil {
			t.Fatalf("rhi.NewTexture: %v accepted", c.param)
		}
		if !strings.HasPrefix(err.Error(), "texture: ") {
			t.Fatalf("rhi.NewTexture: unexpected error %v", err)
		}
	}
}

// Payload slices are ordered (image×faces + face)×levels + level.
func TestNewTexturePayload(t *testing.T) {
	param := rhi.TexParam{
		Type:     driver.TexCube,
		PixelFmt: driver.RGBA8un,
		Dim3D:    driver.Dim3D{Width: 4, Height: 4},
		Levels:   3,
	}
	init := make([][]byte, 6*3)
	for i := range init {
		level := i % 3
		w := 4 >> level
		init[i] = make([]byte, 4*w*w)
	}
	tex, err := rhi.NewTexture(&param, init)
	if err != nil {
		t.Fatalf("rhi.NewTexture failed: %v", err)
	}
	tex.Release()

	if _, err = rhi.NewTexture(&param, init[:17]); err == nil {
		t.Error("rhi.NewTexture: short payload accepted")
	}
	init[4] = init[4][:1]
	if _, err = rhi.NewTexture(&param, init); err == nil {
		t.Error("rhi.NewTexture: truncated slice accepted")
	}
}

func TestTexturePin(t *testing.T) {
	param := rhi.TexParam{
		Type:     driver.Tex2D,
		PixelFmt: driver.RGBA8un,
		Dim3D:    driver.Dim3D{Width: 8, Height: 8},
		Levels:   1,
	}
	tex, err := rhi.NewTexture(&param, [][]byte{make([]byte, 4*8*8)})
	if err != nil {
		t.Fatalf("rhi.NewTexture failed: %v", err)
	}
	defer tex.Release()
	upd := make([]byte, 4*8*8)
	if err := tex.Update(driver.Off3D{}, param.Dim3D, 0, 0, upd); !errors.Is(err, rhi.ErrNotPinned) {
		t.Errorf("Texture.Update before Pin: unexpected error %v", err)
	}
	if err := tex.Pin(ctx); err != nil {
		t.Fatalf("Texture.Pin failed: %v", err)
	}
	if err := tex.Pin(ctx); !errors.Is(err, rhi.ErrPinned) {
		t.Errorf("Texture.Pin twice: unexpected error %v", err)
	}
}

func TestTextureUpdate(t *testing.T) {
	param := rhi.TexParam{
		Type:     driver.TexCube,
		PixelFmt: driver.RGBA8un,
		Dim3D:    driver.Dim3D{Width: 8, Height: 8},
		Levels:   2,
	}
	tex, err := rhi.NewTexture(&param, nil)
	if err != nil {
		t.Fatalf("rhi.NewTexture failed: %v", err)
	}
	defer tex.Release()
	if err := tex.Pin(ctx); err != nil {
		t.Fatalf("Texture.Pin failed: %v", err)
	}
	cases := []struct {
		off          driver.Off3D
		size         driver.Dim3D
		layer, level int
		n            int
		ok           bool
	}{
		{driver.Off3D{}, driver.Dim3D{Width: 8, Height: 8}, 0, 0, 4 * 8 * 8, true},
		{driver.Off3D{}, driver.Dim3D{Width: 4, Height: 4}, 5, 1, 4 * 4 * 4, true},
		{driver.Off3D{X: 4, Y: 4}, driver.Dim3D{Width: 4, Height: 4}, 0, 0, 4 * 4 * 4, true},
		{driver.Off3D{X: 5, Y: 4}, driver.Dim3D{Width: 4, Height: 4}, 0, 0, 4 * 4 * 4, false},
		{driver.Off3D{}, driver.Dim3D{Width: 8, Height: 8}, 0, 1, 4 * 8 * 8, false},
		{driver.Off3D{}, driver.Dim3D{Width: 8, Height: 8}, 0, 0, 4*8*8 - 1, false},
		{driver.Off3D{}, driver.Dim3D{Width: 8, Height: 8}, 0, 0, 4*8*8 + 1, false},
		{driver.Off3D{}, driver.Dim3D{Width: 8, Height: 8}, 6, 0, 4 * 8 * 8, false},
		{driver.Off3D{}, driver.Dim3D{Width: 8, Height: 8}, 0, 2, 4 * 8 * 8, false},
	}
	for _, c := range cases {
		err := tex.Update(c.off, c.size, c.layer, c.level, make([]byte, c.n))
		if c.ok && err != nil {
			t.Errorf("Texture.Update(%v, %v, %d, %d): unexpected error %v",
				c.off, c.size, c.layer, c.level, err)
		}
		if !c.ok && err == nil {
			t.Errorf("Texture.Update(%v, %v, %d, %d): %d bytes accepted",
				c.off, c.size, c.layer, c.level, c.n)
		}
	}
}

func TestNewTarget(t *testing.T) {
	param := rhi.TexParam{
		Type:     driver.Tex2D,
		PixelFmt: driver.BGRA8un,
		Dim3D:    driver.Dim3D{Width: 256, Height: 256},
		Levels:   1,
	}
	tgt, err := rhi.NewTarget(&param)
	if err != nil {
		t.Fatalf("rhi.NewTarget failed: %v", err)
	}
	defer tgt.Release()
	if err := tgt.Pin(ctx); err != nil {
		t.Fatalf("Texture.Pin failed: %v", err)
	}
	param.PixelFmt = driver.D16un
	dep, err := rhi.NewTarget(&param)
	if err != nil {
		t.Fatalf("rhi.NewTarget failed: %v", err)
	}
	dep.Release()
}
