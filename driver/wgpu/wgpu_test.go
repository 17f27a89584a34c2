//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/arev/rhi/driver"
)

func openCtx(t *testing.T) driver.Context {
	t.Helper()
	ctx, err := new(Driver).Open()
	if err != nil {
		if errors.Is(err, driver.ErrNotInstalled) || errors.Is(err, driver.ErrNoDevice) {
			t.Skipf("no usable device: %v", err)
		}
		t.Fatalf("Driver.Open failed: %v", err)
	}
	return ctx
}

const vsSrc = `
@vertex
fn vs_main(@location(0) a_pos: vec4<f32>) -> @builtin(position) vec4<f32> {
    return a_pos;
}
`

const fsSrc = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

// A program must remain usable after the shaders it was
// linked from are destroyed.
func TestProgramOutlivesShaders(t *testing.T) {
	ctx := openCtx(t)
	vs, err := ctx.NewShader(driver.SVertex, []byte(vsSrc))
	if err != nil {
		t.Fatalf("Context.NewShader failed: %v", err)
	}
	fs, err := ctx.NewShader(driver.SFragment, []byte(fsSrc))
	if err != nil {
		t.Fatalf("Context.NewShader failed: %v", err)
	}
	prog, vars, err := ctx.NewProgram([]driver.Shader{vs, fs})
	if err != nil {
		t.Fatalf("Context.NewProgram failed: %v", err)
	}
	if vars == nil {
		t.Fatal("Context.NewProgram: nil vars on an introspecting driver")
	}
	vs.Destroy()
	fs.Destroy()

	desc := driver.PipelineDesc{
		Attrs: []driver.AttrDesc{{
			Name:   "a_pos",
			Slot:   driver.BindSlot(0),
			Format: driver.Float32x4,
			Stride: 16,
		}},
		Targets: []driver.TargetDesc{{
			Name:   "color",
			Slot:   driver.BindSlot(0),
			Format: driver.RGBA8un,
		}},
		Topology: driver.TTriangle,
	}
	pl, err := ctx.NewPipeline(prog, &desc)
	if err != nil {
		t.Fatalf("Context.NewPipeline after shader destroy failed: %v", err)
	}
	pl.Destroy()
	prog.Destroy()
}
