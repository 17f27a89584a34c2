package rhi_test

import (
	"log"
	"testing"

	"github.com/arev/rhi"
	"github.com/arev/rhi/driver"
	_ "github.com/arev/rhi/driver/null"
)

var ctx driver.Context

func init() {
	var err error
	ctx, err = driver.Open("null")
	if err != nil {
		log.Fatal(err)
	}
}

// Vertex stage with deliberately shuffled input locations
// and one uniform block.
const vsSrc = `
struct Globals {
    mvp: mat4x4<f32>,
    tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;

struct VSOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@location(2) a_pos: vec4<f32>, @location(0) a_uv: vec2<f32>) -> VSOut {
    var out: VSOut;
    out.position = globals.tint + a_pos;
    out.uv = a_uv;
    return out;
}
`

// Fragment stage with a sampled texture and two outputs.
const fsSrc = `
@group(0) @binding(1) var base_color: texture_2d<f32>;
@group(0) @binding(2) var base_sampler: sampler;

struct FSOut {
    @location(0) color: vec4<f32>,
    @location(1) bright: vec4<f32>,
}

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> FSOut {
    var out: FSOut;
    out.color = textureSample(base_color, base_sampler, uv);
    out.bright = out.color;
    return out;
}
`

func newTestProgram(t *testing.T) *rhi.Program {
	t.Helper()
	vs, err := rhi.NewShader(driver.SVertex, []byte(vsSrc))
	if err != nil {
		t.Fatalf("rhi.NewShader failed: %v", err)
	}
	fs, err := rhi.NewShader(driver.SFragment, []byte(fsSrc))
	if err != nil {
		t.Fatalf("rhi.NewShader failed: %v", err)
	}
	prog, err := rhi.NewProgram(vs, fs)
	if err != nil {
		t.Fatalf("rhi.NewProgram failed: %v", err)
	}
	vs.Release()
	fs.Release()
	return prog
}
