package wgslvars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arev/rhi/driver"
)

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

const fsSrc = `
@group(0) @binding(0) var<uniform> exposure: f32;
@group(0) @binding(1) var base_color: texture_2d<f32>;
@group(0) @binding(2) var base_sampler: sampler;

struct FSOut {
    @location(0) color: vec4<f32>,
    @location(1) bright: vec4<f32>,
}

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> FSOut {
    var out: FSOut;
    out.color = textureSample(base_color, base_sampler, uv) * exposure;
    out.bright = out.color;
    return out;
}
`

func TestLower(t *testing.T) {
	m, err := Lower([]byte(vsSrc))
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Len(t, m.EntryPoints, 1)

	_, err = Lower([]byte("fn broken("))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wgslvars: ")
}

func TestVars(t *testing.T) {
	vs, err := Lower([]byte(vsSrc))
	require.NoError(t, err)
	fs, err := Lower([]byte(fsSrc))
	require.NoError(t, err)

	vars, err := Vars(vs, fs)
	require.NoError(t, err)

	require.Len(t, vars.Attributes, 2)
	assert.Equal(t, driver.ShaderVar{
		Name: "a_pos", Slot: 2, Type: driver.VVec4, Stages: driver.SVertex,
	}, vars.Attributes[0])
	assert.Equal(t, driver.ShaderVar{
		Name: "a_uv", Slot: 0, Type: driver.VVec2, Stages: driver.SVertex,
	}, vars.Attributes[1])

	require.Len(t, vars.Blocks, 2)
	assert.Equal(t, "globals", vars.Blocks[0].Name)
	assert.Equal(t, 0, vars.Blocks[0].Slot)
	assert.Equal(t, driver.VBlock, vars.Blocks[0].Type)
	assert.Equal(t, int64(80), vars.Blocks[0].Size)
	assert.Equal(t, driver.SVertex, vars.Blocks[0].Stages)
	assert.Equal(t, "exposure", vars.Blocks[1].Name)
	assert.Equal(t, driver.SFragment, vars.Blocks[1].Stages)

	require.Len(t, vars.Textures, 1)
	assert.Equal(t, "base_color", vars.Textures[0].Name)
	assert.Equal(t, 1, vars.Textures[0].Slot)
	assert.Equal(t, driver.VTexture, vars.Textures[0].Type)

	require.Len(t, vars.Samplers, 1)
	assert.Equal(t, "base_sampler", vars.Samplers[0].Name)
	assert.Equal(t, 2, vars.Samplers[0].Slot)
	assert.Equal(t, driver.VSampler, vars.Samplers[0].Type)

	require.Len(t, vars.Outputs, 2)
	assert.Equal(t, driver.ShaderVar{
		Name: "color", Slot: 0, Type: driver.VVec4, Stages: driver.SFragment,
	}, vars.Outputs[0])
	assert.Equal(t, driver.ShaderVar{
		Name: "bright", Slot: 1, Type: driver.VVec4, Stages: driver.SFragment,
	}, vars.Outputs[1])

	assert.Nil(t, vars.Block("nope"))
	assert.NotNil(t, vars.Texture("base_color"))
}

// A global declared by both stages folds into one entry
// with the stage masks combined.
func TestVarsStageMerge(t *testing.T) {
	shared := `
struct Globals {
    mvp: mat4x4<f32>,
    tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;
`
	vs, err := Lower([]byte(shared + `
@vertex
fn vs_main(@location(0) a_pos: vec4<f32>) -> @builtin(position) vec4<f32> {
    return globals.mvp * a_pos;
}
`))
	require.NoError(t, err)
	fs, err := Lower([]byte(shared + `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return globals.tint;
}
`))
	require.NoError(t, err)

	vars, err := Vars(vs, fs)
	require.NoError(t, err)
	require.Len(t, vars.Blocks, 1)
	assert.Equal(t, driver.SVertex|driver.SFragment, vars.Blocks[0].Stages)

	// A direct fragment result has no name of its own.
	require.Len(t, vars.Outputs, 1)
	assert.Equal(t, "", vars.Outputs[0].Name)
	assert.Equal(t, 0, vars.Outputs[0].Slot)
}

func TestVarsSlotConflict(t *testing.T) {
	vs, err := Lower([]byte(`
@group(0) @binding(0) var<uniform> exposure: f32;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(exposure);
}
`))
	require.NoError(t, err)
	fs, err := Lower([]byte(`
@group(0) @binding(3) var<uniform> exposure: f32;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(exposure);
}
`))
	require.NoError(t, err)

	_, err = Vars(vs, fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"exposure"`)
}
