package driver

// VarType classifies a shader variable.
type VarType int

// Shader variable types.
const (
	VUnknown VarType = iota
	VFloat
	VVec2
	VVec3
	VVec4
	VInt
	VIVec2
	VIVec3
	VIVec4
	VUInt
	VUVec2
	VUVec3
	VUVec4
	VMat3
	VMat4
	VBlock
	VTexture
	VSampler
)

// ShaderVar describes one variable of a linked program.
// Slot is the attribute location, binding index or output
// location, depending on the catalog the variable belongs
// to. Size is the byte span for block variables and zero
// otherwise.
type ShaderVar struct {
	Name   string
	Slot   int
	Type   VarType
	Size   int64
	Stages Stage
}

// ProgramVars describes the variables of a linked program
// as reported by driver introspection. The catalogs are
// immutable once returned by Context.NewProgram.
type ProgramVars struct {
	// Attributes are the vertex stage inputs.
	Attributes []ShaderVar
	// Constants are loose (non-block) uniform values.
	Constants []ShaderVar
	// Blocks are the constant/uniform blocks.
	Blocks []ShaderVar
	// Textures are the sampled texture bindings.
	Textures []ShaderVar
	// Samplers are the sampler bindings.
	Samplers []ShaderVar
	// Outputs are the fragment stage outputs.
	Outputs []ShaderVar
}

// lookup returns the variable in vars named name, or nil.
func lookup(vars []ShaderVar, name string) *ShaderVar {
	for i := range vars {
		if vars[i].Name == name {
			return &vars[i]
		}
	}
	return nil
}

// Attribute returns the vertex input named name, or nil if
// the program has no such input.
func (v *ProgramVars) Attribute(name string) *ShaderVar { return lookup(v.Attributes, name) }

// Block returns the constant block named name, or nil if
// the program has no such block.
func (v *ProgramVars) Block(name string) *ShaderVar { return lookup(v.Blocks, name) }

// Texture returns the sampled texture named name, or nil
// if the program has no such binding.
func (v *ProgramVars) Texture(name string) *ShaderVar { return lookup(v.Textures, name) }

// Sampler returns the sampler named name, or nil if the
// program has no such binding.
func (v *ProgramVars) Sampler(name string) *ShaderVar { return lookup(v.Samplers, name) }

// Output returns the fragment output named name, or nil if
// the program has no such output.
func (v *ProgramVars) Output(name string) *ShaderVar { return lookup(v.Outputs, name) }
