// Package wgslvars derives program variable catalogs from
// WGSL shader source. Drivers that accept WGSL use it to
// implement introspection without talking to the device:
// the source is parsed and lowered with gogpu/naga and the
// catalogs are read off the IR module.
package wgslvars

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/arev/rhi/driver"
)

// Lower parses and lowers WGSL source to an IR module.
func Lower(src []byte) (*ir.Module, error) {
	s := string(src)
	ast, err := naga.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("wgslvars: %w", err)
	}
	m, err := naga.LowerWithSource(ast, s)
	if err != nil {
		return nil, fmt.Errorf("wgslvars: %w", err)
	}
	return m, nil
}

// Vars derives the variable catalogs of a program linked
// from the given lowered shader modules.
//
// Vertex entry point arguments with location bindings
// become Attributes and fragment entry point results with
// location bindings become Outputs; struct arguments and
// results contribute one entry per location-bound member.
// Uniform and storage globals become Blocks, and handle
// globals become Textures or Samplers according to their
// type. A name declared by more than one module must
// refer to the same binding slot in all of them.
func Vars(modules ...*ir.Module) (*driver.ProgramVars, error) {
	var vars driver.ProgramVars
	for _, m := range modules {
		stages := moduleStages(m)
		for i := range m.EntryPoints {
			ep := &m.EntryPoints[i]
			fn := &ep.Function
			switch ep.Stage {
			case ir.StageVertex:
				for j := range fn.Arguments {
					arg := &fn.Arguments[j]
					for _, v := range inputVars(m, arg.Name, arg.Type, arg.Binding) {
						v.Stages = driver.SVertex
						if err := merge(&vars.Attributes, v); err != nil {
							return nil, err
						}
					}
				}
			case ir.StageFragment:
				if fn.Result == nil {
					continue
				}
				for _, v := range inputVars(m, "", fn.Result.Type, fn.Result.Binding) {
					v.Stages = driver.SFragment
					if err := merge(&vars.Outputs, v); err != nil {
						return nil, err
					}
				}
			}
		}
		for i := range m.GlobalVariables {
			gv := &m.GlobalVariables[i]
			if gv.Binding == nil {
				continue
			}
			v := driver.ShaderVar{
				Name:   gv.Name,
				Slot:   int(gv.Binding.Binding),
				Stages: stages,
			}
			var cat *[]driver.ShaderVar
			switch gv.Space {
			case ir.SpaceUniform, ir.SpaceStorage:
				v.Type = driver.VBlock
				if st, ok := m.Types[gv.Type].Inner.(ir.StructType); ok {
					v.Size = int64(st.Span)
				}
				cat = &vars.Blocks
			case ir.SpaceHandle:
				switch m.Types[gv.Type].Inner.(type) {
				case ir.ImageType:
					v.Type = driver.VTexture
					cat = &vars.Textures
				case ir.SamplerType:
					v.Type = driver.VSampler
					cat = &vars.Samplers
				}
			}
			if cat == nil {
				continue
			}
			if err := merge(cat, v); err != nil {
				return nil, err
			}
		}
	}
	return &vars, nil
}

// inputVars flattens a location-bound argument or result
// into shader variables. A struct with no direct binding
// contributes one variable per location-bound member.
func inputVars(m *ir.Module, name string, typ ir.TypeHandle, binding *ir.Binding) []driver.ShaderVar {
	if binding != nil {
		if loc, ok := (*binding).(ir.LocationBinding); ok {
			return []driver.ShaderVar{{
				Name: name,
				Slot: int(loc.Location),
				Type: varType(m, typ),
			}}
		}
		return nil
	}
	st, ok := m.Types[typ].Inner.(ir.StructType)
	if !ok {
		return nil
	}
	var vs []driver.ShaderVar
	for i := range st.Members {
		mb := &st.Members[i]
		if mb.Binding == nil {
			continue
		}
		if loc, ok := (*mb.Binding).(ir.LocationBinding); ok {
			vs = append(vs, driver.ShaderVar{
				Name: mb.Name,
				Slot: int(loc.Location),
				Type: varType(m, mb.Type),
			})
		}
	}
	return vs
}

// merge appends v to cat, folding duplicates from other
// stages. Two declarations of one name must agree on the
// binding slot.
func merge(cat *[]driver.ShaderVar, v driver.ShaderVar) error {
	for i := range *cat {
		if (*cat)[i].Name != v.Name {
			continue
		}
		if (*cat)[i].Slot != v.Slot {
			return fmt.Errorf("wgslvars: %q bound to both slot %d and slot %d",
				v.Name, (*cat)[i].Slot, v.Slot)
		}
		(*cat)[i].Stages |= v.Stages
		return nil
	}
	*cat = append(*cat, v)
	return nil
}

func moduleStages(m *ir.Module) driver.Stage {
	var s driver.Stage
	for i := range m.EntryPoints {
		switch m.EntryPoints[i].Stage {
		case ir.StageVertex:
			s |= driver.SVertex
		case ir.StageFragment:
			s |= driver.SFragment
		}
	}
	return s
}

func varType(m *ir.Module, h ir.TypeHandle) driver.VarType {
	switch t := m.Types[h].Inner.(type) {
	case ir.ScalarType:
		switch t.Kind {
		case ir.ScalarFloat:
			return driver.VFloat
		case ir.ScalarSint:
			return driver.VInt
		case ir.ScalarUint:
			return driver.VUInt
		}
	case ir.VectorType:
		var base driver.VarType
		switch t.Scalar.Kind {
		case ir.ScalarFloat:
			base = driver.VVec2
		case ir.ScalarSint:
			base = driver.VIVec2
		case ir.ScalarUint:
			base = driver.VUVec2
		default:
			return driver.VUnknown
		}
		return base + driver.VarType(t.Size-ir.Vec2)
	case ir.MatrixType:
		switch {
		case t.Columns == ir.Vec3 && t.Rows == ir.Vec3:
			return driver.VMat3
		case t.Columns == ir.Vec4 && t.Rows == ir.Vec4:
			return driver.VMat4
		}
	case ir.StructType:
		return driver.VBlock
	case ir.ImageType:
		return driver.VTexture
	case ir.SamplerType:
		return driver.VSampler
	}
	return driver.VUnknown
}
