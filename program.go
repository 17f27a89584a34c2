package rhi

import (
	"errors"
	"fmt"

	"github.com/arev/rhi/driver"
)

const progPrefix = "program: "

// Program is a front-end handle for a linked shader
// program. It holds references to its shaders until it is
// pinned; linking releases them, so shaders whose only
// purpose was the program go away with it.
type Program struct {
	shaders []*Shader
	prog    driver.Program
	vars    *driver.ProgramVars
	refs    int
}

// NewProgram creates a new program handle from shaders,
// at most one per stage. The program acquires a reference
// to each shader.
func NewProgram(shaders ...*Shader) (*Program, error) {
	if len(shaders) == 0 {
		return nil, errors.New(progPrefix + "no shaders")
	}
	var stages driver.Stage
	for _, s := range shaders {
		if stages&s.stage != 0 {
			return nil, errors.New(progPrefix + "more than one shader per stage")
		}
		stages |= s.stage
	}
	p := &Program{shaders: make([]*Shader, len(shaders)), refs: 1}
	for i, s := range shaders {
		s.ref()
		p.shaders[i] = s
	}
	return p, nil
}

// Pin links the program on ctx, pinning any shader that is
// not pinned yet, and then releases the shader references.
// Pinning a pinned program fails with ErrPinned.
func (p *Program) Pin(ctx driver.Context) error {
	if p.prog != nil {
		return fmt.Errorf(progPrefix+"%w", ErrPinned)
	}
	sh := make([]driver.Shader, len(p.shaders))
	for i, s := range p.shaders {
		if s.shd == nil {
			if err := s.Pin(ctx); err != nil {
				return err
			}
		}
		sh[i] = s.shd
	}
	prog, vars, err := ctx.NewProgram(sh)
	if err != nil {
		return err
	}
	p.prog = prog
	p.vars = vars
	for _, s := range p.shaders {
		s.Release()
	}
	p.shaders = nil
	Logger().Debug("program pinned", "driver", ctx.Driver().Name(), "introspection", vars != nil)
	return nil
}

// Vars returns the variables of the linked program.
// It returns nil when the program is not pinned or the
// driver does not support introspection.
func (p *Program) Vars() *driver.ProgramVars { return p.vars }

// Release drops one reference, destroying the backend
// resource when the last one goes. Releasing a dead
// program has no effect.
func (p *Program) Release() {
	if p.refs <= 0 {
		return
	}
	if p.refs--; p.refs == 0 {
		if p.prog != nil {
			p.prog.Destroy()
			p.prog = nil
		}
		for _, s := range p.shaders {
			s.Release()
		}
		p.shaders = nil
		p.vars = nil
	}
}

func (p *Program) ref() { p.refs++ }

// Pinned returns whether the backend resource exists.
func (p *Program) Pinned() bool { return p.prog != nil }
