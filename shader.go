package rhi

import (
	"errors"
	"fmt"

	"github.com/arev/rhi/driver"
)

const shaderPrefix = "shader: "

// Shader is a front-end handle for a single compiled
// shader stage. The source bytes are opaque to the
// package; the driver the shader is pinned to decides
// what languages it accepts.
type Shader struct {
	stage driver.Stage
	src   []byte
	shd   driver.Shader
	refs  int
}

// NewShader creates a new shader handle.
// stage must name exactly one stage. The source is
// retained by the handle until it is pinned.
func NewShader(stage driver.Stage, src []byte) (*Shader, error) {
	switch stage {
	case driver.SVertex, driver.SGeometry, driver.SFragment:
	default:
		return nil, errors.New(shaderPrefix + "invalid stage")
	}
	if len(src) == 0 {
		return nil, errors.New(shaderPrefix + "empty source")
	}
	return &Shader{stage: stage, src: src, refs: 1}, nil
}

// Pin compiles the shader on ctx and discards the retained
// source. Pinning a pinned shader fails with ErrPinned.
func (s *Shader) Pin(ctx driver.Context) error {
	if s.shd != nil {
		return fmt.Errorf(shaderPrefix+"%w", ErrPinned)
	}
	shd, err := ctx.NewShader(s.stage, s.src)
	if err != nil {
		return err
	}
	s.shd = shd
	s.src = nil
	return nil
}

// Release drops one reference, destroying the backend
// resource when the last one goes. Releasing a dead shader
// has no effect.
func (s *Shader) Release() {
	if s.refs <= 0 {
		return
	}
	if s.refs--; s.refs == 0 {
		if s.shd != nil {
			s.shd.Destroy()
			s.shd = nil
		}
		s.src = nil
	}
}

func (s *Shader) ref() { s.refs++ }

// Pinned returns whether the backend resource exists.
func (s *Shader) Pinned() bool { return s.shd != nil }

// Stage returns the stage the shader was created for.
func (s *Shader) Stage() driver.Stage { return s.stage }
