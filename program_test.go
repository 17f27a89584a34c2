package rhi_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/arev/rhi"
	"github.com/arev/rhi/driver"
)

func TestNewShader(t *testing.T) {
	cases := []struct {
		stage driver.Stage
		src   []byte
		ok    bool
	}{
		{driver.SVertex, []byte(vsSrc), true},
		{driver.SFragment, []byte(fsSrc), true},
		{driver.SVertex | driver.SFragment, []byte(vsSrc), false},
		{0, []byte(vsSrc), false},
		{driver.SVertex, nil, false},
	}
	for _, c := range cases {
		s, err := rhi.NewShader(c.stage, c.src)
		if c.ok {
			if err != nil {
				t.Fatalf("rhi.NewShader failed: %v", err)
			}
			if s.Stage() != c.stage {
				t.Errorf("Shader.Stage: %v, want %v", s.Stage(), c.stage)
			}
			s.Release()
			continue
		}
		if err == nil {
			t.Fatalf("rhi.NewShader(%v, %d bytes): accepted", c.stage, len(c.src))
		}
		if !strings.HasPrefix(err.Error(), "shader: ") {
			t.Fatalf("rhi.NewShader: unexpected error %v", err)
		}
	}
}

func TestShaderPin(t *testing.T) {
	s, err := rhi.NewShader(driver.SVertex, []byte(vsSrc))
	if err != nil {
		t.Fatalf("rhi.NewShader failed: %v", err)
	}
	defer s.Release()
	if s.Pinned() {
		t.Fatal("Shader.Pinned before Pin: true")
	}
	if err := s.Pin(ctx); err != nil {
		t.Fatalf("Shader.Pin failed: %v", err)
	}
	if !s.Pinned() {
		t.Fatal("Shader.Pinned after Pin: false")
	}
	if err := s.Pin(ctx); !errors.Is(err, rhi.ErrPinned) {
		t.Errorf("Shader.Pin twice: unexpected error %v", err)
	}
}

func TestNewProgram(t *testing.T) {
	if _, err := rhi.NewProgram(); err == nil {
		t.Error("rhi.NewProgram: empty shader list accepted")
	}
	vs, err := rhi.NewShader(driver.SVertex, []byte(vsSrc))
	if err != nil {
		t.Fatalf("rhi.NewShader failed: %v", err)
	}
	defer vs.Release()
	if _, err := rhi.NewProgram(vs, vs); err == nil {
		t.Error("rhi.NewProgram: duplicate stage accepted")
	}
}

func TestProgramPin(t *testing.T) {
	prog := newTestProgram(t)
	defer prog.Release()
	if prog.Vars() != nil {
		t.Error("Program.Vars before Pin: non-nil")
	}
	if err := prog.Pin(ctx); err != nil {
		t.Fatalf("Program.Pin failed: %v", err)
	}
	if !prog.Pinned() {
		t.Fatal("Program.Pinned after Pin: false")
	}
	vars := prog.Vars()
	if vars == nil {
		t.Fatal("Program.Vars: nil on an introspecting driver")
	}
	if v := vars.Attribute("a_pos"); v == nil || v.Slot != 2 {
		t.Errorf("attribute a_pos: %v", v)
	}
	if v := vars.Block("globals"); v == nil || v.Slot != 0 {
		t.Errorf("block globals: %v", v)
	}
	if err := prog.Pin(ctx); !errors.Is(err, rhi.ErrPinned) {
		t.Errorf("Program.Pin twice: unexpected error %v", err)
	}
}

// Linking drops the program's shader references, so a
// shader that only the program held goes away with it.
func TestProgramShaderRefs(t *testing.T) {
	vs, err := rhi.NewShader(driver.SVertex, []byte(vsSrc))
	if err != nil {
		t.Fatalf("rhi.NewShader failed: %v", err)
	}
	prog, err := rhi.NewProgram(vs)
	if err != nil {
		t.Fatalf("rhi.NewProgram failed: %v", err)
	}
	vs.Release()
	if err := prog.Pin(ctx); err != nil {
		t.Fatalf("Program.Pin failed: %v", err)
	}
	if vs.Pinned() {
		t.Error("Program.Pin: shader reference not released")
	}
	prog.Release()
	if prog.Pinned() {
		t.Error("Program.Release: program still pinned")
	}
	prog.Release()
}
