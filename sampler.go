package rhi

import (
	"fmt"

	"github.com/arev/rhi/driver"
)

const splrPrefix = "sampler: "

// Sampler is a front-end handle for a texture sampler.
type Sampler struct {
	spln driver.Sampling
	splr driver.Sampler
	refs int
}

// NewSampler creates a new sampler handle from sampling
// state. The state is copied.
func NewSampler(spln *driver.Sampling) *Sampler {
	return &Sampler{spln: *spln, refs: 1}
}

// Pin creates the backend resource on ctx.
// Pinning a pinned sampler fails with ErrPinned.
func (s *Sampler) Pin(ctx driver.Context) error {
	if s.splr != nil {
		return fmt.Errorf(splrPrefix+"%w", ErrPinned)
	}
	splr, err := ctx.NewSampler(&s.spln)
	if err != nil {
		return err
	}
	s.splr = splr
	return nil
}

// Release drops one reference, destroying the backend
// resource when the last one goes. Releasing a dead
// sampler has no effect.
func (s *Sampler) Release() {
	if s.refs <= 0 {
		return
	}
	if s.refs--; s.refs == 0 {
		if s.splr != nil {
			s.splr.Destroy()
			s.splr = nil
		}
	}
}

func (s *Sampler) ref() { s.refs++ }

// Pinned returns whether the backend resource exists.
func (s *Sampler) Pinned() bool { return s.splr != nil }

// Sampling returns the sampler's sampling state.
func (s *Sampler) Sampling() driver.Sampling { return s.spln }
