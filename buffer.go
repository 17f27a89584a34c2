package rhi

import (
	"errors"
	"fmt"

	"github.com/arev/rhi/driver"
)

const bufPrefix = "buffer: "

// BufParam describes the parameters of a new buffer.
// Buffers are element-addressed: Stride is the byte size
// of one element and Count the number of elements.
type BufParam struct {
	Role   driver.BufRole
	Usage  driver.Usage
	Stride int
	Count  int
}

func (p *BufParam) validate() error {
	var reason string
	switch {
	case p.Stride < 1:
		reason = "stride is not positive"
	case p.Count < 1:
		reason = "count is not positive"
	default:
		goto validParam
	}
	return errors.New(bufPrefix + reason)
validParam:
	return nil
}

// Buffer is a front-end buffer handle.
type Buffer struct {
	param BufParam
	data  []byte
	buf   driver.Buffer
	refs  int
}

// NewBuffer creates a new buffer handle.
// If data is non-empty it becomes the initial payload and
// its length must be exactly param.Stride × param.Count.
// The payload is retained by the handle until it is pinned
// and must not be modified by the caller in the meantime.
func NewBuffer(param *BufParam, data []byte) (*Buffer, error) {
	if err := param.validate(); err != nil {
		return nil, err
	}
	if n := param.Stride * param.Count; len(data) != 0 && len(data) != n {
		return nil, fmt.Errorf(bufPrefix+"payload is %d bytes, want %d", len(data), n)
	}
	return &Buffer{param: *param, data: data, refs: 1}, nil
}

// Pin creates the backend resource on ctx, handing it the
// retained payload, and then discards the payload.
// Pinning a pinned buffer fails with ErrPinned.
func (b *Buffer) Pin(ctx driver.Context) error {
	if b.buf != nil {
		return fmt.Errorf(bufPrefix+"%w", ErrPinned)
	}
	desc := driver.BufDesc{
		Role:  b.param.Role,
		Usage: b.param.Usage,
		Size:  int64(b.param.Stride) * int64(b.param.Count),
	}
	buf, err := ctx.NewBuffer(&desc, b.data)
	if err != nil {
		return err
	}
	b.buf = buf
	b.data = nil
	Logger().Debug("buffer pinned", "driver", ctx.Driver().Name(), "size", desc.Size)
	return nil
}

// Update replaces the elements in the range
// [start, start+count). The buffer must be pinned, the
// range must be within bounds and len(data) must be exactly
// count × stride bytes. Nothing is written otherwise.
func (b *Buffer) Update(start, count int, data []byte) error {
	if b.buf == nil {
		return fmt.Errorf(bufPrefix+"%w", ErrNotPinned)
	}
	switch {
	case start < 0 || count < 1:
		return fmt.Errorf(bufPrefix+"invalid element range [%d, %d)", start, start+count)
	case start+count > b.param.Count:
		return fmt.Errorf(bufPrefix+"element range [%d, %d) out of bounds", start, start+count)
	case len(data) != count*b.param.Stride:
		return fmt.Errorf(bufPrefix+"update is %d bytes, want %d", len(data), count*b.param.Stride)
	}
	return b.buf.Update(int64(start)*int64(b.param.Stride), data)
}

// Release drops one reference, destroying the backend
// resource when the last one goes. Releasing a dead buffer
// has no effect.
func (b *Buffer) Release() {
	if b.refs <= 0 {
		return
	}
	if b.refs--; b.refs == 0 {
		if b.buf != nil {
			b.buf.Destroy()
			b.buf = nil
		}
		b.data = nil
	}
}

func (b *Buffer) ref() { b.refs++ }

// Pinned returns whether the backend resource exists.
func (b *Buffer) Pinned() bool { return b.buf != nil }

// Count returns the number of elements.
func (b *Buffer) Count() int { return b.param.Count }

// Stride returns the byte size of one element.
func (b *Buffer) Stride() int { return b.param.Stride }

// Role returns what the buffer provides to the GPU.
func (b *Buffer) Role() driver.BufRole { return b.param.Role }
