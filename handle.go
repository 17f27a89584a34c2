package rhi

import "errors"

// ErrPinned means that an operation requiring an unpinned
// resource was called on a handle whose backend resource
// already exists.
var ErrPinned = errors.New("rhi: resource already pinned")

// ErrNotPinned means that an operation requiring a backend
// resource was called on a handle that has not been pinned.
var ErrNotPinned = errors.New("rhi: resource not pinned")

// Handle is the interface shared by all front-end resource
// handles. Every handle starts with a single reference held
// by its creator. References are counted with plain
// integers; see the package documentation for the
// concurrency contract.
type Handle interface {
	// Release drops one reference. When the last
	// reference is dropped, the backend resource (if
	// pinned) is destroyed and the handle becomes
	// unusable. Releasing a dead handle has no effect.
	Release()

	// ref acquires one reference.
	ref()
}
