package drawlist

import "errors"

// Sentinel errors for drawlist.
var (
	// ErrResourceNotFound is returned when the loader has no resource with the given name.
	ErrResourceNotFound = errors.New("drawlist: resource not found")

	// ErrClosed is returned when using a context after Close.
	ErrClosed = errors.New("drawlist: context is closed")

	// ErrNoBackend is returned by New when backend is nil.
	ErrNoBackend = errors.New("drawlist: backend is nil")

	// ErrNoLoader is returned when a resource is requested without a loader.
	ErrNoLoader = errors.New("drawlist: no resource loader configured")

	// ErrUnbalancedTransform is returned when a command list is submitted
	// with pushes that were never popped.
	ErrUnbalancedTransform = errors.New("drawlist: unbalanced transform stack")
)
