package recording

import (
	"fmt"
	"sort"
	"sync"
)

// BackendFactory creates a new backend configured by opts. Factories apply
// their own defaults first, so opts override them.
type BackendFactory func(opts ...Option) *Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register registers a backend factory with the given name. It is
// typically called from init.
//
// Register panics if factory is nil or name is already registered.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("recording: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("recording: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes a backend from the registry. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend creates a backend by registered name, passing opts to its factory.
func NewBackend(name string, opts ...Option) (*Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("recording: unknown backend %q (forgotten import?)", name)
	}
	return factory(opts...), nil
}

// Backends returns the registered backend names in alphabetical order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target size of the registered "raster" backend.
const (
	DefaultRasterWidth  = 1024
	DefaultRasterHeight = 768
)

func init() {
	Register("memory", New)
	Register("raster", func(opts ...Option) *Backend {
		return New(append([]Option{WithTarget(DefaultRasterWidth, DefaultRasterHeight)}, opts...)...)
	})
}
