package providers

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrAdapterNotFound is returned when no adapter is registered for a provider
	ErrAdapterNotFound = errors.New("provider adapter not found")

	// ErrAdapterAlreadyRegistered is returned when registering a duplicate adapter
	ErrAdapterAlreadyRegistered = errors.New("provider adapter already registered")
)

// Registry is the lookup table from provider type to adapter. Selection is
// by the provider field of a ModelIdentity; there is no inheritance and no
// prefix guessing.
type Registry struct {
	mu       sync.RWMutex
	adapters map[ProviderType]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[ProviderType]Adapter)}
}

// Register adds an adapter for its declared provider type.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.New("adapter cannot be nil")
	}
	name := adapter.Name()
	if !name.Valid() {
		return errors.New("adapter reports an unknown provider type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return ErrAdapterAlreadyRegistered
	}
	r.adapters[name] = adapter
	return nil
}

// AdapterFor returns the adapter serving the given model's provider.
func (r *Registry) AdapterFor(model ModelIdentity) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[model.Provider]
	if !exists {
		return nil, ErrAdapterNotFound
	}
	return adapter, nil
}

// Providers returns the registered provider types in sorted order.
func (r *Registry) Providers() []ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]ProviderType, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}
