package completion

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Disposable releases a registration.
type Disposable interface {
	Dispose()
}

type disposeFunc struct {
	once sync.Once
	fn   func()
}

func (d *disposeFunc) Dispose() {
	d.once.Do(d.fn)
}

// Registration pairs a provider with the namespace it was registered under.
type Registration struct {
	Namespace string
	*Provider
}

type providerSet = orderedmap.OrderedMap[string, *Provider]

// Registry stores providers grouped by namespace. Iteration follows
// first-registration order; replacing a provider keeps its position.
type Registry struct {
	mu         sync.RWMutex
	namespaces *orderedmap.OrderedMap[string, *providerSet]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{namespaces: orderedmap.New[string, *providerSet]()}
}

// Register stores p under (namespace, id), replacing any provider already
// there, and stamps its ID and trigger characters. The returned handle
// removes whatever is registered under the key at the time it is disposed;
// disposing twice is a no-op.
func (r *Registry) Register(namespace, id string, p *Provider, triggerCharacters ...string) Disposable {
	p.ID = id
	p.TriggerCharacters = append([]string(nil), triggerCharacters...)

	r.mu.Lock()
	set, ok := r.namespaces.Get(namespace)
	if !ok {
		set = orderedmap.New[string, *Provider]()
		r.namespaces.Set(namespace, set)
	}
	set.Set(id, p)
	r.mu.Unlock()

	return &disposeFunc{fn: func() { r.remove(namespace, id) }}
}

func (r *Registry) remove(namespace, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.namespaces.Get(namespace)
	if !ok {
		return
	}
	set.Delete(id)
	if set.Len() == 0 {
		r.namespaces.Delete(namespace)
	}
}

// Registrations returns a snapshot of every registration.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Registration
	for ns := r.namespaces.Oldest(); ns != nil; ns = ns.Next() {
		for p := ns.Value.Oldest(); p != nil; p = p.Next() {
			out = append(out, Registration{Namespace: ns.Key, Provider: p.Value})
		}
	}
	return out
}

// Providers returns a snapshot of every registered provider. Each call
// produces a fresh slice.
func (r *Registry) Providers() []*Provider {
	regs := r.Registrations()
	out := make([]*Provider, 0, len(regs))
	for _, reg := range regs {
		out = append(out, reg.Provider)
	}
	return out
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for ns := r.namespaces.Oldest(); ns != nil; ns = ns.Next() {
		n += ns.Value.Len()
	}
	return n
}

// Close drops every registration.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces = orderedmap.New[string, *providerSet]()
}
