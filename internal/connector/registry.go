package connector

import (
	"fmt"
	"sync"
)

// Registry is the ordered, append-only set of configured connectors.
type Registry struct {
	mu         sync.RWMutex
	connectors []Connector
	byID       map[string]Connector
}

// NewRegistry creates a registry holding the given connectors.
func NewRegistry(connectors ...Connector) (*Registry, error) {
	r := &Registry{byID: make(map[string]Connector)}
	for _, c := range connectors {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a connector. Ids must be unique.
func (r *Registry) Add(c Connector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID()]; exists {
		return fmt.Errorf("connector %q already registered", c.ID())
	}
	r.connectors = append(r.connectors, c)
	r.byID[c.ID()] = c
	return nil
}

// Find returns the connector with the given id.
func (r *Registry) Find(id string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// All returns the connectors in registration order.
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Connector, len(r.connectors))
	copy(out, r.connectors)
	return out
}

// Len returns the number of registered connectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connectors)
}

// New builds a connector of the given type.
func New(kind string, opts Options) (Connector, error) {
	switch kind {
	case TypeSatsConnect:
		return NewSatsConnectConnector(opts), nil
	case TypeLeather:
		return NewLeatherConnector(opts), nil
	case TypeOKX:
		return NewOKXConnector(opts), nil
	default:
		return nil, fmt.Errorf("unsupported connector type: %s", kind)
	}
}
