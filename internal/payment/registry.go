package payment

import (
	"fmt"
	"sync"
)

// Registry holds the payment methods offered at checkout, in registration order.
type Registry struct {
	mu       sync.RWMutex
	ids      []string
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) (*Registry, error) {
	r := &Registry{gateways: make(map[string]Gateway)}
	for _, g := range gateways {
		if err := r.Register(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(g Gateway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.gateways[g.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGateway, g.ID())
	}
	r.gateways[g.ID()] = g
	r.ids = append(r.ids, g.ID())
	return nil
}

func (r *Registry) Get(id string) (Gateway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gateways[id]
	return g, ok
}

// Available returns the enabled gateways.
func (r *Registry) Available() []Gateway {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Gateway, 0, len(r.ids))
	for _, id := range r.ids {
		if g := r.gateways[id]; g.Enabled() {
			out = append(out, g)
		}
	}
	return out
}

func (r *Registry) All() []Gateway {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Gateway, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.gateways[id])
	}
	return out
}
