package param

import "sync"

// Registry holds the ordered set of parameters an effect or mixer
// control group declares, indexed both by ID and by position (the
// effect contract's get/set_param(index, ...) operates positionally,
// §4.2). Registry is built off the audio thread at effect-construction
// time and only read from the audio thread afterward, so its mutex
// guards construction-time mutation, never the per-block read path.
type Registry struct {
	mu     sync.RWMutex
	params map[uint32]*Parameter
	order  []uint32
}

// NewRegistry creates an empty parameter registry.
func NewRegistry() *Registry {
	return &Registry{params: make(map[uint32]*Parameter)}
}

// Add registers parameters in declaration order. Duplicate IDs are
// ignored.
func (r *Registry) Add(params ...*Parameter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			continue
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}

// Get returns the parameter with the given ID, or nil.
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params[id]
}

// ByIndex returns the parameter at the given declaration-order index,
// or nil if out of range. §7 treats an out-of-range index as a
// silently-skipped operation, never a panic.
func (r *Registry) ByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of declared parameters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All returns every parameter in declaration order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		out[i] = r.params[id]
	}
	return out
}

// NormalizedValues returns every parameter's current normalized value in
// declaration order — the shape the effect contract's get_params()
// returns (§4.2).
func (r *Registry) NormalizedValues() []float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]float32, len(r.order))
	for i, id := range r.order {
		out[i] = float32(r.params[id].GetValue())
	}
	return out
}

// Reset restores every parameter to its declared default.
func (r *Registry) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		r.params[id].Reset()
	}
}
