package recommend

import "sync/atomic"

// Holder publishes the current engine. Readers always see a complete engine; a reload
// builds a new one off to the side and swaps it in.
type Holder struct {
	current atomic.Pointer[Engine]
}

// NewHolder creates a holder serving e, which may be nil until the first build.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	if e != nil {
		h.current.Store(e)
	}
	return h
}

// Load returns the current engine or nil.
func (h *Holder) Load() *Engine {
	return h.current.Load()
}

// Swap installs e and returns the engine it replaced.
func (h *Holder) Swap(e *Engine) *Engine {
	return h.current.Swap(e)
}
