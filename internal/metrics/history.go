package metrics

import (
	"sync"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// History records the residual and step size of every accepted iteration.
type History struct {
	mu         sync.Mutex
	iterations []gcl.Iteration
}

var _ gcl.Observer = (*History)(nil)

func NewHistory() *History {
	return &History{iterations: make([]gcl.Iteration, 0, 32)}
}

func (h *History) OnIteration(it gcl.Iteration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.iterations = append(h.iterations, it)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.iterations)
}

func (h *History) Iterations() []gcl.Iteration {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]gcl.Iteration, len(h.iterations))
	copy(out, h.iterations)
	return out
}

func (h *History) Residuals() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]float64, len(h.iterations))
	for i, it := range h.iterations {
		out[i] = it.Residual
	}
	return out
}

func (h *History) Steps() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]float64, len(h.iterations))
	for i, it := range h.iterations {
		out[i] = it.StepSize
	}
	return out
}

// Monotone reports whether the recorded residuals never increase.
func (h *History) Monotone() bool {
	r := h.Residuals()
	for i := 1; i < len(r); i++ {
		if r[i] > r[i-1] {
			return false
		}
	}
	return true
}

func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.iterations = h.iterations[:0]
}
