package solver

import "sync"

// Pool recycles correlation-domain work arrays of a fixed length.
type Pool struct {
	pool sync.Pool
	size int
}

func NewPool(size int) *Pool {
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *Pool) Size() int { return p.size }

func (p *Pool) Get() []float64 {
	return p.pool.Get().([]float64)
}

func (p *Pool) Put(s []float64) {
	if len(s) == p.size {
		clear(s)
		p.pool.Put(s)
	}
}

// GetPadded returns a pooled array holding src followed by zeros.
func (p *Pool) GetPadded(src []float64) []float64 {
	dst := p.Get()
	n := copy(dst, src)
	clear(dst[n:])
	return dst
}
