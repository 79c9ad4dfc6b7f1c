package solver

import (
	"context"
	"runtime"

	"github.com/san-kum/gaussiancl/internal/gcl"
	"golang.org/x/sync/errgroup"
)

// Problem is one independent solve in a batch.
type Problem struct {
	Name      string
	Target    []float64
	Transform gcl.Transform
	Options   []Option
}

// Batch runs independent problems in parallel. Shared options apply to
// every problem before its own options.
type Batch struct {
	opts  []Option
	limit int
}

func NewBatch(limit int, opts ...Option) *Batch {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Batch{opts: opts, limit: limit}
}

// Run solves every problem and returns results in input order. The first
// hard error cancels the remaining problems; non-convergence is not an error.
func (b *Batch) Run(ctx context.Context, problems []Problem) ([]*Result, error) {
	results := make([]*Result, len(problems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)

	for i, p := range problems {
		i, p := i, p
		g.Go(func() error {
			opts := make([]Option, 0, len(b.opts)+len(p.Options))
			opts = append(opts, b.opts...)
			opts = append(opts, p.Options...)

			res, err := New(p.Transform, opts...).Solve(gctx, p.Target)
			if err != nil {
				return &SolveError{Index: i, Name: p.Name, Wrapped: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
